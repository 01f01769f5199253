// Package progress provides the default interactive sink for endpoint
// validation: a single-line terminal renderer. It is a presentation concern
// only; services accept any entity.ProgressSink.
package progress

import (
	"fmt"
	"io"

	"chainrpc/internal/domain/entity"
)

// Renderer writes probe progress to w, one line per terminal event, with the
// in-flight endpoint shown on the current line.
type Renderer struct {
	w io.Writer
}

// NewRenderer creates a renderer writing to w.
func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{w: w}
}

// Sink returns the ProgressSink to pass into CreateClient.
func (r *Renderer) Sink() entity.ProgressSink {
	return func(ev entity.ProgressEvent) {
		switch ev.Status {
		case entity.ProgressChecking:
			fmt.Fprintf(r.w, "\r\x1b[2K[%d/%d] checking %s", ev.Current, ev.Total, ev.URL)
		case entity.ProgressSuccess:
			fmt.Fprintf(r.w, "\r\x1b[2K[%d/%d] ok      %s\n", ev.Current, ev.Total, ev.URL)
		case entity.ProgressFailed:
			fmt.Fprintf(r.w, "\r\x1b[2K[%d/%d] dead    %s\n", ev.Current, ev.Total, ev.URL)
		}
	}
}
