package entity

import "time"

// Catalog is the full chainID → Chain mapping persisted as a single document.
// Date is the fetch time of the whole catalog, not of individual entries.
type Catalog struct {
	Entries map[int64]Chain `json:"entries"`
	Date    time.Time       `json:"date"`
}

// Stale reports whether the catalog is older than maxAge.
func (c *Catalog) Stale(maxAge time.Duration, now time.Time) bool {
	return now.Sub(c.Date) > maxAge
}
