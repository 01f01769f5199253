package chainsource

import (
	"context"
	"fmt"
	"strings"
	"time"

	"chainrpc/internal/domain/entity"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DefaultChainListURL is the public chainlist registry.
const DefaultChainListURL = "https://chainid.network/chains.json"

// ChainListClient fetches network descriptors from the chainlist registry.
type ChainListClient struct {
	client  *fasthttp.Client
	url     string
	timeout time.Duration
	logger  *zap.Logger
}

// NewChainListClient creates a new chainlist client. An empty url selects
// DefaultChainListURL.
func NewChainListClient(url string, timeout time.Duration, logger *zap.Logger) *ChainListClient {
	if url == "" {
		url = DefaultChainListURL
	}
	return &ChainListClient{
		client:  &fasthttp.Client{},
		url:     url,
		timeout: timeout,
		logger:  logger.Named("ChainListClient"),
	}
}

// FetchChains downloads the full chain list and maps it to domain entities.
// Endpoint URLs are filtered to plain https endpoints; templated URLs that
// require an API key (containing "${") are dropped.
func (c *ChainListClient) FetchChains(ctx context.Context) ([]entity.Chain, error) {
	c.logger.Debug("Fetching chain list", zap.String("url", c.url))

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(c.url)
	req.Header.SetMethod(fasthttp.MethodGet)

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	deadline, ok := ctx.Deadline()
	if ok {
		if err := c.client.DoDeadline(req, resp, deadline); err != nil {
			c.logger.Error("Chain list request failed", zap.String("url", c.url), zap.Error(err))
			return nil, fmt.Errorf("%w: request to %s failed: %v", entity.ErrSourceUnavailable, c.url, err)
		}
	} else {
		if err := c.client.DoTimeout(req, resp, c.timeout); err != nil {
			c.logger.Error("Chain list request failed", zap.String("url", c.url), zap.Error(err))
			return nil, fmt.Errorf("%w: request to %s failed: %v", entity.ErrSourceUnavailable, c.url, err)
		}
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		c.logger.Error("Chain list request returned non-OK status",
			zap.String("url", c.url),
			zap.Int("statusCode", resp.StatusCode()))
		return nil, fmt.Errorf("%w: %s returned status %d", entity.ErrSourceUnavailable, c.url, resp.StatusCode())
	}

	var raw []chainRaw
	if err := json.Unmarshal(resp.Body(), &raw); err != nil {
		c.logger.Error("Failed to unmarshal chain list", zap.String("url", c.url), zap.Error(err))
		return nil, fmt.Errorf("%w: malformed chain list from %s: %v", entity.ErrSourceUnavailable, c.url, err)
	}

	chains := make([]entity.Chain, 0, len(raw))
	for _, rc := range raw {
		chains = append(chains, entity.Chain{
			ChainID:   rc.ChainID,
			Name:      rc.Name,
			ShortName: rc.ShortName,
			Currency: entity.Currency{
				Name:     rc.Currency.Name,
				Symbol:   rc.Currency.Symbol,
				Decimals: rc.Currency.Decimals,
			},
			RPC: FilterRPCURLs(rc.RPC),
		})
	}

	c.logger.Info("Chain list fetched", zap.Int("chainCount", len(chains)))
	return chains, nil
}

// FilterRPCURLs keeps only https endpoints that can be dialed as-is.
func FilterRPCURLs(urls []string) []string {
	filtered := make([]string, 0, len(urls))
	for _, u := range urls {
		if !strings.HasPrefix(u, "https://") {
			continue
		}
		if strings.Contains(u, "${") {
			continue
		}
		filtered = append(filtered, u)
	}
	return filtered
}
