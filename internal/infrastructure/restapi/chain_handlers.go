package restapi

import (
	"errors"
	"net/http"
	"sort"
	"strconv"

	"chainrpc/internal/app/service"
	"chainrpc/internal/domain/entity"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ChainHandler serves catalog and validation endpoints.
type ChainHandler struct {
	svc    *service.Service
	logger *zap.Logger
}

// NewChainHandler creates a handler backed by the fallback service.
func NewChainHandler(svc *service.Service, logger *zap.Logger) *ChainHandler {
	return &ChainHandler{
		svc:    svc,
		logger: logger.Named("ChainHandler"),
	}
}

// ListChainsHandler returns every catalog entry, sorted by chain ID.
func (h *ChainHandler) ListChainsHandler(c *gin.Context) {
	entries, err := h.svc.Chains()
	if err != nil {
		h.logger.Error("Failed to list chains", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load catalog"})
		return
	}

	chains := make([]entity.Chain, 0, len(entries))
	for _, chain := range entries {
		chains = append(chains, chain)
	}
	sort.Slice(chains, func(i, j int) bool { return chains[i].ChainID < chains[j].ChainID })

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"chains": chains}})
}

// GetChainHandler returns one catalog entry.
func (h *ChainHandler) GetChainHandler(c *gin.Context) {
	chainID, ok := h.chainIDParam(c)
	if !ok {
		return
	}

	entries, err := h.svc.Chains()
	if err != nil {
		h.logger.Error("Failed to load catalog", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load catalog"})
		return
	}
	chain, found := entries[chainID]
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown chain id"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"chain": chain}})
}

// ValidateChainHandler re-runs the liveness scan for one chain and returns
// the surviving endpoint URLs.
func (h *ChainHandler) ValidateChainHandler(c *gin.Context) {
	chainID, ok := h.chainIDParam(c)
	if !ok {
		return
	}

	workingURLs, err := h.svc.ValidateChain(c.Request.Context(), chainID, nil)
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrUnknownNetwork):
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown chain id"})
		case errors.Is(err, entity.ErrNoWorkingEndpoints):
			c.JSON(http.StatusBadGateway, gin.H{"error": "no working rpc endpoints"})
		default:
			h.logger.Error("Validation failed",
				zap.Int64("chainID", chainID),
				zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "validation failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"workingRPCs": workingURLs}})
}

func (h *ChainHandler) chainIDParam(c *gin.Context) (int64, bool) {
	chainID, err := strconv.ParseInt(c.Param("chainID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "chain id must be an integer"})
		return 0, false
	}
	return chainID, true
}
