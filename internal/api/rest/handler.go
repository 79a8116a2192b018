package rest

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/feral-file/tg-mention-indexer/internal/api/shared/constants"
	"github.com/feral-file/tg-mention-indexer/internal/api/shared/dto"
	"github.com/feral-file/tg-mention-indexer/internal/api/shared/executor"
)

// Handler defines the interface for REST API handlers
type Handler interface {
	// ListTokens lists tokens
	// GET /api/v1/tokens?chain=<chain1>,<chain2>&sort_by=<column>&order=<asc|desc>&limit=<limit>&offset=<offset>
	ListTokens(c *gin.Context)

	// GetToken retrieves a single token by chain and contract
	// GET /api/v1/tokens/:chain/:contract
	GetToken(c *gin.Context)

	// GetTokenMentions retrieves a token's mention timeline, newest first
	// GET /api/v1/tokens/:chain/:contract/mentions?limit=<limit>&offset=<offset>
	GetTokenMentions(c *gin.Context)

	// GetTokenHistory retrieves a token's snapshots, oldest first
	// GET /api/v1/tokens/:chain/:contract/history?from=<YYYY-MM-DD>&to=<YYYY-MM-DD>&limit=<limit>
	GetTokenHistory(c *gin.Context)

	// ListChannels lists the channel directory
	// GET /api/v1/channels?active_only=<bool>&limit=<limit>&offset=<offset>
	ListChannels(c *gin.Context)

	// TriggerTokenIndexing gets or creates tokens and refreshes them (requires authentication)
	// POST /api/v1/tokens/index
	TriggerTokenIndexing(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	executor executor.Executor
}

// NewHandler creates a new REST API handler using the shared executor
func NewHandler(exec executor.Executor) Handler {
	return &handler{executor: exec}
}

func (h *handler) ListTokens(c *gin.Context) {
	queryParams, err := ParseListTokensQuery(c)
	if err != nil {
		respondValidationError(c, err)
		return
	}

	response, err := h.executor.GetTokens(
		c.Request.Context(),
		queryParams.ParsedChains,
		queryParams.SortBy,
		queryParams.Order,
		queryParams.Limit,
		queryParams.Offset,
	)
	if err != nil {
		respondInternalError(c, err, "Failed to list tokens")
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *handler) GetToken(c *gin.Context) {
	chain, contract, err := ParseTokenPath(c)
	if err != nil {
		respondBadRequest(c, "Invalid token", err.Error())
		return
	}

	tokenDTO, err := h.executor.GetToken(c.Request.Context(), chain, contract)
	if err != nil {
		respondInternalError(c, err, "Failed to get token")
		return
	}

	if tokenDTO == nil {
		respondNotFound(c, "Token not found")
		return
	}

	c.JSON(http.StatusOK, tokenDTO)
}

func (h *handler) GetTokenMentions(c *gin.Context) {
	chain, contract, err := ParseTokenPath(c)
	if err != nil {
		respondBadRequest(c, "Invalid token", err.Error())
		return
	}

	page, err := ParsePageQuery(c, constants.DEFAULT_MENTIONS_LIMIT)
	if err != nil {
		respondValidationError(c, err)
		return
	}

	response, err := h.executor.GetTokenMentions(c.Request.Context(), chain, contract, page.Limit, page.Offset)
	if err != nil {
		respondInternalError(c, err, "Failed to get mentions")
		return
	}

	if response == nil {
		respondNotFound(c, "Token not found")
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *handler) GetTokenHistory(c *gin.Context) {
	chain, contract, err := ParseTokenPath(c)
	if err != nil {
		respondBadRequest(c, "Invalid token", err.Error())
		return
	}

	queryParams, err := ParseTokenHistoryQuery(c)
	if err != nil {
		respondValidationError(c, err)
		return
	}

	response, err := h.executor.GetTokenHistory(c.Request.Context(), chain, contract, queryParams.FromTime, queryParams.ToTime, queryParams.Limit)
	if err != nil {
		respondInternalError(c, err, "Failed to get token history")
		return
	}

	if response == nil {
		respondNotFound(c, "Token not found")
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *handler) ListChannels(c *gin.Context) {
	queryParams, err := ParseListChannelsQuery(c)
	if err != nil {
		respondValidationError(c, err)
		return
	}

	response, err := h.executor.GetChannels(c.Request.Context(), queryParams.ActiveOnly, queryParams.Limit, queryParams.Offset)
	if err != nil {
		respondInternalError(c, err, "Failed to list channels")
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *handler) TriggerTokenIndexing(c *gin.Context) {
	var req dto.TriggerTokenIndexingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Errorf("invalid request body: %w", err))
		return
	}

	if err := req.Validate(); err != nil {
		respondValidationError(c, err)
		return
	}

	response, err := h.executor.TriggerTokenIndexing(c.Request.Context(), req.Tokens)
	if err != nil {
		respondInternalError(c, err, "Failed to index tokens")
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponse{
		Status:  "ok",
		Service: "tg-mention-indexer-api",
	})
}
