package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tunegraph/tunegraph"
	"github.com/tunegraph/tunegraph/pkg/server/dto"
)

// defaultNeighborLimit is used when ?limit= is absent.
const defaultNeighborLimit = 20

// GraphHandler serves raw retrieval and entity lookups.
type GraphHandler struct {
	client *tunegraph.Client
}

// NewGraphHandler creates a new graph handler
func NewGraphHandler(client *tunegraph.Client) *GraphHandler {
	return &GraphHandler{client: client}
}

// Query handles POST /api/v1/graph/query
func (g *GraphHandler) Query(c *gin.Context) {
	var req dto.GraphQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "invalid request",
			Message: err.Error(),
			Code:    http.StatusBadRequest,
		})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "invalid request",
			Message: err.Error(),
			Code:    http.StatusBadRequest,
		})
		return
	}

	result := g.client.RetrieveContext(c.Request.Context(), req.Query, req.MaxHops)
	c.JSON(http.StatusOK, dto.GraphQueryResponse{
		Context:          result.ContextText,
		Entities:         result.Entities,
		Paths:            result.Paths,
		AllPathsCount:    result.AllPathsCount,
		RankedPathsCount: result.RankedPathsCount,
		Outcome:          result.Error,
	})
}

// Entity handles GET /api/v1/entity/:name
func (g *GraphHandler) Entity(c *gin.Context) {
	name := c.Param("name")

	info, err := g.client.GetEntityInfo(c.Request.Context(), name)
	if err != nil {
		if errors.Is(err, tunegraph.ErrEntityNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse{
				Error:   "entity not found",
				Message: name,
				Code:    http.StatusNotFound,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "failed to look up entity",
			Message: err.Error(),
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusOK, dto.EntityResponse{Entity: info})
}

// Connections handles GET /api/v1/entity/:name/connections
func (g *GraphHandler) Connections(c *gin.Context) {
	name := c.Param("name")
	limit := queryLimit(c)

	connections, err := g.client.FindEntityConnections(c.Request.Context(), name, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "failed to look up connections",
			Message: err.Error(),
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entity":      name,
		"connections": connections,
	})
}

// Similar handles GET /api/v1/entity/:name/similar
func (g *GraphHandler) Similar(c *gin.Context) {
	name := c.Param("name")
	limit := queryLimit(c)

	similar, err := g.client.SearchSimilarEntities(c.Request.Context(), name, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "failed to look up similar entities",
			Message: err.Error(),
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entity":  name,
		"similar": similar,
	})
}

func queryLimit(c *gin.Context) int {
	raw := c.DefaultQuery("limit", strconv.Itoa(defaultNeighborLimit))
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return defaultNeighborLimit
	}
	return limit
}
