// Package dto defines the request and response payloads of the HTTP API.
package dto

import (
	"errors"
	"strings"

	"github.com/tunegraph/tunegraph/pkg/types"
)

// MaxQuestionLength bounds user-supplied question text.
const MaxQuestionLength = 2000

// ErrQuestionTooLong is returned when a question exceeds MaxQuestionLength.
var ErrQuestionTooLong = errors.New("question exceeds maximum length")

// ChatRequest asks the knowledge graph a natural-language question.
type ChatRequest struct {
	Question string `json:"question" binding:"required"`
}

// Validate performs validation on ChatRequest
func (r *ChatRequest) Validate() error {
	if strings.TrimSpace(r.Question) == "" {
		return errors.New("question cannot be empty")
	}
	if len(r.Question) > MaxQuestionLength {
		return ErrQuestionTooLong
	}
	return nil
}

// ChatResponse carries the generated answer plus the retrieval evidence.
type ChatResponse struct {
	Answer    string   `json:"answer"`
	Context   string   `json:"context"`
	Entities  []string `json:"entities"`
	PathCount int      `json:"path_count"`
}

// GraphQueryRequest runs retrieval only, without answer generation.
// MaxHops optionally bounds the path search for this request; zero or
// less uses the server's configured default.
type GraphQueryRequest struct {
	Query   string `json:"query" binding:"required"`
	MaxHops int    `json:"max_hops,omitempty"`
}

// Validate performs validation on GraphQueryRequest
func (r *GraphQueryRequest) Validate() error {
	if strings.TrimSpace(r.Query) == "" {
		return errors.New("query cannot be empty")
	}
	if len(r.Query) > MaxQuestionLength {
		return ErrQuestionTooLong
	}
	return nil
}

// GraphQueryResponse is the raw retrieval payload.
type GraphQueryResponse struct {
	Context          string             `json:"context"`
	Entities         []string           `json:"entities"`
	Paths            []types.RankedPath `json:"paths"`
	AllPathsCount    int                `json:"all_paths_count"`
	RankedPathsCount int                `json:"ranked_paths_count"`
	Outcome          string             `json:"outcome,omitempty"`
}

// EntityResponse is the detail record for one entity.
type EntityResponse struct {
	Entity      *types.EntityInfo  `json:"entity"`
	Connections []types.Connection `json:"connections,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}
