package handler

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/sibusisodev/statement-processor-service/internal/model"
	"github.com/sibusisodev/statement-processor-service/internal/repository"
	"github.com/sibusisodev/statement-processor-service/internal/service"
	"github.com/sibusisodev/statement-processor-service/internal/whisperer"
)

// StatementHandler handles HTTP requests for statement processing
type StatementHandler struct {
	processor   service.StatementProcessor
	repository  repository.StatementRepository
	maxFileSize int64
	log         zerolog.Logger
}

// NewStatementHandler creates a new statement processing handler
func NewStatementHandler(processor service.StatementProcessor, repo repository.StatementRepository, log zerolog.Logger) *StatementHandler {
	return &StatementHandler{
		processor:   processor,
		repository:  repo,
		maxFileSize: 20 * 1024 * 1024, // 20MB default
		log:         log,
	}
}

// RegisterRoutes registers the handler's routes with the given router
func (h *StatementHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/v1/statements/extract", h.ExtractStatement)
	router.GET("/v1/statements/:id", h.GetStatement)
	router.GET("/v1/statements", h.ListStatements)
}

// ExtractStatement handles a request to process a single bank statement PDF
// @Summary Extract a bank statement
// @Description Upload a bank statement PDF and extract its transactions and metadata
// @Tags statements
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Bank statement PDF"
// @Param digital_text formData string false "Text layer extracted upstream, if any"
// @Param page_count formData int false "Page count matching digital_text"
// @Success 200 {object} model.StatementSuccessResponse "Successfully extracted statement"
// @Failure 400 {object} model.ErrorResponse "Bad request or configuration error"
// @Failure 422 {object} model.ErrorResponse "Statement could not be parsed"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Router /v1/statements/extract [post]
func (h *StatementHandler) ExtractStatement(c *gin.Context) {
	// Parse multipart form data
	if err := c.Request.ParseMultipartForm(h.maxFileSize); err != nil {
		respondBadRequest(c, "Failed to parse form data: "+err.Error())
		return
	}

	// Get the file from the form
	file, header, err := getFormFile(c, "file")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	defer file.Close()

	// Check file size
	if header.Size > h.maxFileSize {
		respondBadRequest(c, "File size exceeds limit")
		return
	}

	// Read the file data
	fileData := make([]byte, header.Size)
	if _, err := file.Read(fileData); err != nil {
		respondInternalServerError(c, "Failed to read file data: "+err.Error())
		return
	}

	pageCount := 0
	if pageCountStr := c.PostForm("page_count"); pageCountStr != "" {
		pageCount, err = strconv.Atoi(pageCountStr)
		if err != nil || pageCount < 0 {
			respondBadRequest(c, "invalid page_count: must be a non-negative integer")
			return
		}
	}

	// Create request model
	request := &model.StatementProcessingRequest{
		File:        fileData,
		DigitalText: c.PostForm("digital_text"),
		PageCount:   pageCount,
	}

	// Process the statement
	h.log.Info().
		Str("filename", header.Filename).
		Int64("size", header.Size).
		Msg("processing statement")
	statement, err := h.processor.ProcessStatement(c.Request.Context(), request)
	if err != nil {
		h.respondProcessingError(c, err)
		return
	}

	// Convert domain model to DTO
	statementDTO := &model.StatementDTO{}
	statementDTO.FromDomain(statement)

	// Return successful response
	respondOK(c, model.StatementSuccessResponse{
		Success:   true,
		Statement: statementDTO,
	})
}

// GetStatement handles a request to fetch a previously processed statement
// @Summary Get a statement
// @Description Retrieve a processed statement and its transactions by ID
// @Tags statements
// @Produce json
// @Param id path string true "Statement ID"
// @Success 200 {object} model.StatementSuccessResponse "Statement found"
// @Failure 404 {object} model.ErrorResponse "Statement not found"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Router /v1/statements/{id} [get]
func (h *StatementHandler) GetStatement(c *gin.Context) {
	statementID, err := getPathParam(c, "id")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	statement, err := h.repository.GetStatementByID(c.Request.Context(), statementID)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			respondNotFound(c, fmt.Sprintf("statement not found: %s", statementID))
			return
		}
		respondInternalServerError(c, "Failed to get statement: "+err.Error())
		return
	}

	statementDTO := &model.StatementDTO{}
	statementDTO.FromDomain(statement)

	respondOK(c, model.StatementSuccessResponse{
		Success:   true,
		Statement: statementDTO,
	})
}

// ListStatements handles a request to list processed statements
// @Summary List statements
// @Description List processed statements, newest first
// @Tags statements
// @Produce json
// @Param offset query int false "Pagination offset"
// @Param limit query int false "Page size (max 100)"
// @Success 200 {object} map[string]interface{} "Statements"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Router /v1/statements [get]
func (h *StatementHandler) ListStatements(c *gin.Context) {
	offset, err := getQueryInt(c, "offset", 0)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	limit, err := getQueryInt(c, "limit", 10)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	statements, err := h.repository.ListStatements(c.Request.Context(), offset, limit)
	if err != nil {
		respondInternalServerError(c, "Failed to list statements: "+err.Error())
		return
	}

	dtos := make([]model.StatementDTO, len(statements))
	for i, statement := range statements {
		dtos[i].FromDomain(statement)
	}

	respondOK(c, gin.H{
		"success":    true,
		"statements": dtos,
	})
}

// respondProcessingError maps processing failures to HTTP statuses: caller
// mistakes and missing configuration are 4xx, parse failures are 422,
// everything else is 500
func (h *StatementHandler) respondProcessingError(c *gin.Context, err error) {
	if errors.Is(err, whisperer.ErrNotConfigured) {
		respondBadRequest(c, fmt.Sprintf("Configuration error: %v", err))
		return
	}

	var processingErr *service.ProcessingError
	if errors.As(err, &processingErr) && processingErr.Op == "parse_statement" {
		respondUnprocessableEntity(c, fmt.Sprintf("Statement could not be parsed: %v", processingErr.Err))
		return
	}

	respondInternalServerError(c, fmt.Sprintf("Processing failed: %v", err))
}
