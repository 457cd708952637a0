package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/SscSPs/statement_ledger_app/internal/apperrors"
	portssvc "github.com/SscSPs/statement_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/statement_ledger_app/internal/dto"
	"github.com/SscSPs/statement_ledger_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// maxUploadBytes caps statement uploads. Bank CSV exports are small; anything
// bigger is not a statement.
const maxUploadBytes = 10 << 20

// importsHandler handles statement uploads and import history.
type importsHandler struct {
	ingestionService portssvc.IngestionSvcFacade
}

func newImportsHandler(is portssvc.IngestionSvcFacade) *importsHandler {
	return &importsHandler{ingestionService: is}
}

// registerImportRoutes registers statement upload and import history routes.
// uploadLimiter guards the upload endpoint specifically; parsing is the most
// expensive request this service takes.
func registerImportRoutes(rg *gin.RouterGroup, ingestionService portssvc.IngestionSvcFacade, uploadLimiter gin.HandlerFunc) {
	h := newImportsHandler(ingestionService)

	imports := rg.Group("/imports")
	{
		imports.POST("", uploadLimiter, h.uploadStatement)
		imports.GET("", h.listImports)
		imports.GET("/:id", h.getImportByID)
	}
}

func (h *importsHandler) uploadStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		logger.Warn("Upload without file field", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing 'file' form field"})
		return
	}
	if fileHeader.Size > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File too large"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error("Failed to open uploaded file", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read upload"})
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		logger.Error("Failed to read uploaded file", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read upload"})
		return
	}

	logger.Info("Received statement upload",
		slog.String("filename", fileHeader.Filename), slog.Int("size_bytes", len(content)))

	result, err := h.ingestionService.ProcessStatement(c.Request.Context(), userID, fileHeader.Filename, content)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnrecognizedFormat) || errors.Is(err, apperrors.ErrEmptyStatement) {
			logger.Warn("Rejected statement upload", slog.String("error", err.Error()))
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to process statement", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process statement"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToImportResponse(result.Import))
}

func (h *importsHandler) listImports(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	imports, err := h.ingestionService.ListImports(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Failed to list imports", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list imports"})
		return
	}

	c.JSON(http.StatusOK, dto.ToImportResponses(imports))
}

func (h *importsHandler) getImportByID(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	importID := c.Param("id")
	imp, err := h.ingestionService.GetImportByID(c.Request.Context(), userID, importID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Import not found"})
		} else {
			logger.Error("Failed to get import", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve import"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToImportResponse(imp))
}
