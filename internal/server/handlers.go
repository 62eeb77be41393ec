package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sourceplane/imagewizard/internal/history"
	"github.com/sourceplane/imagewizard/internal/loader"
	"github.com/sourceplane/imagewizard/internal/logging"
	"github.com/sourceplane/imagewizard/internal/model"
	"github.com/sourceplane/imagewizard/internal/normalize"
	"github.com/sourceplane/imagewizard/internal/review"
	"github.com/sourceplane/imagewizard/internal/steps"
	"github.com/sourceplane/imagewizard/internal/validators"
	"go.uber.org/zap"
)

const defaultListLimit = 50

// Handlers contains all HTTP handlers
type Handlers struct {
	normalizer  *normalize.Normalizer
	store       HistoryStore
	maxFileSize int64
	logger      *logging.Logger
}

// NewHandlers creates a new handler set
func NewHandlers(normalizer *normalize.Normalizer, store HistoryStore, maxFileSize int64, logger *logging.Logger) *Handlers {
	return &Handlers{
		normalizer:  normalizer,
		store:       store,
		maxFileSize: maxFileSize,
		logger:      logger,
	}
}

type importRequest struct {
	Filename string `json:"filename" binding:"required"`
	Content  string `json:"content"`
}

type importResponse struct {
	Blueprint *model.WizardState `json:"blueprint"`
	IsOnPrem  bool               `json:"is_on_prem"`
	RecordID  string             `json:"record_id,omitempty"`
}

type wizardRequest struct {
	State   *model.WizardState `json:"state"`
	Context review.Context     `json:"context"`
}

type stepsRequest struct {
	Steps []steps.Step       `json:"steps"`
	State *model.WizardState `json:"state"`
}

// Health handles health check
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"history": h.store != nil,
	})
}

// ImportBlueprint normalizes an uploaded blueprint, sent either as a
// multipart "file" field or as JSON {filename, content}
func (h *Handlers) ImportBlueprint(c *gin.Context) {
	raw, err := h.readUpload(c)
	if err != nil {
		if errors.Is(err, model.ErrRejectedFile) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"reason": model.ReasonRejectedFile, "error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	outcome, ok := h.normalizer.Import(raw.Filename, raw.Content)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "filename and content are required"})
		return
	}

	recordID := h.record(c, raw.Filename, outcome)

	if !outcome.Succeeded() {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"reason":    outcome.Reason,
			"error":     outcome.Message,
			"record_id": recordID,
		})
		return
	}

	c.JSON(http.StatusOK, importResponse{
		Blueprint: outcome.State,
		IsOnPrem:  outcome.IsOnPrem,
		RecordID:  recordID,
	})
}

func (h *Handlers) readUpload(c *gin.Context) (*model.RawImportFile, error) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		header, err := c.FormFile("file")
		if err != nil {
			return nil, err
		}
		f, err := header.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return loader.ReadImportFile(f, header.Filename, h.maxFileSize)
	}

	var req importRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, err
	}
	return loader.ReadImportFile(strings.NewReader(req.Content), req.Filename, h.maxFileSize)
}

// record stores the attempt when history is enabled. Failures are logged
// and do not fail the request.
func (h *Handlers) record(c *gin.Context, filename string, outcome *model.ImportOutcome) string {
	if h.store == nil {
		return ""
	}
	rec, err := history.NewRecord(filename, normalize.DetectFormat(filename), outcome)
	if err == nil {
		err = h.store.Add(c.Request.Context(), rec)
	}
	if err != nil {
		h.logger.Warn("Failed to record import", zap.String("filename", filename), zap.Error(err))
		return ""
	}
	return rec.ID
}

// Steps computes step navigation from an explicit step list or a wizard state
func (h *Handlers) Steps(c *gin.Context) {
	var req stepsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	list := req.Steps
	if len(list) == 0 {
		if req.State == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "steps or state is required"})
			return
		}
		list = steps.WizardSteps(req.State.FileSystemStatus())
	}

	result := steps.Compute(list)
	resp := gin.H{"steps": list, "validation": result}
	if id, ok := steps.FirstBlocked(list, result); ok {
		resp["first_blocked"] = id
	}
	c.JSON(http.StatusOK, resp)
}

// Review builds the review sections for a wizard state
func (h *Handlers) Review(c *gin.Context) {
	var req wizardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.State == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "state is required"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sections": review.Build(req.State, req.Context)})
}

// Validate checks every field of a wizard state
func (h *Handlers) Validate(c *gin.Context) {
	var req wizardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.State == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "state is required"})
		return
	}

	errs := validators.ValidateState(req.State)
	if errs == nil {
		errs = []validators.FieldError{}
	}
	c.JSON(http.StatusOK, gin.H{"valid": len(errs) == 0, "errors": errs})
}

// ListImports lists recent import attempts
func (h *Handlers) ListImports(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "import history is disabled"})
		return
	}

	limit := defaultListLimit
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	records, err := h.store.List(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to list imports", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"imports": records})
}

// GetImport returns one import attempt
func (h *Handlers) GetImport(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "import history is disabled"})
		return
	}

	rec, err := h.store.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, history.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rec)
}
