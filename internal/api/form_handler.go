package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/manasakl/cowin-notify/internal/entities"
	"github.com/manasakl/cowin-notify/internal/presenter"
)

// FormHandler serves the input form and renders results in the browser
type FormHandler struct {
	checker   Checker
	presenter *presenter.HTMLPresenter
	logger    *zap.Logger
}

func NewFormHandler(checker Checker, logger *zap.Logger) *FormHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FormHandler{checker: checker, presenter: presenter.NewHTMLPresenter(), logger: logger}
}

// Index shows the empty form with default values
func (h *FormHandler) Index(c *gin.Context) {
	h.render(c, http.StatusOK, presenter.Page{Query: entities.DefaultQuery()})
}

// Check runs the pipeline for the submitted form
func (h *FormHandler) Check(c *gin.Context) {
	query, err := parseForm(c)
	if err != nil {
		h.render(c, http.StatusBadRequest, presenter.Page{Query: query, Error: err.Error()})
		return
	}

	inv := h.checker.NewInvocation(query, entities.SourceWeb)
	summary, err := h.checker.Run(c.Request.Context(), inv)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, entities.ErrInvalidQuery) {
			status = http.StatusBadRequest
		} else {
			h.logger.Error("Availability check failed", zap.String("run_id", inv.RunID), zap.Error(err))
		}
		h.render(c, status, presenter.Page{Query: query, Error: err.Error()})
		return
	}

	h.render(c, http.StatusOK, presenter.Page{Query: query, Summary: summary})
}

func parseForm(c *gin.Context) (entities.Query, error) {
	query := entities.DefaultQuery()

	if raw := strings.TrimSpace(c.PostForm("days")); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil {
			return query, errors.New("day count must be a number")
		}
		query.Days = days
	}
	if pincode, ok := c.GetPostForm("pincode"); ok {
		query.Pincode = strings.TrimSpace(pincode)
	}
	return query, nil
}

func (h *FormHandler) render(c *gin.Context, status int, page presenter.Page) {
	c.Status(status)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := h.presenter.Render(c.Writer, page); err != nil {
		h.logger.Error("Failed to render page", zap.Error(err))
	}
}
