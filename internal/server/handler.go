package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sant0-9/carousel/internal/apperr"
	"github.com/sant0-9/carousel/internal/metrics"
	"github.com/sant0-9/carousel/internal/pipeline"
	"github.com/sant0-9/carousel/internal/service"
	"github.com/sant0-9/carousel/internal/version"
	"github.com/sant0-9/carousel/internal/writer"
)

type errorBody struct {
	Code      apperr.Code `json:"code"`
	Message   string      `json:"message"`
	Detail    string      `json:"detail,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

type schemeResponse struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Lead        []string `json:"lead"`
	Step        string   `json:"step"`
	Closing     string   `json:"closing,omitempty"`
	Generic     string   `json:"generic"`
	Builtin     bool     `json:"builtin"`
}

type chunkResponse struct {
	Chunks   []string `json:"chunks"`
	Count    int      `json:"count"`
	MaxChars int      `json:"max_chars"`
}

type structureResponse struct {
	Slides []pipeline.StructuredSlide `json:"slides"`
	Scheme string                     `json:"scheme"`
	Budget int                        `json:"budget"`
}

// Handler serves the carousel API
type Handler struct {
	svc *service.Service
}

func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, healthResponse{Status: "ok", Version: version.Version})
}

func (h *Handler) Schemes(c *gin.Context) {
	all := h.svc.Schemes().GetAll()
	out := make([]schemeResponse, 0, len(all))
	for _, s := range all {
		out = append(out, schemeResponse{
			Name:        s.Name,
			Description: s.Description,
			Lead:        s.Lead,
			Step:        s.Step,
			Closing:     s.Closing,
			Generic:     s.Generic,
			Builtin:     s.Path == "",
		})
	}
	c.JSON(http.StatusOK, gin.H{"schemes": out})
}

func (h *Handler) Chunk(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}
	chunks, resolved, err := h.svc.Chunk(req)
	if err != nil {
		h.fail(c, err)
		return
	}
	if chunks == nil {
		chunks = []string{}
	}

	c.JSON(http.StatusOK, chunkResponse{
		Chunks:   chunks,
		Count:    len(chunks),
		MaxChars: resolved.Options.MaxChars,
	})
}

func (h *Handler) Structure(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}
	slides, resolved, err := h.svc.Structure(req)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, structureResponse{
		Slides: slides,
		Scheme: resolved.Scheme.Name,
		Budget: pipeline.StructuredBudget(resolved.Options.MaxChars),
	})
}

func (h *Handler) Slides(c *gin.Context) {
	deck, ok := h.build(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, deck)
}

func (h *Handler) Export(c *gin.Context) {
	format, err := writer.ParseFormat(c.DefaultQuery("format", string(writer.FormatMarkdown)))
	if err != nil {
		h.fail(c, err)
		return
	}

	deck, ok := h.build(c)
	if !ok {
		return
	}

	body, err := writer.NewWriter(format).Render(deck)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", writer.FileName(format)))
	c.Data(http.StatusOK, format.ContentType(), []byte(body))
}

func (h *Handler) build(c *gin.Context) (*writer.Deck, bool) {
	req, ok := h.bind(c)
	if !ok {
		return nil, false
	}

	deck, err := h.svc.Build(req)
	if err != nil {
		h.fail(c, err)
		return nil, false
	}

	oversized := 0
	if deck.Stats != nil {
		oversized = len(deck.Stats.OverBudget)
	}
	metrics.ObserveDeck(deck.Mode, len(deck.Slides), oversized)

	return deck, true
}

func (h *Handler) bind(c *gin.Context) (service.Request, bool) {
	var req service.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, apperr.Wrap(err, apperr.CodeInvalidParam, "invalid request body").WithDetail(err.Error()))
		return req, false
	}
	return req, true
}

func (h *Handler) fail(c *gin.Context, err error) {
	appErr := apperr.From(err)
	_ = c.Error(err)

	body := errorBody{
		Code:      appErr.Code,
		Message:   appErr.Message,
		Detail:    appErr.Detail,
		RequestID: c.GetString(requestIDKey),
	}
	// Internal details stay in the log
	if appErr.Code == apperr.CodeInternal {
		body.Detail = ""
	}

	c.AbortWithStatusJSON(appErr.HTTPStatus, body)
}
