package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/heartmarshall/zhuyin-highlighter/internal/annotate"
	"github.com/heartmarshall/zhuyin-highlighter/internal/domain"
	"github.com/heartmarshall/zhuyin-highlighter/internal/service/highlighter"
)

// highlighterService defines the minimal interface needed by HighlighterHandler.
type highlighterService interface {
	Settings() domain.DisplayConfig
	UpdateSettings(ctx context.Context, input highlighter.UpdateSettingsInput) (domain.DisplayConfig, error)
	ToggleEnabled(ctx context.Context) (domain.DisplayConfig, error)
	ToggleLearned(ctx context.Context, character string) (highlighter.CharacterInfo, error)
	LearnedCharacters() []string
	Lookup(character string) (highlighter.CharacterInfo, error)
	ProcessHTML(ctx context.Context, content []byte) (highlighter.Result, error)
	ProcessXML(ctx context.Context, content []byte) (highlighter.Result, error)
}

// Response headers carrying processing stats on raw-body responses.
const (
	HeaderAnnotations = "X-Zhuyin-Annotations"
	HeaderSuppressed  = "X-Zhuyin-Suppressed"
	HeaderProcessed   = "X-Zhuyin-Processed"
)

// HighlighterHandler serves the highlighter REST endpoints.
type HighlighterHandler struct {
	svc          highlighterService
	log          *slog.Logger
	maxBodyBytes int64
}

// NewHighlighterHandler creates a HighlighterHandler.
func NewHighlighterHandler(svc highlighterService, maxBodyBytes int64, logger *slog.Logger) *HighlighterHandler {
	return &HighlighterHandler{
		svc:          svc,
		log:          logger.With("handler", "highlighter"),
		maxBodyBytes: maxBodyBytes,
	}
}

type annotateRequest struct {
	Content string `json:"content"`
}

type annotateResponse struct {
	Content     string               `json:"content"`
	Processed   bool                 `json:"processed"`
	Settings    domain.DisplayConfig `json:"settings"`
	Annotations int                  `json:"annotations"`
	Suppressed  int                  `json:"suppressed"`
}

type learnedResponse struct {
	Characters []string `json:"characters"`
}

// AnnotateHTML handles POST /v1/annotate. The body is either raw HTML, or
// JSON {"content": "..."} when Content-Type is application/json; the
// response mirrors the request format.
func (h *HighlighterHandler) AnnotateHTML(w http.ResponseWriter, r *http.Request) {
	h.annotate(w, r, "text/html; charset=utf-8", h.svc.ProcessHTML)
}

// AnnotateXML handles POST /v1/annotate/xml.
func (h *HighlighterHandler) AnnotateXML(w http.ResponseWriter, r *http.Request) {
	h.annotate(w, r, "application/xml; charset=utf-8", h.svc.ProcessXML)
}

func (h *HighlighterHandler) annotate(
	w http.ResponseWriter,
	r *http.Request,
	rawType string,
	process func(context.Context, []byte) (highlighter.Result, error),
) {
	body, ok := h.readBody(w, r)
	if !ok {
		return
	}

	jsonMode := isJSON(r.Header.Get("Content-Type"))
	content := body
	if jsonMode {
		var req annotateRequest
		if err := json.Unmarshal(body, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		content = []byte(req.Content)
	}

	result, err := process(r.Context(), content)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	if jsonMode {
		writeJSON(w, http.StatusOK, toAnnotateResponse(result))
		return
	}

	w.Header().Set("Content-Type", rawType)
	setStatsHeaders(w.Header(), result)
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, result.Content) //nolint:errcheck
}

// GetSettings handles GET /v1/settings.
func (h *HighlighterHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Settings())
}

// UpdateSettings handles PUT /v1/settings with a partial update.
func (h *HighlighterHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	body, ok := h.readBody(w, r)
	if !ok {
		return
	}

	var input highlighter.UpdateSettingsInput
	if err := json.Unmarshal(body, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	settings, err := h.svc.UpdateSettings(r.Context(), input)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, settings)
}

// ToggleHighlighter handles POST /v1/commands/toggle-highlighter. It takes no
// parameters and answers 204 once the new state is persisted.
func (h *HighlighterHandler) ToggleHighlighter(w http.ResponseWriter, r *http.Request) {
	if _, err := h.svc.ToggleEnabled(r.Context()); err != nil {
		h.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListLearned handles GET /v1/learned.
func (h *HighlighterHandler) ListLearned(w http.ResponseWriter, r *http.Request) {
	chars := h.svc.LearnedCharacters()
	if chars == nil {
		chars = []string{}
	}
	writeJSON(w, http.StatusOK, learnedResponse{Characters: chars})
}

// ToggleLearned handles POST /v1/learned/{char}/toggle.
func (h *HighlighterHandler) ToggleLearned(w http.ResponseWriter, r *http.Request) {
	info, err := h.svc.ToggleLearned(r.Context(), r.PathValue("char"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// GetReading handles GET /v1/readings/{char}.
func (h *HighlighterHandler) GetReading(w http.ResponseWriter, r *http.Request) {
	info, err := h.svc.Lookup(r.PathValue("char"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// Stylesheet handles GET /v1/styles.css.
func (h *HighlighterHandler) Stylesheet(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, annotate.Stylesheet()) //nolint:errcheck
}

func (h *HighlighterHandler) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return nil, false
		}
		writeError(w, http.StatusBadRequest, "read request body")
		return nil, false
	}
	return body, true
}

func (h *HighlighterHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrUnavailable):
		writeError(w, http.StatusServiceUnavailable, "service unavailable")
	default:
		h.log.ErrorContext(r.Context(), "internal error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func toAnnotateResponse(res highlighter.Result) annotateResponse {
	return annotateResponse{
		Content:     res.Content,
		Processed:   res.Processed,
		Settings:    res.Settings,
		Annotations: res.Stats.Annotations,
		Suppressed:  res.Stats.Suppressed,
	}
}

func setStatsHeaders(h http.Header, res highlighter.Result) {
	h.Set(HeaderProcessed, strconv.FormatBool(res.Processed))
	h.Set(HeaderAnnotations, strconv.Itoa(res.Stats.Annotations))
	h.Set(HeaderSuppressed, strconv.Itoa(res.Stats.Suppressed))
}

func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	return err == nil && mt == "application/json"
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
