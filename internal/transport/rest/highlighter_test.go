package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/zhuyin-highlighter/internal/annotate"
	"github.com/heartmarshall/zhuyin-highlighter/internal/domain"
	"github.com/heartmarshall/zhuyin-highlighter/internal/service/highlighter"
)

const testMaxBody = 1 << 10

func newTestRouter(t *testing.T, svc *highlighterServiceMock) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRouter(Routes{
		Highlighter: NewHighlighterHandler(svc, testMaxBody, logger),
		Health:      NewHealthHandler(&storePingerMock{}, loadedIndex(), "test"),
	})
}

func do(t *testing.T, h http.Handler, method, target, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func annotatedResult(content string) highlighter.Result {
	return highlighter.Result{
		Content:   content,
		Settings:  domain.DefaultDisplayConfig(),
		Stats:     annotate.Stats{Annotations: 2, Suppressed: 1},
		Processed: true,
	}
}

func TestAnnotateHTML_RawBody(t *testing.T) {
	t.Parallel()

	svc := &highlighterServiceMock{
		ProcessHTMLFunc: func(_ context.Context, content []byte) (highlighter.Result, error) {
			return annotatedResult("<p>out</p>"), nil
		},
	}

	rec := do(t, newTestRouter(t, svc), http.MethodPost, "/v1/annotate", "text/html", "<p>中文</p>")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "2", rec.Header().Get(HeaderAnnotations))
	assert.Equal(t, "1", rec.Header().Get(HeaderSuppressed))
	assert.Equal(t, "true", rec.Header().Get(HeaderProcessed))
	assert.Equal(t, "<p>out</p>", rec.Body.String())
	require.Len(t, svc.calls.ProcessHTML, 1)
	assert.Equal(t, "<p>中文</p>", string(svc.calls.ProcessHTML[0]))
}

func TestAnnotateHTML_JSONBody(t *testing.T) {
	t.Parallel()

	svc := &highlighterServiceMock{
		ProcessHTMLFunc: func(_ context.Context, content []byte) (highlighter.Result, error) {
			return annotatedResult("<b>" + string(content) + "</b>"), nil
		},
	}

	rec := do(t, newTestRouter(t, svc), http.MethodPost, "/v1/annotate",
		"application/json; charset=utf-8", `{"content":"中"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp annotateResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "<b>中</b>", resp.Content)
	assert.True(t, resp.Processed)
	assert.Equal(t, 2, resp.Annotations)
	assert.Equal(t, 1, resp.Suppressed)
	assert.Equal(t, domain.OrientationHorizontalAbove, resp.Settings.Orientation)
}

func TestAnnotateHTML_InvalidJSON(t *testing.T) {
	t.Parallel()

	svc := &highlighterServiceMock{}
	rec := do(t, newTestRouter(t, svc), http.MethodPost, "/v1/annotate", "application/json", `{"content":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, svc.calls.ProcessHTML)
}

func TestAnnotateHTML_BodyTooLarge(t *testing.T) {
	t.Parallel()

	svc := &highlighterServiceMock{}
	rec := do(t, newTestRouter(t, svc), http.MethodPost, "/v1/annotate", "text/html",
		strings.Repeat("中", testMaxBody))

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Empty(t, svc.calls.ProcessHTML)
}

func TestAnnotateXML_ValidationError(t *testing.T) {
	t.Parallel()

	svc := &highlighterServiceMock{
		ProcessXMLFunc: func(_ context.Context, _ []byte) (highlighter.Result, error) {
			return highlighter.Result{}, domain.NewValidationError("content", "malformed document")
		},
	}

	rec := do(t, newTestRouter(t, svc), http.MethodPost, "/v1/annotate/xml", "application/xml", "<p>")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "malformed document")
}

func TestAnnotateXML_InternalError(t *testing.T) {
	t.Parallel()

	svc := &highlighterServiceMock{
		ProcessXMLFunc: func(_ context.Context, _ []byte) (highlighter.Result, error) {
			return highlighter.Result{}, errors.New("boom")
		},
	}

	rec := do(t, newTestRouter(t, svc), http.MethodPost, "/v1/annotate/xml", "application/xml", "<p/>")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "boom")
}

func TestAnnotate_DisabledPassThrough(t *testing.T) {
	t.Parallel()

	svc := &highlighterServiceMock{
		ProcessHTMLFunc: func(_ context.Context, content []byte) (highlighter.Result, error) {
			return highlighter.Result{Content: string(content)}, nil
		},
	}

	rec := do(t, newTestRouter(t, svc), http.MethodPost, "/v1/annotate", "text/html", "<p>中</p>")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "false", rec.Header().Get(HeaderProcessed))
	assert.Equal(t, "<p>中</p>", rec.Body.String())
}

func TestGetSettings(t *testing.T) {
	t.Parallel()

	svc := &highlighterServiceMock{
		SettingsFunc: func() domain.DisplayConfig {
			return domain.DisplayConfig{Enabled: false, Orientation: domain.OrientationVerticalRight}
		},
	}

	rec := do(t, newTestRouter(t, svc), http.MethodGet, "/v1/settings", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"enabled":false,"orientation":"vertical-right"}`, rec.Body.String())
}

func TestUpdateSettings(t *testing.T) {
	t.Parallel()

	svc := &highlighterServiceMock{
		UpdateSettingsFunc: func(_ context.Context, input highlighter.UpdateSettingsInput) (domain.DisplayConfig, error) {
			return domain.DefaultDisplayConfig().WithOrientation(*input.Orientation), nil
		},
	}

	rec := do(t, newTestRouter(t, svc), http.MethodPut, "/v1/settings", "application/json",
		`{"orientation":"horizontal-below"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"enabled":true,"orientation":"horizontal-below"}`, rec.Body.String())
	require.Len(t, svc.calls.UpdateSettings, 1)
	assert.Nil(t, svc.calls.UpdateSettings[0].Enabled)
}

func TestUpdateSettings_Invalid(t *testing.T) {
	t.Parallel()

	svc := &highlighterServiceMock{
		UpdateSettingsFunc: func(_ context.Context, input highlighter.UpdateSettingsInput) (domain.DisplayConfig, error) {
			return domain.DisplayConfig{}, input.Validate()
		},
	}

	rec := do(t, newTestRouter(t, svc), http.MethodPut, "/v1/settings", "application/json",
		`{"orientation":"sideways"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestToggleHighlighter(t *testing.T) {
	t.Parallel()

	calls := 0
	svc := &highlighterServiceMock{
		ToggleEnabledFunc: func(_ context.Context) (domain.DisplayConfig, error) {
			calls++
			return domain.DefaultDisplayConfig().WithEnabled(false), nil
		},
	}

	rec := do(t, newTestRouter(t, svc), http.MethodPost, "/v1/commands/toggle-highlighter", "", "")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 1, calls)
}

func TestToggleHighlighter_StoreUnavailable(t *testing.T) {
	t.Parallel()

	svc := &highlighterServiceMock{
		ToggleEnabledFunc: func(_ context.Context) (domain.DisplayConfig, error) {
			return domain.DisplayConfig{}, domain.ErrUnavailable
		},
	}

	rec := do(t, newTestRouter(t, svc), http.MethodPost, "/v1/commands/toggle-highlighter", "", "")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestListLearned_EmptyIsArray(t *testing.T) {
	t.Parallel()

	svc := &highlighterServiceMock{
		LearnedCharactersFunc: func() []string { return nil },
	}

	rec := do(t, newTestRouter(t, svc), http.MethodGet, "/v1/learned", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"characters":[]}`, rec.Body.String())
}

func TestToggleLearned_PathValue(t *testing.T) {
	t.Parallel()

	svc := &highlighterServiceMock{
		ToggleLearnedFunc: func(_ context.Context, character string) (highlighter.CharacterInfo, error) {
			return highlighter.CharacterInfo{Character: character, Reading: "ㄓㄨㄥ", Learned: true}, nil
		},
	}

	rec := do(t, newTestRouter(t, svc), http.MethodPost, "/v1/learned/%E4%B8%AD/toggle", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"character":"中","reading":"ㄓㄨㄥ","learned":true}`, rec.Body.String())
	assert.Equal(t, []string{"中"}, svc.calls.ToggleLearned)
}

func TestGetReading_Invalid(t *testing.T) {
	t.Parallel()

	svc := &highlighterServiceMock{
		LookupFunc: func(character string) (highlighter.CharacterInfo, error) {
			return highlighter.CharacterInfo{}, domain.NewValidationError("character", "must be a single character")
		},
	}

	rec := do(t, newTestRouter(t, svc), http.MethodGet, "/v1/readings/ab", "", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStylesheet(t *testing.T) {
	t.Parallel()

	rec := do(t, newTestRouter(t, &highlighterServiceMock{}), http.MethodGet, "/v1/styles.css", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/css; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, annotate.Stylesheet(), rec.Body.String())
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	t.Parallel()

	rec := do(t, newTestRouter(t, &highlighterServiceMock{}), http.MethodGet, "/v1/annotate", "", "")

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRouter_AnnotateLimitAppliesOnlyToProcessing(t *testing.T) {
	t.Parallel()

	blocked := func(http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		})
	}
	svc := &highlighterServiceMock{
		SettingsFunc: domain.DefaultDisplayConfig,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := NewRouter(Routes{
		Highlighter:   NewHighlighterHandler(svc, testMaxBody, logger),
		Health:        NewHealthHandler(&storePingerMock{}, loadedIndex(), "test"),
		AnnotateLimit: blocked,
	})

	assert.Equal(t, http.StatusTooManyRequests, do(t, router, http.MethodPost, "/v1/annotate", "text/html", "x").Code)
	assert.Equal(t, http.StatusTooManyRequests, do(t, router, http.MethodPost, "/v1/annotate/xml", "application/xml", "<x/>").Code)
	assert.Equal(t, http.StatusOK, do(t, router, http.MethodGet, "/v1/settings", "", "").Code)
	assert.Equal(t, http.StatusOK, do(t, router, http.MethodGet, "/live", "", "").Code)
}
