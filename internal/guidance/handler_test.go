package guidance

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/taiwoajasa245/quran-sukoon-api/pkg/errorsx"
	"github.com/taiwoajasa245/quran-sukoon-api/pkg/logging"
)

func routerFor(svc GuidanceService) http.Handler {
	h := NewGuidanceHandler(svc)
	r := chi.NewRouter()
	r.Get("/guidance/emotions", h.EmotionsHandler)
	r.Post("/guidance", h.GetGuidanceHandler)
	r.Post("/guidance/reflection", h.ReflectionHandler)
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v (%s)", err, rec.Body.String())
	}
	return rec, out
}

func TestEmotionsHandler(t *testing.T) {
	rec, out := do(t, routerFor(NewGuidanceService(&fakeGenerator{}, nil, logging.Discard())), http.MethodGet, "/guidance/emotions", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	data, _ := out["data"].([]any)
	if len(data) != len(Emotions) {
		t.Fatalf("expected %d emotions, got %d", len(Emotions), len(data))
	}
}

func TestGetGuidanceHandlerStatuses(t *testing.T) {
	tests := []struct {
		name    string
		gen     *fakeGenerator
		body    string
		status  int
		message string
	}{
		{
			name:   "ok",
			gen:    &fakeGenerator{result: &Result{AyahArabic: "A", AyahHindi: "B", Reflection: "C", Reference: "R"}},
			body:   `{"emotion":"Hope & Motivation"}`,
			status: http.StatusOK,
		},
		{
			name:    "missing credential",
			gen:     &fakeGenerator{err: errorsx.Wrap(ErrConfig, errorsx.ReasonConfig)},
			body:    `{"emotion":"Hope & Motivation"}`,
			status:  http.StatusServiceUnavailable,
			message: MessageConfig,
		},
		{
			name:    "service failure",
			gen:     &fakeGenerator{err: errorsx.Wrap(ErrService, errorsx.ReasonService)},
			body:    `{"emotion":"Hope & Motivation"}`,
			status:  http.StatusBadGateway,
			message: MessageService,
		},
		{
			name:    "unknown emotion",
			gen:     &fakeGenerator{},
			body:    `{"emotion":"Boredom"}`,
			status:  http.StatusBadRequest,
			message: "Unknown emotion",
		},
		{
			name:    "message carried by the error",
			gen:     &fakeGenerator{err: errorsx.WrapMessage(ErrService, errorsx.ReasonService, "model overloaded")},
			body:    `{"emotion":"Hope & Motivation"}`,
			status:  http.StatusBadGateway,
			message: "model overloaded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewGuidanceService(tt.gen, nil, logging.Discard())
			rec, out := do(t, routerFor(svc), http.MethodPost, "/guidance", tt.body)
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d (%v)", tt.status, rec.Code, out)
			}
			if tt.message != "" && out["message"] != tt.message {
				t.Fatalf("expected message %q, got %v", tt.message, out["message"])
			}
		})
	}
}

func TestReflectionHandler(t *testing.T) {
	svc := NewGuidanceService(&fakeGenerator{reflection: ReflectionApology}, nil, logging.Discard())
	rec, out := do(t, routerFor(svc), http.MethodPost, "/guidance/reflection",
		`{"arabic":"A","translation":"B","chapter_name":"Al-Fatiha","verse_number":1}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("reflection should never fail, got %d", rec.Code)
	}
	data, _ := out["data"].(map[string]any)
	if data["reflection"] != ReflectionApology {
		t.Fatalf("unexpected reflection %v", data["reflection"])
	}
}
