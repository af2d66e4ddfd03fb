package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ingechat/internal/agent"
	"ingechat/internal/agent/intent"
	"ingechat/internal/knowledge"
	"ingechat/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeChat struct {
	reply      agent.Reply
	block      bool
	messages   []string
	restartErr error
	restarts   int
}

func (f *fakeChat) ResolveAsync(ctx context.Context, message string) <-chan agent.Reply {
	f.messages = append(f.messages, message)
	out := make(chan agent.Reply, 1)
	if !f.block {
		out <- f.reply
	}
	return out
}

func (f *fakeChat) StartNewChatSession(context.Context) error {
	f.restarts++
	return f.restartErr
}

func testCatalog() *knowledge.Store {
	return knowledge.NewStore(model.Dataset{
		Careers: []model.CareerRecord{
			{
				Key:                 "sistemas",
				Description:         "Software.",
				Duration:            "5 años",
				ProfessionalOutlets: []string{"Desarrollador"},
				StudyPlan: model.StudyPlan{
					{Label: "1", Kind: model.SemesterList, Courses: []model.CourseEntry{model.NewPlainCourse("Cálculo I")}},
				},
			},
			{Key: "mecanica", Name: "Ingeniería Mecánica"},
		},
		Facts: map[string]string{"mision": "Formar."},
	})
}

func newTestRouter(chat ChatService, catalog Catalog, timeout time.Duration) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	New(chat, catalog, timeout, zap.NewNop()).Register(r)
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandleChat(t *testing.T) {
	chat := &fakeChat{reply: agent.Reply{
		Text:        "Diseña sistemas.",
		Source:      agent.SourceCareer,
		Intent:      intent.Profile,
		Career:      "sistemas",
		Suggestions: []string{"Pensum de Sistemas"},
	}}
	r := newTestRouter(chat, testCatalog(), time.Second)

	w := do(r, http.MethodPost, "/api/chat", `{"message": "  perfil de sistemas "}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp ChatResponseDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, ChatResponseDTO{
		Response:    "Diseña sistemas.",
		Source:      "career",
		Intent:      "profile",
		Career:      "sistemas",
		Suggestions: []string{"Pensum de Sistemas"},
	}, resp)
	assert.Equal(t, []string{"perfil de sistemas"}, chat.messages)
}

func TestHandleChat_NormalizesToNFC(t *testing.T) {
	chat := &fakeChat{reply: agent.Reply{Text: "ok", Source: agent.SourceExternal}}
	r := newTestRouter(chat, testCatalog(), time.Second)

	// "mecánica" with a combining acute accent
	w := do(r, http.MethodPost, "/api/chat", `{"message": "meca\u0301nica"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"mec\u00e1nica"}, chat.messages)
	assert.JSONEq(t, `{"response": "ok", "source": "external", "suggestions": []}`, w.Body.String())
}

func TestHandleChat_InvalidRequests(t *testing.T) {
	r := newTestRouter(&fakeChat{}, testCatalog(), time.Second)

	tests := []struct {
		name     string
		body     string
		wantCode string
	}{
		{"missing message", `{}`, "INVALID_REQUEST"},
		{"blank message", `{"message": "   "}`, "INVALID_REQUEST"},
		{"malformed json", `{"message":`, "INVALID_REQUEST"},
		{"too long", `{"message": "` + strings.Repeat("á", MaxMessageLength+1) + `"}`, "MESSAGE_TOO_LONG"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodPost, "/api/chat", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantCode)
		})
	}

	w := do(r, http.MethodPost, "/api/chat", `{"message": "`+strings.Repeat("á", MaxMessageLength)+`"}`)
	assert.Equal(t, http.StatusOK, w.Code, "the limit counts characters, not bytes")
}

func TestHandleChat_Timeout(t *testing.T) {
	r := newTestRouter(&fakeChat{block: true}, testCatalog(), 20*time.Millisecond)

	w := do(r, http.MethodPost, "/api/chat", `{"message": "hola"}`)
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	assert.Contains(t, w.Body.String(), "TIMEOUT")
}

func TestHandleRestart(t *testing.T) {
	chat := &fakeChat{}
	r := newTestRouter(chat, testCatalog(), time.Second)

	w := do(r, http.MethodPost, "/api/chat/restart", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, chat.restarts)

	chat.restartErr = errors.New("down")
	w = do(r, http.MethodPost, "/api/chat/restart", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "RESTART_FAILED")
}

func TestHandleGetCareers(t *testing.T) {
	r := newTestRouter(&fakeChat{}, testCatalog(), time.Second)

	w := do(r, http.MethodGet, "/api/careers", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[
		{"id": "mecanica", "name": "Ingeniería Mecánica"},
		{"id": "sistemas", "name": "Ingeniería de Sistemas", "duration": "5 años"}
	]`, w.Body.String())
}

func TestHandleGetCareer(t *testing.T) {
	r := newTestRouter(&fakeChat{}, testCatalog(), time.Second)

	w := do(r, http.MethodGet, "/api/careers/SISTEMAS", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"id": "sistemas",
		"name": "Ingeniería de Sistemas",
		"duration": "5 años",
		"description": "Software.",
		"professional_outlets": ["Desarrollador"],
		"study_plan": "Semestre 1: Cálculo I"
	}`, w.Body.String())

	w = do(r, http.MethodGet, "/api/careers/civil", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleGetInstitution(t *testing.T) {
	r := newTestRouter(&fakeChat{}, testCatalog(), time.Second)

	w := do(r, http.MethodGet, "/api/institution", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"mision": "Formar."}`, w.Body.String())

	empty := newTestRouter(&fakeChat{}, knowledge.NewStore(model.Dataset{}), time.Second)
	assert.Equal(t, http.StatusServiceUnavailable, do(empty, http.MethodGet, "/api/institution", "").Code)
}

func TestHealthAndReadiness(t *testing.T) {
	r := newTestRouter(&fakeChat{}, testCatalog(), time.Second)

	w := do(r, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	var health HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, knowledge.Stats{Careers: 2, Facts: 1}, health.Knowledge)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/ready", "").Code)

	empty := newTestRouter(&fakeChat{}, knowledge.NewStore(model.Dataset{}), time.Second)
	w = do(empty, http.MethodGet, "/health", "")
	assert.Contains(t, w.Body.String(), `"degraded"`)
	assert.Equal(t, http.StatusServiceUnavailable, do(empty, http.MethodGet, "/ready", "").Code)
}
