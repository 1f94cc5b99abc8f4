package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/lead-intake/internal/infra/filestore"
	"github.com/xavierca1/lead-intake/internal/infra/http/handlers"
	"github.com/xavierca1/lead-intake/internal/infra/session"
	"github.com/xavierca1/lead-intake/internal/usecase"
)

const header = "lead_id,name,age,country,interest,status\n"

// scriptedAgent responde pela mensagem recebida.
type scriptedAgent struct {
	mu      sync.Mutex
	replies map[string]string
	sent    []string
	resets  []string
}

func (a *scriptedAgent) Send(_ context.Context, conversationID, text string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sent = append(a.sent, conversationID+":"+text)
	if r, ok := a.replies[text]; ok {
		return r, nil
	}
	return "How can I help?", nil
}

func (a *scriptedAgent) ResetSession(conversationID string) {
	a.mu.Lock()
	a.resets = append(a.resets, conversationID)
	a.mu.Unlock()
}

type testApp struct {
	router  http.Handler
	agent   *scriptedAgent
	pending *session.MemoryStore
	csvPath string
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	csvPath := filepath.Join(t.TempDir(), "leads.csv")
	repo, err := filestore.NewCSVLeadRepository(csvPath)
	require.NoError(t, err)

	agent := &scriptedAgent{replies: map[string]string{
		"I'm Ann, 30, from the US and I want a laptop": "Your name: Ann\nAge: 30\nCountry: US\nProduct interest: Laptop",
	}}
	pending := session.NewMemoryStore()

	startUC := usecase.NewStartConversationUseCase(repo, agent, pending)
	turnUC := usecase.NewHandleTurnUseCase(repo, agent, pending, nil)

	router := NewRouter(Handlers{
		Conversation: handlers.NewConversationHandler(startUC, turnUC),
		Chat:         handlers.NewChatHandler(turnUC, nil),
		Health:       handlers.NewHealthHandler(repo, nil),
	}, []string{"*"})

	return &testApp{router: router, agent: agent, pending: pending, csvPath: csvPath}
}

func (a *testApp) csv(t *testing.T) string {
	t.Helper()
	b, err := os.ReadFile(a.csvPath)
	require.NoError(t, err)
	return string(b)
}

func (a *testApp) chat(t *testing.T, leadID, body string) *httptest.ResponseRecorder {
	t.Helper()
	target := "/chat"
	if leadID != "" {
		target += "?lead_id=" + url.QueryEscape(leadID)
	}
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func postForm(router http.Handler, target string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHomePage(t *testing.T) {
	app := newTestApp(t)

	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `action="/start_conversation"`)
}

func TestStartConversationRedirectsAndAppendsStartedRow(t *testing.T) {
	app := newTestApp(t)

	w := postForm(app.router, "/start_conversation", url.Values{"lead_id": {"L42"}, "name": {"Bob"}})

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/conversation/L42", w.Header().Get("Location"))
	assert.Equal(t, header+"L42,Bob,,,,started\n", app.csv(t))
	assert.Equal(t, []string{"L42"}, app.agent.resets)
	assert.Equal(t, []string{"L42:" + usecase.GreetingPrompt("Bob")}, app.agent.sent)
}

func TestStartConversationMissingFields(t *testing.T) {
	app := newTestApp(t)

	w := postForm(app.router, "/start_conversation", url.Values{"lead_id": {"L42"}})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), handlers.InvalidStartMessage)
	assert.Equal(t, header, app.csv(t))
	assert.Empty(t, app.agent.sent)
}

func TestShowConversationWelcome(t *testing.T) {
	app := newTestApp(t)

	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/conversation/L42", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Hello! I&#39;m ready to assist you.")
	assert.Contains(t, w.Body.String(), "L42")
}

func TestPostConversationMessageFlow(t *testing.T) {
	app := newTestApp(t)

	w := postForm(app.router, "/conversation/L1", url.Values{"message": {"I'm Ann, 30, from the US and I want a laptop"}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Please confirm if the above details are correct by typing &#39;confirm&#39;.")

	w = postForm(app.router, "/conversation/L1", url.Values{"message": {"confirm"}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Thank you for confirming your details!")

	assert.Equal(t, header+"L1,Ann,30,US,Laptop,confirmed\n", app.csv(t))
}

func TestPostConversationMissingMessage(t *testing.T) {
	app := newTestApp(t)

	w := postForm(app.router, "/conversation/L1", url.Values{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, app.agent.sent)
}

func TestChatConfirmFlow(t *testing.T) {
	app := newTestApp(t)

	w := app.chat(t, "L", `{"message": "I'm Ann, 30, from the US and I want a laptop"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp handlers.ChatResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Contains(t, resp.Response, "Product interest: Laptop")
	assert.Equal(t, header, app.csv(t))

	w = app.chat(t, "L", `{"message": " CONFIRM "}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, usecase.ConfirmedReply, resp.Response)

	assert.Equal(t, header+"L,Ann,30,US,Laptop,confirmed\n", app.csv(t))
}

func TestChatConfirmWithoutPendingForwardsToAgent(t *testing.T) {
	app := newTestApp(t)

	w := app.chat(t, "L", `{"message": "confirm"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"L:confirm"}, app.agent.sent)
	assert.Equal(t, header, app.csv(t))
}

func TestChatMissingLeadID(t *testing.T) {
	app := newTestApp(t)

	w := app.chat(t, "", `{"message": "confirm"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Missing lead_id parameter", strings.TrimSpace(w.Body.String()))
	assert.Equal(t, header, app.csv(t))
	assert.Empty(t, app.agent.sent)
}

func TestChatMissingMessage(t *testing.T) {
	app := newTestApp(t)

	w := app.chat(t, "L", `{}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Missing message in request body", strings.TrimSpace(w.Body.String()))
}

func TestChatInvalidJSON(t *testing.T) {
	app := newTestApp(t)

	w := app.chat(t, "L", `{not json`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	app := newTestApp(t)

	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	var health handlers.HealthResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&health))
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "healthy", health.Dependencies["lead_store"])
	assert.Equal(t, "not configured", health.Dependencies["rabbitmq"])

	w = httptest.NewRecorder()
	app.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}

func TestStaticAssets(t *testing.T) {
	app := newTestApp(t)

	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/static/script.js", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/chat?lead_id=")
}

func TestChatEmptyBodyIsMissingMessage(t *testing.T) {
	app := newTestApp(t)

	w := app.chat(t, "L", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Missing message in request body", strings.TrimSpace(w.Body.String()))
	assert.Empty(t, app.agent.sent)
}

func TestLeadIDIsTrimmedAcrossRoutes(t *testing.T) {
	app := newTestApp(t)

	w := postForm(app.router, "/conversation/%20L1%20", url.Values{"message": {"I'm Ann, 30, from the US and I want a laptop"}})
	require.Equal(t, http.StatusOK, w.Code)

	_, ok := app.pending.Get("L1")
	assert.True(t, ok)
	assert.Equal(t, []string{"L1:I'm Ann, 30, from the US and I want a laptop"}, app.agent.sent)

	w = app.chat(t, "L1", `{"message": "confirm"}`)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, header+"L1,Ann,30,US,Laptop,confirmed\n", app.csv(t))
}
