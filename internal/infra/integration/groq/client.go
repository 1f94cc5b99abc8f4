package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/xavierca1/lead-intake/internal/infra/http/middleware"
)

const (
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	DefaultModel   = "llama3-8b-8192"
)

// ErrMissingAPIKey: a chave nunca tem valor padrão.
var ErrMissingAPIKey = errors.New("groq: api key is required")

type session struct {
	mu       sync.Mutex
	id       string
	messages []Message
	lastUsed time.Time // guardado por Client.mu
}

// Client fala com uma API de chat compatível com OpenAI (Groq por padrão) e
// mantém o histórico de cada conversa em memória.
type Client struct {
	apiKey      string
	baseURL     string
	model       string
	instruction string
	httpClient  *http.Client

	mu       sync.Mutex
	sessions map[string]*session
	now      func() time.Time
}

func NewClient(apiKey, baseURL, model string, timeout time.Duration) (*Client, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}

	return &Client{
		apiKey:      apiKey,
		baseURL:     strings.TrimRight(baseURL, "/"),
		model:       model,
		instruction: SalesAgentInstruction,
		httpClient:  &http.Client{Timeout: timeout},
		sessions:    make(map[string]*session),
		now:         time.Now,
	}, nil
}

// ResetSession descarta o histórico e abre uma sessão nova para a conversa.
func (c *Client) ResetSession(conversationID string) {
	c.mu.Lock()
	s := newSession()
	s.lastUsed = c.now()
	c.sessions[conversationID] = s
	c.mu.Unlock()
}

func (c *Client) sessionFor(conversationID string) *session {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.sessions[conversationID]
	if !ok {
		s = newSession()
		c.sessions[conversationID] = s
		log.Printf("🆕 Agente: sessão %s criada para %s", s.id, conversationID)
	}
	s.lastUsed = c.now()
	return s
}

// Cleanup descarta sessões paradas há mais de ttl até o ctx ser cancelado.
// Uma conversa expirada recomeça com histórico vazio.
func (c *Client) Cleanup(ctx context.Context, every, ttl time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := c.evictIdle(ttl); n > 0 {
				log.Printf("🧹 Agente: %d sessão(ões) expirada(s)", n)
			}
		}
	}
}

func (c *Client) evictIdle(ttl time.Duration) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	evicted := 0
	for id, s := range c.sessions {
		if now.Sub(s.lastUsed) > ttl {
			delete(c.sessions, id)
			evicted++
		}
	}
	return evicted
}

func (c *Client) sessionCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sessions)
}

func newSession() *session {
	return &session{id: uuid.New().String()}
}

// Send envia a mensagem e devolve a resposta final do agente. Erros
// reportados pela API viram o texto "Agent escalated: ..."; só falhas de
// transporte voltam como error.
func (c *Client) Send(ctx context.Context, conversationID, text string) (string, error) {
	s := c.sessionFor(conversationID)

	// Turnos da mesma conversa não se sobrepõem no histórico.
	s.mu.Lock()
	defer s.mu.Unlock()

	messages := make([]Message, 0, len(s.messages)+2)
	messages = append(messages, Message{Role: "system", Content: c.instruction})
	messages = append(messages, s.messages...)
	messages = append(messages, Message{Role: "user", Content: text})

	payload, err := json.Marshal(ChatCompletionRequest{Model: c.model, Messages: messages})
	if err != nil {
		return "", fmt.Errorf("erro ao serializar payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("X-Session-Id", s.id)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		middleware.RecordAgentError("transport")
		return "", fmt.Errorf("erro ao chamar agente: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("erro ao ler resposta do agente: %w", err)
	}

	var result ChatCompletionResponse
	decodeErr := json.Unmarshal(body, &result)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || result.Error != nil {
		msg := escalationMessage(resp.StatusCode, result.Error, body)
		log.Printf("❌ Agente: API retornou status %d: %s", resp.StatusCode, msg)
		middleware.RecordAgentError("api")
		return Escalated(msg), nil
	}
	if decodeErr != nil {
		return "", fmt.Errorf("erro ao parsear resposta do agente: %w", decodeErr)
	}

	reply := ""
	if len(result.Choices) > 0 {
		reply = result.Choices[0].Message.Content
	}

	s.messages = append(s.messages,
		Message{Role: "user", Content: text},
		Message{Role: "assistant", Content: reply},
	)

	return reply, nil
}

func Escalated(msg string) string {
	if msg == "" {
		msg = "No message"
	}
	return "Agent escalated: " + msg
}

func escalationMessage(status int, apiErr *APIError, body []byte) string {
	if apiErr != nil && apiErr.Message != "" {
		return apiErr.Message
	}
	if raw := strings.TrimSpace(string(body)); raw != "" && len(raw) < 300 {
		return raw
	}
	if status != 0 {
		return http.StatusText(status)
	}
	return ""
}
