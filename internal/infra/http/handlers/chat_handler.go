package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/xavierca1/lead-intake/internal/usecase"
)

type ChatHandler struct {
	TurnUC      *usecase.HandleTurnUseCase
	rateLimiter *RateLimiter
}

// rateLimiter nil desliga o limite.
func NewChatHandler(turnUC *usecase.HandleTurnUseCase, rateLimiter *RateLimiter) *ChatHandler {
	return &ChatHandler{TurnUC: turnUC, rateLimiter: rateLimiter}
}

type ChatRequest struct {
	Message string `json:"message"`
}

type ChatResponse struct {
	Response string `json:"response"`
}

func (h *ChatHandler) Handle(w http.ResponseWriter, r *http.Request) {
	leadID := strings.TrimSpace(r.URL.Query().Get("lead_id"))
	if leadID == "" {
		http.Error(w, "Missing lead_id parameter", http.StatusBadRequest)
		return
	}

	if h.rateLimiter != nil && !h.rateLimiter.Allow(getClientIP(r)) {
		http.Error(w, "Too many requests. Please try again later.", http.StatusTooManyRequests)
		return
	}

	// Corpo vazio é o mesmo que mensagem ausente; o use case responde.
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	output, err := h.TurnUC.Execute(r.Context(), usecase.HandleTurnInput{
		LeadID:  leadID,
		Message: req.Message,
	})
	if err != nil {
		status := statusFor(err)
		if status == http.StatusBadRequest {
			http.Error(w, err.Error(), status)
			return
		}
		log.Printf("❌ Erro no chat de %s: %v", leadID, err)
		http.Error(w, genericErrorMessage, status)
		return
	}

	recordTurn(output)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(ChatResponse{Response: output.Response})
}
