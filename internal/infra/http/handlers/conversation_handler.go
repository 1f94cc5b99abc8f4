package handlers

import (
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/lead-intake/internal/infra/http/middleware"
	"github.com/xavierca1/lead-intake/internal/infra/http/views"
	"github.com/xavierca1/lead-intake/internal/usecase"
)

const (
	WelcomeMessage      = "Hello! I'm ready to assist you. What would you like to know about our products?"
	InvalidStartMessage = "Please provide valid details."
	genericErrorMessage = "Sorry, something went wrong. Please try again."
)

// ConversationHandler serve as páginas HTML (landing e chat).
type ConversationHandler struct {
	StartUC *usecase.StartConversationUseCase
	TurnUC  *usecase.HandleTurnUseCase
}

func NewConversationHandler(startUC *usecase.StartConversationUseCase, turnUC *usecase.HandleTurnUseCase) *ConversationHandler {
	return &ConversationHandler{StartUC: startUC, TurnUC: turnUC}
}

func (h *ConversationHandler) Home(w http.ResponseWriter, r *http.Request) {
	views.Render(w, http.StatusOK, "index.html", views.IndexData{})
}

func (h *ConversationHandler) StartConversation(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		views.Render(w, http.StatusBadRequest, "index.html", views.IndexData{Message: InvalidStartMessage})
		return
	}

	input := usecase.StartConversationInput{
		LeadID: r.PostFormValue("lead_id"),
		Name:   r.PostFormValue("name"),
	}

	output, err := h.StartUC.Execute(r.Context(), input)
	if err != nil {
		if usecase.IsDomainError(err) {
			views.Render(w, http.StatusBadRequest, "index.html", views.IndexData{Message: InvalidStartMessage})
			return
		}
		log.Printf("❌ Erro ao iniciar conversa %s: %v", input.LeadID, err)
		views.Render(w, http.StatusInternalServerError, "index.html", views.IndexData{Message: genericErrorMessage})
		return
	}

	middleware.RecordLeadStarted()
	http.Redirect(w, r, "/conversation/"+url.PathEscape(output.LeadID), http.StatusSeeOther)
}

func (h *ConversationHandler) ShowConversation(w http.ResponseWriter, r *http.Request) {
	leadID := strings.TrimSpace(chi.URLParam(r, "lead_id"))
	views.Render(w, http.StatusOK, "conversation.html", views.ConversationData{
		LeadID:   leadID,
		Response: WelcomeMessage,
	})
}

func (h *ConversationHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	leadID := strings.TrimSpace(chi.URLParam(r, "lead_id"))
	data := views.ConversationData{LeadID: leadID}

	if err := r.ParseForm(); err != nil {
		data.Error = "Invalid form submission."
		views.Render(w, http.StatusBadRequest, "conversation.html", data)
		return
	}

	output, err := h.TurnUC.Execute(r.Context(), usecase.HandleTurnInput{
		LeadID:  leadID,
		Message: r.PostFormValue("message"),
	})
	if err != nil {
		status := statusFor(err)
		if status == http.StatusBadRequest {
			data.Error = err.Error()
		} else {
			log.Printf("❌ Erro no turno de %s: %v", leadID, err)
			data.Error = genericErrorMessage
		}
		views.Render(w, status, "conversation.html", data)
		return
	}

	recordTurn(output)
	data.Response = output.Response
	views.Render(w, http.StatusOK, "conversation.html", data)
}

func statusFor(err error) int {
	if usecase.IsDomainError(err) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func recordTurn(output *usecase.HandleTurnOutput) {
	switch {
	case output.Confirmed:
		middleware.RecordLeadConfirmed()
	case output.AwaitingConfirmation:
		middleware.RecordConfirmationPrompt()
	}
}
