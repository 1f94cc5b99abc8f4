package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xavierca1/lead-intake/internal/infra/http/handlers"
	"github.com/xavierca1/lead-intake/internal/infra/http/middleware"
	"github.com/xavierca1/lead-intake/internal/infra/http/views"
)

type Handlers struct {
	Conversation *handlers.ConversationHandler
	Chat         *handlers.ChatHandler
	Health       *handlers.HealthHandler
}

func NewRouter(h Handlers, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/", h.Conversation.Home)
	r.Post("/start_conversation", h.Conversation.StartConversation)
	r.Get("/conversation/{lead_id}", h.Conversation.ShowConversation)
	r.Post("/conversation/{lead_id}", h.Conversation.PostMessage)
	r.Post("/chat", h.Chat.Handle)

	if h.Health != nil {
		r.Get("/health", h.Health.Handle)
	}
	r.Handle("/metrics", promhttp.Handler())
	r.Handle("/static/*", http.StripPrefix("/static/", views.Static()))

	return r
}
