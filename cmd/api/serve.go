package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/xavierca1/lead-intake/internal/config"
	"github.com/xavierca1/lead-intake/internal/infra/http/handlers"
	"github.com/xavierca1/lead-intake/internal/infra/http/server"
	"github.com/xavierca1/lead-intake/internal/infra/integration/groq"
	"github.com/xavierca1/lead-intake/internal/infra/mail"
	"github.com/xavierca1/lead-intake/internal/infra/queue"
	"github.com/xavierca1/lead-intake/internal/infra/session"
	"github.com/xavierca1/lead-intake/internal/infra/worker"
	"github.com/xavierca1/lead-intake/internal/usecase"
)

type ServeCmd struct {
	Addr string `short:"a" long:"addr" description:"listen address (overrides HTTP_ADDR)"`
}

func (c *ServeCmd) Execute(_ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if c.Addr != "" {
		cfg.HTTPAddr = c.Addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Store de leads
	leadRepo, closeStore, err := openLeadStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	// 2. Agente e estado em memória
	agent, err := groq.NewClient(cfg.AgentAPIKey, cfg.AgentBaseURL, cfg.AgentModel, cfg.AgentTimeout)
	if err != nil {
		return err
	}
	go agent.Cleanup(ctx, time.Hour, cfg.AgentSessionTTL)
	pending := session.NewMemoryStore()

	// 3. Fila (opcional)
	var publisher usecase.LeadEventPublisher
	var amqpState handlers.ConnectionState
	if cfg.AMQPURL != "" {
		rabbitMQ, err := queue.NewRabbitMQ(cfg.AMQPURL)
		if err != nil {
			return err
		}
		defer rabbitMQ.Close()

		publisher = queue.NewProducer(rabbitMQ.Ch)
		amqpState = rabbitMQ.Conn

		if cfg.MailEnabled() {
			consumerCh, err := rabbitMQ.Conn.Channel()
			if err != nil {
				return err
			}
			defer consumerCh.Close()

			sender := mail.NewEmailSender(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPass, cfg.SalesEmail)
			notifyWorker := queue.NewWorker(consumerCh, sender)
			go func() {
				if err := notifyWorker.Start(ctx, queue.QueueName); err != nil {
					log.Printf("❌ [WORKER] %v", err)
				}
			}()
		}
	} else {
		log.Println("⚠️ AMQP_URL não configurado: eventos de lead desativados")
	}

	// 4. UseCases
	startUC := usecase.NewStartConversationUseCase(leadRepo, agent, pending)
	turnUC := usecase.NewHandleTurnUseCase(leadRepo, agent, pending, publisher)
	compactUC := usecase.NewCompactLeadsUseCase(leadRepo)

	// 5. Workers em background
	go worker.NewFollowUpWorker(leadRepo, cfg.FollowUpInterval).Start(ctx)
	if cfg.CompactionInterval > 0 {
		go worker.NewCompactionWorker(compactUC, cfg.CompactionInterval).Start(ctx)
	}

	// 6. Handlers e Router
	var limiter *handlers.RateLimiter
	if cfg.RateLimitPerMinute > 0 {
		limiter = handlers.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)
		go limiter.Cleanup(ctx, 10*time.Minute)
	}

	router := server.NewRouter(server.Handlers{
		Conversation: handlers.NewConversationHandler(startUC, turnUC),
		Chat:         handlers.NewChatHandler(turnUC, limiter),
		Health:       handlers.NewHealthHandler(leadRepo, amqpState),
	}, cfg.CORSAllowedOrigins)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("🔥 Servidor de leads rodando em %s", cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		log.Println("⚠️ Sinal recebido, encerrando servidor...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
