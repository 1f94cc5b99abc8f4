package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendCSV      = "csv"
	BackendPostgres = "postgres"
)

type Config struct {
	AgentAPIKey  string
	AgentBaseURL string
	AgentModel   string
	AgentTimeout time.Duration

	// AgentSessionTTL: histórico de conversa parado além disso é descartado.
	AgentSessionTTL time.Duration

	HTTPAddr           string
	CORSAllowedOrigins []string
	RateLimitPerMinute int

	LeadsBackend string
	LeadsCSVPath string
	DatabaseURL  string

	AMQPURL string

	MailHost   string
	MailPort   int
	MailUser   string
	MailPass   string
	SalesEmail string

	FollowUpInterval   time.Duration
	CompactionInterval time.Duration
}

// Load lê o .env (se existir) e depois o ambiente.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// LoadMaintenance é o Load dos comandos offline, que não falam com o agente.
func LoadMaintenance() (Config, error) {
	_ = godotenv.Load()
	return parse()
}

// FromEnv valida a configuração do servidor. GROQ_API_KEY é obrigatória e
// não tem valor padrão.
func FromEnv() (Config, error) {
	cfg, err := parse()
	if err != nil {
		return Config{}, err
	}
	if cfg.AgentAPIKey == "" {
		return Config{}, errors.New("GROQ_API_KEY must be set")
	}
	return cfg, nil
}

func parse() (Config, error) {
	cfg := Config{
		AgentAPIKey:  os.Getenv("GROQ_API_KEY"),
		AgentBaseURL: envOr("AGENT_BASE_URL", "https://api.groq.com/openai/v1"),
		AgentModel:   envOr("AGENT_MODEL", "llama3-8b-8192"),
		HTTPAddr:     envOr("HTTP_ADDR", ":5000"),
		LeadsBackend: strings.ToLower(envOr("LEADS_BACKEND", BackendCSV)),
		LeadsCSVPath: envOr("LEADS_CSV_PATH", "leads.csv"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		AMQPURL:      os.Getenv("AMQP_URL"),
		MailHost:     os.Getenv("MAIL_HOST"),
		MailUser:     os.Getenv("MAIL_USER"),
		MailPass:     os.Getenv("MAIL_PASS"),
		SalesEmail:   os.Getenv("SALES_EMAIL"),
	}

	if !strings.HasPrefix(cfg.AgentBaseURL, "http://") && !strings.HasPrefix(cfg.AgentBaseURL, "https://") {
		return Config{}, errors.New("AGENT_BASE_URL must be a valid HTTP/HTTPS URL")
	}

	switch cfg.LeadsBackend {
	case BackendCSV:
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, errors.New("DATABASE_URL must be set when LEADS_BACKEND=postgres")
		}
	default:
		return Config{}, fmt.Errorf("LEADS_BACKEND must be %q or %q", BackendCSV, BackendPostgres)
	}

	var err error
	if cfg.AgentTimeout, err = envDuration("AGENT_TIMEOUT", 60*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.AgentSessionTTL, err = envDuration("AGENT_SESSION_TTL", 24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.AgentSessionTTL <= 0 {
		return Config{}, errors.New("AGENT_SESSION_TTL must be positive")
	}
	if cfg.FollowUpInterval, err = envDuration("FOLLOW_UP_INTERVAL", 24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.FollowUpInterval <= 0 {
		return Config{}, errors.New("FOLLOW_UP_INTERVAL must be positive")
	}
	if cfg.CompactionInterval, err = envDuration("COMPACTION_INTERVAL", 0); err != nil {
		return Config{}, err
	}
	if cfg.MailPort, err = envInt("MAIL_PORT", 587); err != nil {
		return Config{}, err
	}
	if cfg.RateLimitPerMinute, err = envInt("RATE_LIMIT_PER_MINUTE", 30); err != nil {
		return Config{}, err
	}

	cfg.CORSAllowedOrigins = splitList(envOr("CORS_ALLOWED_ORIGINS", "*"))

	return cfg, nil
}

// MailEnabled: sem host ou destinatário o worker de notificação não sobe.
func (c Config) MailEnabled() bool {
	return c.MailHost != "" && c.SalesEmail != ""
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration (e.g. 30s, 24h): %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must not be negative", key)
	}
	return d, nil
}

func envInt(key string, def int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
