package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GROQ_API_KEY", "AGENT_BASE_URL", "AGENT_MODEL", "AGENT_TIMEOUT", "AGENT_SESSION_TTL",
		"HTTP_ADDR", "CORS_ALLOWED_ORIGINS", "RATE_LIMIT_PER_MINUTE",
		"LEADS_BACKEND", "LEADS_CSV_PATH", "DATABASE_URL", "AMQP_URL",
		"MAIL_HOST", "MAIL_PORT", "MAIL_USER", "MAIL_PASS", "SALES_EMAIL",
		"FOLLOW_UP_INTERVAL", "COMPACTION_INTERVAL",
	} {
		t.Setenv(key, "")
	}
}

func TestFromEnvRequiresAPIKey(t *testing.T) {
	clearEnv(t)

	_, err := FromEnv()

	assert.EqualError(t, err, "GROQ_API_KEY must be set")
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("GROQ_API_KEY", "gsk_test")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "gsk_test", cfg.AgentAPIKey)
	assert.Equal(t, "https://api.groq.com/openai/v1", cfg.AgentBaseURL)
	assert.Equal(t, "llama3-8b-8192", cfg.AgentModel)
	assert.Equal(t, 60*time.Second, cfg.AgentTimeout)
	assert.Equal(t, 24*time.Hour, cfg.AgentSessionTTL)
	assert.Equal(t, ":5000", cfg.HTTPAddr)
	assert.Equal(t, BackendCSV, cfg.LeadsBackend)
	assert.Equal(t, "leads.csv", cfg.LeadsCSVPath)
	assert.Equal(t, 24*time.Hour, cfg.FollowUpInterval)
	assert.Zero(t, cfg.CompactionInterval)
	assert.Equal(t, 587, cfg.MailPort)
	assert.Equal(t, 30, cfg.RateLimitPerMinute)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.MailEnabled())
}

func TestLoadMaintenanceSkipsAPIKey(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadMaintenance()

	require.NoError(t, err)
	assert.Empty(t, cfg.AgentAPIKey)
}

func TestParseOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("LEADS_BACKEND", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/leads")
	t.Setenv("COMPACTION_INTERVAL", "1h")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("MAIL_HOST", "smtp.example.com")
	t.Setenv("SALES_EMAIL", "sales@example.com")

	cfg, err := parse()
	require.NoError(t, err)

	assert.Equal(t, BackendPostgres, cfg.LeadsBackend)
	assert.Equal(t, time.Hour, cfg.CompactionInterval)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.MailEnabled())
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"base url", map[string]string{"AGENT_BASE_URL": "api.groq.com"}, "AGENT_BASE_URL must be a valid HTTP/HTTPS URL"},
		{"postgres sem url", map[string]string{"LEADS_BACKEND": "postgres"}, "DATABASE_URL must be set"},
		{"backend desconhecido", map[string]string{"LEADS_BACKEND": "sqlite"}, "LEADS_BACKEND must be"},
		{"timeout inválido", map[string]string{"AGENT_TIMEOUT": "soon"}, "AGENT_TIMEOUT must be a duration"},
		{"ttl de sessão zero", map[string]string{"AGENT_SESSION_TTL": "0s"}, "AGENT_SESSION_TTL must be positive"},
		{"follow-up zero", map[string]string{"FOLLOW_UP_INTERVAL": "0s"}, "FOLLOW_UP_INTERVAL must be positive"},
		{"compactação negativa", map[string]string{"COMPACTION_INTERVAL": "-1m"}, "COMPACTION_INTERVAL must not be negative"},
		{"porta inválida", map[string]string{"MAIL_PORT": "smtp"}, "MAIL_PORT must be an integer"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			_, err := parse()

			assert.ErrorContains(t, err, tc.want)
		})
	}
}
