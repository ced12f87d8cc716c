package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbedded_Defaults(t *testing.T) {
	cfg, err := LoadEmbedded()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Server.HTTPPort)
	assert.Equal(t, 8*time.Hour, cfg.JWT.SessionTTL)
	assert.Equal(t, time.Hour, cfg.JWT.ResetTTL)
	assert.Equal(t, 10, cfg.Security.BcryptCost)
	assert.Equal(t, "journalhub", cfg.Repositories.Mongo.DB)
	assert.Equal(t, 5, cfg.Server.ResetRateLimit.Requests)
	assert.Equal(t, 15*time.Minute, cfg.Server.ResetRateLimit.Window)
}

func TestLoadEmbedded_EnvOverrides(t *testing.T) {
	t.Setenv("SECRET_KEY", "s3cret")
	t.Setenv("SALT_ROUNDS", "12")
	t.Setenv("PORT", "8081")
	t.Setenv("EMAIL", "mailer@example.com")
	t.Setenv("PASSWORD", "app-password")
	t.Setenv("MONGO_URI", "mongodb://db:27017")
	t.Setenv("DB_NAME", "journal_test")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := LoadEmbedded()
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.JWT.SecretKey)
	assert.Equal(t, 12, cfg.Security.BcryptCost)
	assert.Equal(t, "8081", cfg.Server.HTTPPort)
	assert.Equal(t, "mailer@example.com", cfg.Mail.Username)
	assert.Equal(t, "mailer@example.com", cfg.Mail.From)
	assert.Equal(t, "mongodb://db:27017", cfg.Repositories.Mongo.URI)
	assert.Equal(t, "journal_test", cfg.Repositories.Mongo.DB)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	cfg, err := LoadEmbedded()
	require.NoError(t, err)

	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SECRET_KEY")
	assert.Contains(t, err.Error(), "EMAIL, PASSWORD")

	cfg.JWT.SecretKey = "k"
	cfg.Mail.Username = "u"
	cfg.Mail.Password = "p"
	cfg.Server.HTTPPort = ""
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PORT")
}
