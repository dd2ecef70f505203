package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, 120*time.Second, cfg.Transfer.TxTimeout)
	assert.Equal(t, 5*time.Second, cfg.Transfer.LockTimeout)
	assert.True(t, cfg.Correction.ApprovalThreshold.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, 30*24*time.Hour, cfg.Correction.RecurrenceWindow)
	assert.False(t, cfg.PubSub.Enabled())
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, int32(25), cfg.DB.MaxConns)
}

func TestLoad_DesdeVariablesDeEntorno(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("TRANSFER_TX_TIMEOUT", "30s")
	t.Setenv("TRANSFER_LOCK_TIMEOUT", "2")
	t.Setenv("CORRECTION_APPROVAL_THRESHOLD", "2.5")
	t.Setenv("CORRECTION_RECURRENCE_WINDOW", "168h")
	t.Setenv("PUBSUB_PROJECT_ID", "demo")
	t.Setenv("METRICS_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 30*time.Second, cfg.Transfer.TxTimeout)
	assert.Equal(t, 2*time.Second, cfg.Transfer.LockTimeout)
	assert.True(t, cfg.Correction.ApprovalThreshold.Equal(decimal.RequireFromString("2.5")))
	assert.Equal(t, 168*time.Hour, cfg.Correction.RecurrenceWindow)
	assert.True(t, cfg.PubSub.Enabled())
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoad_UmbralInvalido(t *testing.T) {
	t.Setenv("CORRECTION_APPROVAL_THRESHOLD", "diez")
	_, err := Load()
	assert.ErrorContains(t, err, "CORRECTION_APPROVAL_THRESHOLD")
}

func TestValidate_LockTimeoutMayorQueTx(t *testing.T) {
	cfg := &Config{Transfer: TransferConfig{TxTimeout: time.Second, LockTimeout: time.Minute}}
	assert.Error(t, cfg.Validate())
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss", DBName: "traslados", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss@db:5432/traslados?sslmode=disable", c.DSN())
	assert.Equal(t, c.DSN(), c.ConnectionString())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}

func TestValidate_TamanoDePoolInvalido(t *testing.T) {
	t.Setenv("DB_MAX_CONNS", "4")
	t.Setenv("DB_MIN_CONNS", "8")
	_, err := Load()
	assert.ErrorContains(t, err, "DB_MAX_CONNS")
}
