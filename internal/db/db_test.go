package db

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/event"

	"github.com/yigit/registrar/internal/config"
	"github.com/yigit/registrar/internal/pkg/logger"
)

func captureLogs(t *testing.T, level logger.LogLevel) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	logger.Configure(logger.Config{Level: level, Output: &buf})
	t.Cleanup(func() { logger.Configure(logger.Config{Level: logger.InfoLevel, Pretty: true}) })
	return &buf
}

func entries(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var e map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &e))
		out = append(out, e)
	}
	return out
}

func TestCommandMonitorLogsAtDebug(t *testing.T) {
	buf := captureLogs(t, logger.DebugLevel)
	monitor := CommandMonitor()

	monitor.Started(context.Background(), &event.CommandStartedEvent{
		CommandName:  "insert",
		DatabaseName: "registrar",
		RequestID:    7,
	})
	monitor.Succeeded(context.Background(), &event.CommandSucceededEvent{
		CommandFinishedEvent: event.CommandFinishedEvent{CommandName: "insert", RequestID: 7, Duration: time.Millisecond},
	})
	monitor.Failed(context.Background(), &event.CommandFailedEvent{
		CommandFinishedEvent: event.CommandFinishedEvent{CommandName: "insert", RequestID: 8},
		Failure:              "E11000 duplicate key error",
	})

	logs := entries(t, buf)
	require.Len(t, logs, 3)
	assert.Equal(t, "debug", logs[0]["level"])
	assert.Equal(t, "insert", logs[0]["command"])
	assert.Equal(t, "registrar", logs[0]["database"])
	assert.Equal(t, "warn", logs[2]["level"])
	assert.Equal(t, "E11000 duplicate key error", logs[2]["failure"])
}

func TestCommandMonitorQuietAtInfo(t *testing.T) {
	buf := captureLogs(t, logger.InfoLevel)
	CommandMonitor().Started(context.Background(), &event.CommandStartedEvent{CommandName: "find"})
	assert.Zero(t, buf.Len())
}

func TestPostgresPoolConfig(t *testing.T) {
	cfg := &config.Config{}
	cfg.Database.Host = "db.internal"
	cfg.Database.Port = "5432"
	cfg.Database.User = "registrar"
	cfg.Database.Password = "secret"
	cfg.Database.DBName = "registrar"
	cfg.Database.MaxOpenConns = 4
	cfg.Database.MaxIdleConns = 1
	cfg.Database.ConnMaxLifetime = "30m"

	pc, err := postgresPoolConfig(cfg)
	require.NoError(t, err)
	assert.EqualValues(t, 4, pc.MaxConns)
	assert.EqualValues(t, 1, pc.MinConns)
	assert.Equal(t, 30*time.Minute, pc.MaxConnLifetime)
	assert.Equal(t, "db.internal", pc.ConnConfig.Host)

	cfg.Database.ConnMaxLifetime = "soon"
	_, err = postgresPoolConfig(cfg)
	assert.Error(t, err)
}
