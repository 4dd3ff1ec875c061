package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitacross/vitacross-api/internal/models"
	"github.com/vitacross/vitacross-api/internal/testutil"
)

type failingHandler struct{ slog.Handler }

func (failingHandler) Handle(context.Context, slog.Record) error { return errors.New("sink down") }

func TestMultiHandlerFansOut(t *testing.T) {
	var info, errOnly bytes.Buffer
	h := NewMultiHandler(
		slog.NewJSONHandler(&info, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewJSONHandler(&errOnly, &slog.HandlerOptions{Level: slog.LevelError}),
	)
	logger := slog.New(h).With("service", "api")

	logger.Info("started")
	logger.Error("boom", "error", "disk full")

	assert.Contains(t, info.String(), `"msg":"started"`)
	assert.Contains(t, info.String(), `"msg":"boom"`)
	assert.NotContains(t, errOnly.String(), "started")
	assert.Contains(t, errOnly.String(), `"service":"api"`)
}

func TestMultiHandlerKeepsGoingOnError(t *testing.T) {
	var buf bytes.Buffer
	text := slog.NewTextHandler(&buf, nil)
	h := NewMultiHandler(failingHandler{text}, text)

	err := h.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelInfo, "hello", 0))
	assert.Error(t, err)
	assert.Contains(t, buf.String(), "hello")
}

func TestDBHandlerFlushesErrors(t *testing.T) {
	db := testutil.NewDB(t)
	h := NewDBHandler(db)
	defer h.Stop()

	logger := slog.New(h).With("request_id", "req-1")
	assert.False(t, h.Enabled(context.Background(), slog.LevelWarn))

	logger.Error("upload failed",
		"path", "/api/consultations/1/files",
		"error", "storage timeout",
		"latency_ms", int64(42),
		"consultation_id", 1,
	)
	logger.WithGroup("mail").Error("send failed", "to", "staff")
	h.Flush()

	var logs []models.SystemLog
	require.NoError(t, db.Order("message").Find(&logs).Error)
	require.Len(t, logs, 2)

	sendFailed, uploadFailed := logs[0], logs[1]
	assert.Equal(t, "upload failed", uploadFailed.Message)
	assert.Equal(t, "ERROR", uploadFailed.Level)
	assert.Equal(t, "req-1", uploadFailed.RequestID)
	assert.Equal(t, "/api/consultations/1/files", uploadFailed.Path)
	assert.Equal(t, "storage timeout", uploadFailed.Error)
	assert.Equal(t, 42, uploadFailed.LatencyMs)

	var extra map[string]interface{}
	require.NoError(t, json.Unmarshal(uploadFailed.Extra, &extra))
	assert.EqualValues(t, 1, extra["consultation_id"])

	require.NoError(t, json.Unmarshal(sendFailed.Extra, &extra))
	assert.Equal(t, "staff", extra["mail.to"])
}

func TestPurgeOlderThan(t *testing.T) {
	db := testutil.NewDB(t)
	now := time.Now()
	require.NoError(t, db.Create(&[]models.SystemLog{
		{ID: uuid.New(), Timestamp: now.Add(-40 * 24 * time.Hour), Level: "ERROR", Message: "old"},
		{ID: uuid.New(), Timestamp: now, Level: "ERROR", Message: "fresh"},
	}).Error)

	assert.Equal(t, int64(1), PurgeOlderThan(db, now.Add(-retention)))

	var left []models.SystemLog
	require.NoError(t, db.Find(&left).Error)
	require.Len(t, left, 1)
	assert.Equal(t, "fresh", left[0].Message)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelInfo, parseLevel(""))
}
