package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"candidate-registry/internal/model"
)

func TestAuditService_Log(t *testing.T) {
	var buf bytes.Buffer
	svc := NewAuditService(slog.New(slog.NewJSONHandler(&buf, nil)))
	svc.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }

	svc.Log(context.Background(), AuditActionCandidateDelete, model.AuditActor{UserID: 7, Email: "a@b.c", IP: "10.0.0.1"}, "candidate:9", errors.New("candidate not found"))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))

	assert.Equal(t, "audit", record["msg"])
	assert.Equal(t, "WARN", record["level"])
	assert.Equal(t, "audit", record["channel"])
	assert.Equal(t, "candidate.delete", record["action"])
	assert.Equal(t, float64(7), record["actor_user_id"])
	assert.Equal(t, "failure", record["status"])
	assert.Equal(t, "candidate:9", record["resource"])
	assert.Equal(t, "candidate not found", record["error"])
	assert.Equal(t, "2024-01-02T03:04:05Z", record["occurred_at"])
}

func TestAuditService_NilIsNoop(t *testing.T) {
	var svc *AuditService
	assert.NotPanics(t, func() {
		svc.Log(context.Background(), AuditActionCandidateCreate, model.AuditActor{}, "", nil)
	})
}
