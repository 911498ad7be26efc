package service

import (
	"context"
	"log/slog"
	"time"

	"candidate-registry/internal/model"
)

const (
	AuditActionCandidateCreate = "candidate.create"
	AuditActionCandidateUpdate = "candidate.update"
	AuditActionCandidateDelete = "candidate.delete"
	AuditActionUserRegister    = "user.register"

	AuditStatusSuccess = "success"
	AuditStatusFailure = "failure"
)

// AuditService records mutations as structured log entries on the "audit" channel.
type AuditService struct {
	logger *slog.Logger
	now    func() time.Time
}

func NewAuditService(logger *slog.Logger) *AuditService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditService{logger: logger.With("channel", "audit"), now: time.Now}
}

func (s *AuditService) Log(ctx context.Context, action string, actor model.AuditActor, resource string, err error) {
	if s == nil {
		return
	}

	entry := model.AuditEntry{
		Action:     action,
		OccurredAt: s.now().UTC().Format(time.RFC3339Nano),
		Actor:      actor,
		Status:     AuditStatusSuccess,
		Resource:   resource,
	}
	level := slog.LevelInfo
	if err != nil {
		entry.Status = AuditStatusFailure
		entry.Error = err.Error()
		level = slog.LevelWarn
	}

	attrs := []slog.Attr{
		slog.String("action", entry.Action),
		slog.String("occurred_at", entry.OccurredAt),
		slog.Int64("actor_user_id", entry.Actor.UserID),
		slog.String("actor_email", entry.Actor.Email),
		slog.String("actor_ip", entry.Actor.IP),
		slog.String("status", entry.Status),
		slog.String("resource", entry.Resource),
	}
	if entry.Error != "" {
		attrs = append(attrs, slog.String("error", entry.Error))
	}

	s.logger.LogAttrs(ctx, level, "audit", attrs...)
}
