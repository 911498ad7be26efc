package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"candidate-registry/internal/model"
	"candidate-registry/pkg/apierror"
)

type CandidateStore interface {
	List(ctx context.Context) ([]model.Candidate, error)
	Get(ctx context.Context, id int64) (model.Candidate, error)
	Create(ctx context.Context, in model.CandidateInput, createdAt time.Time) (model.Candidate, error)
	Update(ctx context.Context, id int64, in model.CandidateInput) (model.Candidate, error)
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, query string) ([]model.Candidate, error)
}

type CandidateService struct {
	store CandidateStore
	audit *AuditService
	now   func() time.Time
}

func NewCandidateService(store CandidateStore, audit *AuditService) *CandidateService {
	return &CandidateService{store: store, audit: audit, now: time.Now}
}

func (s *CandidateService) List(ctx context.Context) ([]model.Candidate, error) {
	return s.store.List(ctx)
}

func (s *CandidateService) Get(ctx context.Context, id int64) (model.Candidate, error) {
	if id <= 0 {
		return model.Candidate{}, model.ErrCandidateNotFound
	}
	return s.store.Get(ctx, id)
}

func (s *CandidateService) Create(ctx context.Context, actor model.AuditActor, in model.CandidateInput) (model.Candidate, error) {
	in, err := normalizeCandidate(in)
	if err != nil {
		return model.Candidate{}, err
	}

	created, err := s.store.Create(ctx, in, s.now().UTC())
	resource := ""
	if err == nil {
		resource = candidateResource(created.ID)
	}
	s.audit.Log(ctx, AuditActionCandidateCreate, actor, resource, err)

	return created, err
}

// Update replaces every writable field of the candidate. Omitted optional fields become null.
func (s *CandidateService) Update(ctx context.Context, actor model.AuditActor, id int64, in model.CandidateInput) (model.Candidate, error) {
	if id <= 0 {
		return model.Candidate{}, model.ErrCandidateNotFound
	}

	in, err := normalizeCandidate(in)
	if err != nil {
		return model.Candidate{}, err
	}

	updated, err := s.store.Update(ctx, id, in)
	s.audit.Log(ctx, AuditActionCandidateUpdate, actor, candidateResource(id), err)

	return updated, err
}

func (s *CandidateService) Delete(ctx context.Context, actor model.AuditActor, id int64) error {
	if id <= 0 {
		return model.ErrCandidateNotFound
	}

	err := s.store.Delete(ctx, id)
	s.audit.Log(ctx, AuditActionCandidateDelete, actor, candidateResource(id), err)

	return err
}

func (s *CandidateService) Search(ctx context.Context, query string) ([]model.Candidate, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apierror.BadRequest(model.ErrInvalidInput, "Search query is required")
	}
	return s.store.Search(ctx, query)
}

func normalizeCandidate(in model.CandidateInput) (model.CandidateInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)

	if in.Name == "" || in.Email == "" {
		return in, apierror.BadRequest(model.ErrInvalidInput, "Name and email are required")
	}
	if in.ExperienceYears != nil && *in.ExperienceYears < 0 {
		return in, apierror.BadRequest(model.ErrInvalidInput, "Experience years cannot be negative")
	}

	return in, nil
}

func candidateResource(id int64) string {
	return "candidate:" + strconv.FormatInt(id, 10)
}
