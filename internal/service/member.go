package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/skusdev/profile/internal/domain"
	"github.com/skusdev/profile/internal/roster"
)

var mutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "profile_member_mutations_total",
	Help: "Member mutations applied to the roster store, by operation.",
}, []string{"op"})

// MemberService orchestrates CRUD intents against the roster store. Every
// mutation validates its input first, applies to the in-memory store, then
// mirrors to the durable repository best-effort. Store listeners fire inside
// the store mutation, so views and aggregates are recomputed before the next
// read.
type MemberService struct {
	store *roster.Store
	repo  domain.MemberRepository
}

// NewMemberService creates a MemberService. repo may be nil when running
// without durable storage (tests, ephemeral mode).
func NewMemberService(store *roster.Store, repo domain.MemberRepository) *MemberService {
	return &MemberService{store: store, repo: repo}
}

// Store exposes the underlying roster store for read-only projections.
func (s *MemberService) Store() *roster.Store {
	return s.store
}

// AddMember validates the input, inserts it with a store-assigned id, and
// returns the stored record.
func (s *MemberService) AddMember(ctx context.Context, in domain.MemberInput) (domain.Member, error) {
	if err := validateInput(&in); err != nil {
		return domain.Member{}, err
	}
	if in.CreatedAt.IsZero() {
		in.CreatedAt = time.Now().UTC()
	}
	m := s.store.Insert(in)
	mutationsTotal.WithLabelValues("add").Inc()
	if s.repo != nil {
		if err := s.repo.Insert(ctx, &m); err != nil {
			slog.Error("mirror member insert", "id", m.ID, "error", err)
		}
	}
	return m, nil
}

// EditMember merges the patch over the existing record.
func (s *MemberService) EditMember(ctx context.Context, id int64, patch domain.MemberPatch) (domain.Member, error) {
	if err := validatePatch(&patch); err != nil {
		return domain.Member{}, err
	}
	m, err := s.store.Update(id, patch)
	if err != nil {
		return domain.Member{}, err
	}
	mutationsTotal.WithLabelValues("edit").Inc()
	if s.repo != nil {
		if err := s.repo.Update(ctx, &m); err != nil {
			slog.Error("mirror member update", "id", m.ID, "error", err)
		}
	}
	return m, nil
}

// DeleteMember removes one record and drops it from the selection.
func (s *MemberService) DeleteMember(ctx context.Context, id int64, sel *roster.Selection) error {
	if err := s.store.Delete(id); err != nil {
		return err
	}
	mutationsTotal.WithLabelValues("delete").Inc()
	if sel != nil {
		sel.Prune(s.store.Contains)
	}
	if s.repo != nil {
		if err := s.repo.Delete(ctx, id); err != nil {
			slog.Error("mirror member delete", "id", id, "error", err)
		}
	}
	return nil
}

// BulkDeleteSelected removes every selected record, best-effort, and clears
// the selection. Returns the number of records removed.
func (s *MemberService) BulkDeleteSelected(ctx context.Context, sel *roster.Selection) int {
	ids := sel.IDs()
	removed := s.store.BulkDelete(ids)
	if removed > 0 {
		mutationsTotal.WithLabelValues("bulk_delete").Add(float64(removed))
	}
	sel.Clear()
	if s.repo != nil && len(ids) > 0 {
		if err := s.repo.DeleteMany(ctx, ids); err != nil {
			slog.Error("mirror bulk delete", "count", len(ids), "error", err)
		}
	}
	return removed
}

// BulkDelete removes the given ids directly, for callers that do not go
// through a selection. Unknown ids are ignored.
func (s *MemberService) BulkDelete(ctx context.Context, ids []int64) int {
	removed := s.store.BulkDelete(ids)
	if removed > 0 {
		mutationsTotal.WithLabelValues("bulk_delete").Add(float64(removed))
	}
	if s.repo != nil && len(ids) > 0 {
		if err := s.repo.DeleteMany(ctx, ids); err != nil {
			slog.Error("mirror bulk delete", "count", len(ids), "error", err)
		}
	}
	return removed
}

// AssignTag adds a tag from the fixed vocabulary to a member.
func (s *MemberService) AssignTag(ctx context.Context, id int64, tag string) (domain.Member, error) {
	if !domain.ValidTag(tag) {
		return domain.Member{}, fmt.Errorf("%w: unknown tag %q", domain.ErrInvalidInput, tag)
	}
	m, err := s.store.AddTag(id, tag)
	if err != nil {
		return domain.Member{}, err
	}
	mutationsTotal.WithLabelValues("tag").Inc()
	s.mirrorUpdate(ctx, &m)
	return m, nil
}

// RemoveTag removes a tag from a member.
func (s *MemberService) RemoveTag(ctx context.Context, id int64, tag string) (domain.Member, error) {
	m, err := s.store.RemoveTag(id, tag)
	if err != nil {
		return domain.Member{}, err
	}
	mutationsTotal.WithLabelValues("untag").Inc()
	s.mirrorUpdate(ctx, &m)
	return m, nil
}

func (s *MemberService) mirrorUpdate(ctx context.Context, m *domain.Member) {
	if s.repo == nil {
		return
	}
	if err := s.repo.Update(ctx, m); err != nil {
		slog.Error("mirror member update", "id", m.ID, "error", err)
	}
}

func validateInput(in *domain.MemberInput) error {
	if in.FirstName == "" {
		return fmt.Errorf("%w: first name is required", domain.ErrInvalidInput)
	}
	if in.LastName == "" {
		return fmt.Errorf("%w: last name is required", domain.ErrInvalidInput)
	}
	if in.Email == "" {
		return fmt.Errorf("%w: email is required", domain.ErrInvalidInput)
	}
	if !domain.ValidGender(in.Gender) {
		return fmt.Errorf("%w: gender must be Male or Female", domain.ErrInvalidInput)
	}
	if !domain.ValidDistrict(in.District) {
		return fmt.Errorf("%w: unknown district %q", domain.ErrInvalidInput, in.District)
	}
	if in.Age < 0 {
		return fmt.Errorf("%w: age must not be negative", domain.ErrInvalidInput)
	}
	if in.Contributions < 0 {
		return fmt.Errorf("%w: contributions must not be negative", domain.ErrInvalidInput)
	}
	for _, t := range in.Tags {
		if !domain.ValidTag(t) {
			return fmt.Errorf("%w: unknown tag %q", domain.ErrInvalidInput, t)
		}
	}
	return nil
}

func validatePatch(p *domain.MemberPatch) error {
	if p.FirstName != nil && *p.FirstName == "" {
		return fmt.Errorf("%w: first name must not be empty", domain.ErrInvalidInput)
	}
	if p.LastName != nil && *p.LastName == "" {
		return fmt.Errorf("%w: last name must not be empty", domain.ErrInvalidInput)
	}
	if p.Email != nil && *p.Email == "" {
		return fmt.Errorf("%w: email must not be empty", domain.ErrInvalidInput)
	}
	if p.Gender != nil && !domain.ValidGender(*p.Gender) {
		return fmt.Errorf("%w: gender must be Male or Female", domain.ErrInvalidInput)
	}
	if p.District != nil && !domain.ValidDistrict(*p.District) {
		return fmt.Errorf("%w: unknown district %q", domain.ErrInvalidInput, *p.District)
	}
	if p.Age != nil && *p.Age < 0 {
		return fmt.Errorf("%w: age must not be negative", domain.ErrInvalidInput)
	}
	if p.Contributions != nil && *p.Contributions < 0 {
		return fmt.Errorf("%w: contributions must not be negative", domain.ErrInvalidInput)
	}
	if p.Tags != nil {
		for _, t := range *p.Tags {
			if !domain.ValidTag(t) {
				return fmt.Errorf("%w: unknown tag %q", domain.ErrInvalidInput, t)
			}
		}
	}
	return nil
}
