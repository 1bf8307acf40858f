package service

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/skusdev/profile/internal/domain"
	"github.com/skusdev/profile/internal/roster"
)

// SourceFunc adapts a plain function to the MemberSource interface.
type SourceFunc func(ctx context.Context) ([]domain.Member, error)

func (f SourceFunc) Fetch(ctx context.Context) ([]domain.Member, error) {
	return f(ctx)
}

// Loader performs the one-time seed of the roster store from a member source.
// A failed fetch and an empty successful fetch are treated identically: both
// fall back to the built-in sample dataset, and neither is surfaced as an
// error to the operator.
type Loader struct {
	source domain.MemberSource
	repo   domain.MemberRepository
	closed atomic.Bool
}

// NewLoader creates a Loader. repo may be nil; when set, a fallback seed is
// also written through so the sample data survives a restart.
func NewLoader(source domain.MemberSource, repo domain.MemberRepository) *Loader {
	return &Loader{source: source, repo: repo}
}

// Close marks the loader as torn down. A fetch that resolves afterwards is
// discarded instead of seeding the store.
func (l *Loader) Close() {
	l.closed.Store(true)
}

// Seed fetches the initial record set and seeds the store with it, falling
// back to sample data on error or empty response. There is no retry: the
// fallback is the recovery.
func (l *Loader) Seed(ctx context.Context, store *roster.Store, now time.Time) {
	members, err := l.source.Fetch(ctx)
	fallback := false
	switch {
	case err != nil:
		slog.Warn("member source unavailable, seeding sample data", "error", err)
		fallback = true
	case len(members) == 0:
		slog.Info("member source empty, seeding sample data")
		fallback = true
	}
	if fallback {
		members = roster.SampleMembers(now)
	}

	if l.closed.Load() {
		slog.Debug("loader closed before fetch resolved, discarding data")
		return
	}

	store.Seed(members)
	slog.Info("roster seeded", "members", len(members), "fallback", fallback)

	if fallback && l.repo != nil {
		if err := l.repo.ReplaceAll(ctx, members); err != nil {
			slog.Error("persist sample seed", "error", err)
		}
	}
}
