package persistence

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/profile-dashboard/internal/domain/profile"
	"github.com/khoahotran/profile-dashboard/pkg/apperror"
)

// MemoryProfileRepo is an in-process store for store.driver=memory and tests.
// Every read returns deep copies.
type MemoryProfileRepo struct {
	mu       sync.RWMutex
	profiles map[uuid.UUID]*profile.Profile
	// seq breaks created_at ties so ListAll order is insertion order.
	seq   map[uuid.UUID]int
	next  int
	clock func() time.Time
}

func NewMemoryProfileRepo() *MemoryProfileRepo {
	return &MemoryProfileRepo{
		profiles: make(map[uuid.UUID]*profile.Profile),
		seq:      make(map[uuid.UUID]int),
		clock:    func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the time source. Tests use it to control updated_at.
func (m *MemoryProfileRepo) WithClock(clock func() time.Time) *MemoryProfileRepo {
	m.clock = clock
	return m
}

func (m *MemoryProfileRepo) FindByEmail(_ context.Context, email string) (*profile.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.profiles {
		if p.Email == email {
			return p.Clone(), nil
		}
	}
	return nil, apperror.NewNotFound("profile", email)
}

func (m *MemoryProfileRepo) FindMostRecentlyUpdated(_ context.Context) (*profile.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var latest *profile.Profile
	for _, p := range m.profiles {
		if latest == nil ||
			p.UpdatedAt.After(latest.UpdatedAt) ||
			(p.UpdatedAt.Equal(latest.UpdatedAt) && m.seq[p.ID] > m.seq[latest.ID]) {
			latest = p
		}
	}
	if latest == nil {
		return nil, apperror.NewNotFound("profile", "most recent")
	}
	return latest.Clone(), nil
}

func (m *MemoryProfileRepo) ListAll(_ context.Context) ([]*profile.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*profile.Profile, 0, len(m.profiles))
	for _, p := range m.profiles {
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return m.seq[out[i].ID] < m.seq[out[j].ID]
	})
	return out, nil
}

func (m *MemoryProfileRepo) ListByProjectSkill(ctx context.Context, _ string) ([]*profile.Profile, error) {
	return m.ListAll(ctx)
}

func (m *MemoryProfileRepo) Save(_ context.Context, p *profile.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	for id, other := range m.profiles {
		if id != p.ID && other.Email == p.Email {
			return apperror.NewConflict("profile", "email", p.Email)
		}
	}

	now := m.clock()
	if existing, ok := m.profiles[p.ID]; ok {
		p.CreatedAt = existing.CreatedAt
	} else {
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now
		}
		m.next++
		m.seq[p.ID] = m.next
	}
	p.UpdatedAt = now
	p.Normalize()

	m.profiles[p.ID] = p.Clone()
	return nil
}

func (m *MemoryProfileRepo) Count(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.profiles), nil
}

type MemoryRevisionRepo struct {
	mu        sync.Mutex
	revisions map[string][]profile.Revision
}

func NewMemoryRevisionRepo() *MemoryRevisionRepo {
	return &MemoryRevisionRepo{revisions: make(map[string][]profile.Revision)}
}

func (m *MemoryRevisionRepo) Append(_ context.Context, rev profile.Revision) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rev.Snapshot = *rev.Snapshot.Clone()
	m.revisions[rev.Email] = append(m.revisions[rev.Email], rev)
	return nil
}

func (m *MemoryRevisionRepo) ListByEmail(_ context.Context, email string, limit int) ([]profile.Revision, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := m.revisions[email]
	out := make([]profile.Revision, 0, len(stored))
	for i := len(stored) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		out = append(out, stored[i])
	}
	return out, nil
}
