package invites

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aura-invites/backend/internal/models"
	apperrors "github.com/aura-invites/backend/pkg/errors"
)

type memStore struct {
	mu   sync.Mutex
	byID map[uuid.UUID]models.Invitation
	err  error
}

func newMemStore() *memStore {
	return &memStore{byID: make(map[uuid.UUID]models.Invitation)}
}

func (m *memStore) GetBySlug(_ context.Context, slug string, publishedOnly bool) (*models.Invitation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, inv := range m.byID {
		if inv.Slug == slug && (inv.Published || !publishedOnly) {
			cp := inv
			return &cp, nil
		}
	}
	return nil, apperrors.NewNotFoundError("invitation", slug)
}

func (m *memStore) GetByID(_ context.Context, id uuid.UUID) (*models.Invitation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	inv, ok := m.byID[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("invitation", id.String())
	}
	return &inv, nil
}

func (m *memStore) slugTaken(slug string, except uuid.UUID) bool {
	for id, inv := range m.byID {
		if inv.Slug == slug && id != except {
			return true
		}
	}
	return false
}

func (m *memStore) Insert(_ context.Context, inv *models.Invitation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.slugTaken(inv.Slug, uuid.Nil) {
		return apperrors.NewValidationError("slug", "is already taken")
	}
	id := uuid.New()
	inv.ID = &id
	inv.CreatedAt = time.Now()
	inv.UpdatedAt = inv.CreatedAt
	m.byID[id] = *inv
	return nil
}

func (m *memStore) Replace(_ context.Context, inv *models.Invitation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	old, ok := m.byID[*inv.ID]
	if !ok {
		return apperrors.NewNotFoundError("invitation", inv.ID.String())
	}
	if m.slugTaken(inv.Slug, *inv.ID) {
		return apperrors.NewValidationError("slug", "is already taken")
	}
	inv.ViewCount = old.ViewCount
	inv.UpdatedAt = time.Now()
	m.byID[*inv.ID] = *inv
	return nil
}

func (m *memStore) ListByOwner(_ context.Context, owner *uuid.UUID) ([]models.Invitation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []models.Invitation
	for _, inv := range m.byID {
		if owner == nil || inv.OwnerID == *owner {
			out = append(out, inv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out, nil
}

func (m *memStore) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return apperrors.NewNotFoundError("invitation", id.String())
	}
	delete(m.byID, id)
	return nil
}

func (m *memStore) SlugExists(_ context.Context, slug string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	return m.slugTaken(slug, uuid.Nil), nil
}

func (m *memStore) URLReferenced(_ context.Context, url string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	for _, inv := range m.byID {
		if inv.HeroImageURL == url || inv.AudioURL == url {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) put(inv models.Invitation) models.Invitation {
	m.mu.Lock()
	defer m.mu.Unlock()
	if inv.ID == nil {
		id := uuid.New()
		inv.ID = &id
	}
	m.byID[*inv.ID] = inv
	return inv
}

type recordingCleaner struct {
	mu   sync.Mutex
	urls []string
}

func (r *recordingCleaner) EnqueueAssetCleanup(_ context.Context, url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.urls = append(r.urls, url)
	return nil
}

func (r *recordingCleaner) queued() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.urls...)
}

type chanViews struct {
	bumped chan uuid.UUID
}

func (c *chanViews) Increment(_ context.Context, id uuid.UUID) error {
	c.bumped <- id
	return nil
}

func (c *chanViews) Pending(context.Context, uuid.UUID) (int64, error) { return 0, nil }
