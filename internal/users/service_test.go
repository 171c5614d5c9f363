package users

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"travelbook/internal/shared/constants"
	"travelbook/pkg/cache"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	mu      sync.Mutex
	users   map[uuid.UUID]*User
	saved   []SavedItem
	getHits int
	clock   time.Time
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users: map[uuid.UUID]*User{},
		clock: time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (f *fakeRepo) addUser(name string) *User {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := &User{ID: uuid.New(), Name: name, Email: name + "@example.com", Phone: "9000000001", Role: RoleUser}
	f.users[u.ID] = u
	return u
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getHits++
	u, ok := f.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeRepo) UpdateProfile(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*User, error) {
	f.mu.Lock()
	u, ok := f.users[id]
	if !ok {
		f.mu.Unlock()
		return nil, ErrUserNotFound
	}
	for k, v := range updates {
		switch k {
		case "name":
			u.Name = v.(string)
		case "phone":
			u.Phone = v.(string)
		case "avatar":
			u.Avatar = v.(string)
		}
	}
	f.mu.Unlock()
	return f.GetByID(ctx, id)
}

// AddSavedItem ignores duplicates like the ON CONFLICT insert
func (f *fakeRepo) AddSavedItem(_ context.Context, userID, itemID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, item := range f.saved {
		if item.UserID == userID && item.ItemID == itemID {
			return nil
		}
	}
	f.clock = f.clock.Add(time.Minute)
	f.saved = append(f.saved, SavedItem{UserID: userID, ItemID: itemID, CreatedAt: f.clock})
	return nil
}

func (f *fakeRepo) RemoveSavedItem(_ context.Context, userID, itemID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.saved[:0]
	for _, item := range f.saved {
		if item.UserID != userID || item.ItemID != itemID {
			kept = append(kept, item)
		}
	}
	f.saved = kept
	return nil
}

func (f *fakeRepo) ListSavedItems(_ context.Context, userID uuid.UUID) ([]SavedItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []SavedItem
	for _, item := range f.saved {
		if item.UserID == userID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// fakeDirectory is a destination catalog keyed by id
type fakeDirectory map[uuid.UUID]SavedPlace

func (d fakeDirectory) add(name string) SavedPlace {
	p := SavedPlace{ID: uuid.New(), Name: name, Country: "Nepal", Category: "mountain"}
	d[p.ID] = p
	return p
}

func (d fakeDirectory) PlaceExists(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := d[id]
	return ok, nil
}

func (d fakeDirectory) SavedPlaces(_ context.Context, ids []uuid.UUID) ([]SavedPlace, error) {
	var out []SavedPlace
	for _, id := range ids {
		if p, ok := d[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

type memCache struct {
	mu        sync.Mutex
	data      map[string][]byte
	deleteErr error
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}}
}

func (m *memCache) Get(_ context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.data[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = raw
	return nil
}

func (m *memCache) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *memCache) DeletePattern(context.Context, string) error { return nil }

func (m *memCache) Exists(_ context.Context, key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok
}

func (m *memCache) GetOrSet(ctx context.Context, key string, ttl time.Duration, fetcher func() (interface{}, error), dest interface{}) error {
	if err := m.Get(ctx, key, dest); err == nil {
		return nil
	}
	v, err := fetcher()
	if err != nil {
		return err
	}
	if err := m.Set(ctx, key, v, ttl); err != nil {
		return err
	}
	return m.Get(ctx, key, dest)
}

func (m *memCache) Ping(context.Context) error { return nil }

func strPtr(s string) *string { return &s }

func TestGetProfileIsCached(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, fakeDirectory{}, newMemCache())
	ctx := context.Background()
	u := repo.addUser("asha")

	first, err := svc.GetProfile(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "asha", first.Name)

	_, err = svc.GetProfile(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.getHits)

	_, err = svc.GetProfile(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateProfileDropsCachedProfile(t *testing.T) {
	repo := newFakeRepo()
	mc := newMemCache()
	svc := NewService(repo, fakeDirectory{}, mc)
	ctx := context.Background()
	u := repo.addUser("asha")

	_, err := svc.GetProfile(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, mc.Exists(ctx, constants.BuildUserProfileKey(u.ID.String())))

	updated, err := svc.UpdateProfile(ctx, u.ID, UpdateProfileRequest{Name: strPtr("  Asha Rao  ")})
	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", updated.Name)
	assert.False(t, mc.Exists(ctx, constants.BuildUserProfileKey(u.ID.String())))

	got, err := svc.GetProfile(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", got.Name)
}

func TestUpdateProfileSurvivesCacheFailure(t *testing.T) {
	repo := newFakeRepo()
	mc := newMemCache()
	mc.deleteErr = errors.New("redis down")
	svc := NewService(repo, fakeDirectory{}, mc)
	u := repo.addUser("asha")

	updated, err := svc.UpdateProfile(context.Background(), u.ID, UpdateProfileRequest{Phone: strPtr("9111111111")})
	require.NoError(t, err)
	assert.Equal(t, "9111111111", updated.Phone)
}

func TestUpdateProfileValidation(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, fakeDirectory{}, nil)
	ctx := context.Background()
	u := repo.addUser("asha")

	_, err := svc.UpdateProfile(ctx, u.ID, UpdateProfileRequest{Name: strPtr("   ")})
	assert.ErrorIs(t, err, ErrInvalidName)

	unchanged, err := svc.UpdateProfile(ctx, u.ID, UpdateProfileRequest{})
	require.NoError(t, err)
	assert.Equal(t, "asha", unchanged.Name)

	_, err = svc.UpdateProfile(ctx, uuid.New(), UpdateProfileRequest{Name: strPtr("Ghost")})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSavedItems(t *testing.T) {
	repo := newFakeRepo()
	dir := fakeDirectory{}
	svc := NewService(repo, dir, nil)
	ctx := context.Background()
	userID := uuid.New()

	lake := dir.add("Phewa Lake")
	beach := dir.add("Radhanagar Beach")

	empty, err := svc.ListSavedItems(ctx, userID)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	require.NoError(t, svc.SaveItem(ctx, userID, lake.ID))
	require.NoError(t, svc.SaveItem(ctx, userID, lake.ID), "saving twice is a no-op")
	require.NoError(t, svc.SaveItem(ctx, userID, beach.ID))

	err = svc.SaveItem(ctx, userID, uuid.New())
	assert.ErrorIs(t, err, ErrItemNotFound)

	saved, err := svc.ListSavedItems(ctx, userID)
	require.NoError(t, err)
	require.Len(t, saved, 2)
	assert.Equal(t, beach.ID, saved[0].ID, "newest first")
	assert.Equal(t, "Phewa Lake", saved[1].Name)

	// a place removed from the catalog drops out of the list
	delete(dir, beach.ID)
	saved, err = svc.ListSavedItems(ctx, userID)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, lake.ID, saved[0].ID)

	require.NoError(t, svc.UnsaveItem(ctx, userID, lake.ID))
	saved, err = svc.ListSavedItems(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, saved)
}
