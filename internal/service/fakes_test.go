package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/clientauth/clientauth/internal/cache"
	"github.com/clientauth/clientauth/internal/model"
	"github.com/clientauth/clientauth/internal/repository"
)

// fakeStore is an in-memory ClientStore enforcing email uniqueness.
type fakeStore struct {
	mu      sync.Mutex
	clients map[string]*model.Client
	nextID  int
	err     error // returned by every call when set
	reads   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{clients: map[string]*model.Client{}}
}

func (f *fakeStore) CreateClient(_ context.Context, in repository.NewClient) (*model.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, c := range f.clients {
		if c.Email == in.Email {
			return nil, repository.ErrEmailExists
		}
	}
	f.nextID++
	now := time.Date(2024, 1, 1, 0, 0, f.nextID, 0, time.UTC)
	c := &model.Client{
		ID:        fmt.Sprintf("client-%d", f.nextID),
		Email:     in.Email,
		Password:  in.Password,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.clients[c.ID] = c
	cp := *c
	return &cp, nil
}

func (f *fakeStore) GetClientByID(_ context.Context, id string) (*model.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	if f.err != nil {
		return nil, f.err
	}
	c, ok := f.clients[id]
	if !ok {
		return nil, repository.ErrClientNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeStore) GetClientByEmail(_ context.Context, email string) (*model.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, c := range f.clients {
		if c.Email == email {
			cp := *c
			return &cp, nil
		}
	}
	return nil, repository.ErrClientNotFound
}

func (f *fakeStore) UpdateClient(_ context.Context, id string, upd repository.ClientUpdate) (*model.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	c, ok := f.clients[id]
	if !ok {
		return nil, repository.ErrClientNotFound
	}
	if upd.Email != nil {
		for otherID, other := range f.clients {
			if otherID != id && other.Email == *upd.Email {
				return nil, repository.ErrEmailExists
			}
		}
		c.Email = *upd.Email
	}
	if upd.FirstName != nil {
		c.FirstName = upd.FirstName
	}
	if upd.LastName != nil {
		c.LastName = upd.LastName
	}
	c.UpdatedAt = c.UpdatedAt.Add(time.Minute)
	cp := *c
	return &cp, nil
}

// fakeCache is an in-memory cache.Store.
type fakeCache struct {
	mu     sync.Mutex
	data   map[string][]byte
	down   bool
	hits   int
	writes int
}

var errCacheDown = errors.New("dial tcp 127.0.0.1:6379: connect: connection refused")

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string][]byte{}}
}

func (f *fakeCache) Get(_ context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return nil, errCacheDown
	}
	v, ok := f.data[key]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	f.hits++
	return v, nil
}

func (f *fakeCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return errCacheDown
	}
	f.writes++
	f.data[key] = value
	return nil
}

func (f *fakeCache) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return errCacheDown
	}
	delete(f.data, key)
	return nil
}

// fakeSigner records issued payloads.
type fakeSigner struct {
	err    error
	issued []*model.SafeClient
}

func (f *fakeSigner) Issue(client *model.SafeClient) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.issued = append(f.issued, client)
	return "token-for-" + client.ID, nil
}

func strPtr(s string) *string { return &s }
