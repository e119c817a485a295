package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/clientauth/clientauth/internal/auth"
	"github.com/clientauth/clientauth/internal/cache"
	"github.com/clientauth/clientauth/internal/metrics"
	"github.com/clientauth/clientauth/internal/model"
	"github.com/clientauth/clientauth/internal/repository"
)

// ClientService handles client profile business logic.
type ClientService struct {
	store    ClientStore
	cache    cache.Store
	cacheTTL time.Duration
	logger   *slog.Logger
	metrics  metrics.Recorder
}

// NewClientService creates a new ClientService.
// A zero cacheTTL caches profiles without expiry.
func NewClientService(store ClientStore, profiles cache.Store, cacheTTL time.Duration, logger *slog.Logger, recorder metrics.Recorder) *ClientService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ClientService{
		store:    store,
		cache:    profiles,
		cacheTTL: cacheTTL,
		logger:   logger,
		metrics:  recorder,
	}
}

// GetByID returns the client's profile, reading through the cache.
// Returns nil without error if no client has this ID.
func (s *ClientService) GetByID(ctx context.Context, id string) (*model.SafeClient, error) {
	key := cache.ClientKey(id)

	client, lookup, err := cache.GetOrCompute(ctx, s.cache, key, s.cacheTTL,
		func(ctx context.Context) (*model.SafeClient, error) {
			c, err := s.store.GetClientByID(ctx, id)
			if err != nil {
				if errors.Is(err, repository.ErrClientNotFound) {
					return nil, nil
				}
				return nil, err
			}
			return c.Safe(), nil
		},
	)

	if lookup.Hit {
		s.metrics.IncCacheHit()
	} else {
		s.metrics.IncCacheMiss()
	}
	if lookup.ReadErr != nil {
		s.metrics.IncCacheError("read")
		s.logger.WarnContext(ctx, "profile cache read failed",
			slog.String("key", key),
			slog.String("error", lookup.ReadErr.Error()),
		)
	}
	if lookup.WriteErr != nil {
		s.metrics.IncCacheError("write")
		s.logger.WarnContext(ctx, "profile cache write failed",
			slog.String("key", key),
			slog.String("error", lookup.WriteErr.Error()),
		)
	}

	if err != nil {
		return nil, classifyStoreError("get client", err)
	}
	return client, nil
}

// Create validates the input, hashes the password and stores a new client.
func (s *ClientService) Create(ctx context.Context, in model.NewClientInput) (*model.SafeClient, error) {
	if err := ValidateCreate(in); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}

	client, err := s.store.CreateClient(ctx, repository.NewClient{
		Email:     in.Email,
		Password:  hash,
		FirstName: in.FirstName,
		LastName:  in.LastName,
	})
	if err != nil {
		return nil, classifyStoreError("create client", err)
	}

	s.metrics.IncClientCreated()
	return client.Safe(), nil
}

// UpdateByID validates the input and applies it to the client.
// The password is never changed here. The cached profile is dropped on success.
// An update carrying no field writes nothing and returns the stored profile.
func (s *ClientService) UpdateByID(ctx context.Context, id string, in model.UpdateClientInput) (*model.SafeClient, error) {
	if err := ValidateUpdate(in); err != nil {
		return nil, err
	}
	if in.IsEmpty() {
		client, err := s.store.GetClientByID(ctx, id)
		if err != nil {
			return nil, classifyStoreError("update client", err)
		}
		return client.Safe(), nil
	}

	client, err := s.store.UpdateClient(ctx, id, repository.ClientUpdate{
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
	})
	if err != nil {
		return nil, classifyStoreError("update client", err)
	}

	key := cache.ClientKey(id)
	if err := s.cache.Delete(ctx, key); err != nil {
		s.metrics.IncCacheError("invalidate")
		s.logger.WarnContext(ctx, "profile cache invalidation failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}

	s.metrics.IncClientUpdated()
	return client.Safe(), nil
}
