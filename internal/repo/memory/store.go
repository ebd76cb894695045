package memory

import (
	"context"
	"sync"

	"github.com/geocoder89/sewasanjal/internal/domain/availability"
	"github.com/geocoder89/sewasanjal/internal/domain/category"
	"github.com/geocoder89/sewasanjal/internal/domain/provider"
	"github.com/geocoder89/sewasanjal/internal/domain/service"
	"github.com/geocoder89/sewasanjal/internal/domain/user"
)

// Store keeps every entity behind one lock so multi-entity writes are atomic.
type Store struct {
	mu sync.RWMutex

	users          map[string]user.User
	categories     map[string]category.Category
	providers      map[string]provider.Provider
	links          map[string]map[string]struct{} // providerID -> categoryIDs
	services       map[string]service.Service
	availabilities map[string]availability.Availability
}

func NewStore() *Store {
	return &Store{
		users:          make(map[string]user.User),
		categories:     make(map[string]category.Category),
		providers:      make(map[string]provider.Provider),
		links:          make(map[string]map[string]struct{}),
		services:       make(map[string]service.Service),
		availabilities: make(map[string]availability.Availability),
	}
}

func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

func (s *Store) Users() *UsersRepo                   { return &UsersRepo{s: s} }
func (s *Store) Categories() *CategoriesRepo         { return &CategoriesRepo{s: s} }
func (s *Store) Providers() *ProvidersRepo           { return &ProvidersRepo{s: s} }
func (s *Store) Services() *ServicesRepo             { return &ServicesRepo{s: s} }
func (s *Store) Availabilities() *AvailabilitiesRepo { return &AvailabilitiesRepo{s: s} }
