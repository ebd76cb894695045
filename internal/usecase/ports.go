package usecase

import (
	"context"

	"github.com/geocoder89/sewasanjal/internal/domain/availability"
	"github.com/geocoder89/sewasanjal/internal/domain/category"
	"github.com/geocoder89/sewasanjal/internal/domain/provider"
	"github.com/geocoder89/sewasanjal/internal/domain/service"
	"github.com/geocoder89/sewasanjal/internal/domain/user"
)

// Repositories are satisfied by both internal/repo/postgres and internal/repo/memory.

type UserRepository interface {
	Create(ctx context.Context, u user.User) (user.User, error)
	GetByID(ctx context.Context, id string) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	GetByPhone(ctx context.Context, phone string) (user.User, error)
	List(ctx context.Context) ([]user.User, error)
	Update(ctx context.Context, id string, ch user.Changes) (user.User, error)
	Delete(ctx context.Context, id string) error
}

type CategoryRepository interface {
	Create(ctx context.Context, c category.Category) (category.Category, error)
	GetByID(ctx context.Context, id string) (category.Category, error)
	GetBySlug(ctx context.Context, slug string) (category.Category, error)
	GetByName(ctx context.Context, name string) (category.Category, error)
	List(ctx context.Context) ([]category.Category, error)
}

type ProviderRepository interface {
	CreateWithPromotion(ctx context.Context, p provider.Provider, categoryIDs []string) (provider.Provider, error)
	GetByID(ctx context.Context, id string) (provider.Provider, error)
	GetByUserID(ctx context.Context, userID string) (provider.Provider, error)
	List(ctx context.Context, f provider.ListFilter) ([]provider.Provider, error)
	Update(ctx context.Context, p provider.Provider, categoryIDs []string) (provider.Provider, error)
	SetVerified(ctx context.Context, id string, verified bool) (provider.Provider, error)
	AddCategory(ctx context.Context, providerID, categoryID string) error
	RemoveCategory(ctx context.Context, providerID, categoryID string) error
}

type ServiceRepository interface {
	Create(ctx context.Context, s service.Service) (service.Service, error)
	GetByID(ctx context.Context, id string) (service.Service, error)
	List(ctx context.Context, f service.ListFilter) ([]service.Service, error)
	Update(ctx context.Context, s service.Service) (service.Service, error)
	Delete(ctx context.Context, id string) error
}

type AvailabilityRepository interface {
	Create(ctx context.Context, a availability.Availability) (availability.Availability, error)
	GetByID(ctx context.Context, id string) (availability.Availability, error)
	ListByProvider(ctx context.Context, providerID string) ([]availability.Availability, error)
	Update(ctx context.Context, a availability.Availability) (availability.Availability, error)
	Delete(ctx context.Context, id string) error
}
