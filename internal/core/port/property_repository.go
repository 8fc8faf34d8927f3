package port

import (
	"context"
	"property-map/internal/core/domain"
)

// PropertyRepositoryPort - контракт для клиента REST-бэкенда с объектами.
// Любая ошибка транспорта или статус не 2xx оборачивает domain.ErrNetworkFailure.
type PropertyRepositoryPort interface {
	List(ctx context.Context) (*domain.ListingResponse, error)
	Search(ctx context.Context, criteria domain.FilterCriteria) (*domain.ListingResponse, error)
	Create(ctx context.Context, input domain.PropertyInput) (*domain.Property, error)
	Update(ctx context.Context, id domain.PropertyID, input domain.PropertyInput) (*domain.Property, error)
	Delete(ctx context.Context, id domain.PropertyID) error
}
