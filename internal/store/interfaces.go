package store

import (
	"context"

	"github.com/MKhiriev/go-route-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// ItemRepository persists items.
type ItemRepository interface {
	GetItem(ctx context.Context, id string) (models.Item, error)
	SearchItems(ctx context.Context, filter models.ItemFilter) ([]models.Item, error)
	CountItems(ctx context.Context, filter models.ItemFilter) (int, error)
	CreateItem(ctx context.Context, item models.Item) (models.Item, error)
}

// ErrorClassificator interprets driver errors.
type ErrorClassificator interface {
	// Classify reports whether the failed operation may be retried.
	Classify(err error) ErrorClassification

	// IsUniqueViolation reports whether err is a unique constraint failure.
	IsUniqueViolation(err error) bool
}
