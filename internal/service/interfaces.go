package service

import (
	"context"

	"github.com/MKhiriev/go-route-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// ItemService is the business layer behind the item routes.
type ItemService interface {
	GetItem(ctx context.Context, id string) (models.Item, error)
	SearchItems(ctx context.Context, filter models.ItemFilter) (models.ItemPage, error)
	CreateItem(ctx context.Context, name string, kind models.ItemKind) (models.Item, error)
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}
