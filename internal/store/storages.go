package store

import "github.com/MKhiriev/go-route-keeper/internal/logger"

type Storages struct {
	ItemRepository ItemRepository
}

func NewStorages(db *DB, log *logger.Logger) *Storages {
	return &Storages{
		ItemRepository: NewItemRepository(db, log),
	}
}
