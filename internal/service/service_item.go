package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MKhiriev/go-route-keeper/internal/logger"
	"github.com/MKhiriev/go-route-keeper/internal/store"
	"github.com/MKhiriev/go-route-keeper/internal/utils"
	"github.com/MKhiriev/go-route-keeper/models"
)

// DefaultSearchLimit is the page size used when a search gives no limit.
const DefaultSearchLimit uint64 = 20

type itemService struct {
	repository store.ItemRepository

	newID func() string
	now   func() time.Time

	logger *logger.Logger
}

func NewItemService(repository store.ItemRepository, logger *logger.Logger) ItemService {
	return &itemService{
		repository: repository,
		newID:      utils.NewUUIDGenerator().Generate,
		now:        func() time.Time { return time.Now().UTC() },
		logger:     logger,
	}
}

func (s *itemService) GetItem(ctx context.Context, id string) (models.Item, error) {
	if id == "" {
		return models.Item{}, ErrValidationNoItemID
	}

	item, err := s.repository.GetItem(ctx, id)
	if err != nil {
		return models.Item{}, fmt.Errorf("error getting item %s: %w", id, err)
	}
	return item, nil
}

// SearchItems runs the page query and the count query concurrently.
func (s *itemService) SearchItems(ctx context.Context, filter models.ItemFilter) (models.ItemPage, error) {
	if filter.Limit == 0 {
		filter.Limit = DefaultSearchLimit
	}
	for _, kind := range filter.Kinds {
		if !slices.Contains(models.ItemKinds, kind) {
			return models.ItemPage{}, fmt.Errorf("%w: %q", ErrValidationBadKind, kind)
		}
	}

	var page models.ItemPage
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		items, err := s.repository.SearchItems(gctx, filter)
		page.Items = items
		return err
	})
	g.Go(func() error {
		total, err := s.repository.CountItems(gctx, filter)
		page.Total = total
		return err
	})
	if err := g.Wait(); err != nil {
		return models.ItemPage{}, fmt.Errorf("error searching items: %w", err)
	}

	logger.FromContextOr(ctx, s.logger).Debug().
		Int("hits", len(page.Items)).
		Int("total", page.Total).
		Msg("items searched")

	return page, nil
}

func (s *itemService) CreateItem(ctx context.Context, name string, kind models.ItemKind) (models.Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Item{}, ErrValidationNoItemName
	}
	if !slices.Contains(models.ItemKinds, kind) {
		return models.Item{}, fmt.Errorf("%w: %q", ErrValidationBadKind, kind)
	}

	item, err := s.repository.CreateItem(ctx, models.Item{
		ID:        s.newID(),
		Name:      name,
		Kind:      kind,
		CreatedAt: s.now(),
	})
	if err != nil {
		return models.Item{}, fmt.Errorf("error creating item: %w", err)
	}

	logger.FromContextOr(ctx, s.logger).Info().Str("id", item.ID).Str("kind", string(item.Kind)).Msg("item created")
	return item, nil
}
