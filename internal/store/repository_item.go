package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-route-keeper/internal/logger"
	"github.com/MKhiriev/go-route-keeper/models"
)

const itemsTable = "items"

var itemColumns = []string{"id", "name", "kind", "created_at"}

// itemRepository is the SQL implementation of [ItemRepository]. Every
// statement it runs is recorded in the request's debug trace.
type itemRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewItemRepository constructs an [ItemRepository] on top of db.
func NewItemRepository(db *DB, logger *logger.Logger) ItemRepository {
	logger.Debug().Msg("creating item repository")
	return &itemRepository{
		db:     db,
		logger: logger,
	}
}

// GetItem returns the item with the given id or [ErrItemNotFound].
func (r *itemRepository) GetItem(ctx context.Context, id string) (models.Item, error) {
	log := logger.FromContextOr(ctx, r.logger)

	st, err := buildStatement("get item by id",
		r.db.builder.Select(itemColumns...).From(itemsTable).Where(sq.Eq{"id": id}))
	if err != nil {
		log.Err(err).Str("func", "*itemRepository.GetItem").Msg("error building query")
		return models.Item{}, err
	}

	var item models.Item
	start := time.Now()
	err = r.db.withRetry(ctx, func() error {
		return r.db.QueryRowContext(ctx, st.query, st.args...).
			Scan(&item.ID, &item.Name, &item.Kind, &item.CreatedAt)
	})

	switch {
	case errors.Is(err, sql.ErrNoRows):
		st.record(ctx, start, rowsResponse(0), nil)
		return models.Item{}, ErrItemNotFound
	case err != nil:
		st.record(ctx, start, nil, err)
		log.Err(err).Str("func", "*itemRepository.GetItem").Str("id", id).Msg("error getting item")
		return models.Item{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	st.record(ctx, start, rowsResponse(1), nil)
	return item, nil
}

// SearchItems returns the items matching filter, newest first.
func (r *itemRepository) SearchItems(ctx context.Context, filter models.ItemFilter) ([]models.Item, error) {
	log := logger.FromContextOr(ctx, r.logger)

	query := applyItemFilter(r.db.builder.Select(itemColumns...).From(itemsTable), filter).
		OrderBy("created_at DESC", "id")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	st, err := buildStatement("search items", query)
	if err != nil {
		log.Err(err).Str("func", "*itemRepository.SearchItems").Msg("error building query")
		return nil, err
	}

	start := time.Now()
	var rows *sql.Rows
	err = r.db.withRetry(ctx, func() error {
		var qErr error
		rows, qErr = r.db.QueryContext(ctx, st.query, st.args...)
		return qErr
	})
	if err != nil {
		st.record(ctx, start, nil, err)
		log.Err(err).Str("func", "*itemRepository.SearchItems").Msg("error searching items")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	items := make([]models.Item, 0)
	for rows.Next() {
		var item models.Item
		if err = rows.Scan(&item.ID, &item.Name, &item.Kind, &item.CreatedAt); err != nil {
			break
		}
		items = append(items, item)
	}
	if err == nil {
		err = rows.Err()
	}
	if err != nil {
		st.record(ctx, start, rowsResponse(len(items)), err)
		log.Err(err).Str("func", "*itemRepository.SearchItems").Msg("error scanning items")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	st.record(ctx, start, rowsResponse(len(items)), nil)
	return items, nil
}

// CountItems returns the number of items matching filter, ignoring its limit.
func (r *itemRepository) CountItems(ctx context.Context, filter models.ItemFilter) (int, error) {
	log := logger.FromContextOr(ctx, r.logger)

	st, err := buildStatement("count items",
		applyItemFilter(r.db.builder.Select("COUNT(*)").From(itemsTable), filter))
	if err != nil {
		log.Err(err).Str("func", "*itemRepository.CountItems").Msg("error building query")
		return 0, err
	}

	var total int
	start := time.Now()
	err = r.db.withRetry(ctx, func() error {
		return r.db.QueryRowContext(ctx, st.query, st.args...).Scan(&total)
	})
	if err != nil {
		st.record(ctx, start, nil, err)
		log.Err(err).Str("func", "*itemRepository.CountItems").Msg("error counting items")
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	st.record(ctx, start, map[string]int{"total": total}, nil)
	return total, nil
}

// CreateItem inserts item as is. A duplicate name or id yields
// [ErrItemAlreadyExists].
func (r *itemRepository) CreateItem(ctx context.Context, item models.Item) (models.Item, error) {
	log := logger.FromContextOr(ctx, r.logger)

	st, err := buildStatement("create item",
		r.db.builder.Insert(itemsTable).
			Columns(itemColumns...).
			Values(item.ID, item.Name, string(item.Kind), item.CreatedAt))
	if err != nil {
		log.Err(err).Str("func", "*itemRepository.CreateItem").Msg("error building query")
		return models.Item{}, err
	}

	start := time.Now()
	result, err := r.db.ExecContext(ctx, st.query, st.args...)
	if err != nil {
		st.record(ctx, start, nil, err)
		if r.db.errorClassificator != nil && r.db.errorClassificator.IsUniqueViolation(err) {
			return models.Item{}, ErrItemAlreadyExists
		}
		log.Err(err).Str("func", "*itemRepository.CreateItem").Msg("error inserting item")
		return models.Item{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		// the driver cannot report affected rows; the insert itself succeeded
		st.record(ctx, start, nil, nil)
		return item, nil
	}
	if affected == 0 {
		st.record(ctx, start, rowsResponse(0), ErrItemNotSaved)
		log.Error().Str("func", "*itemRepository.CreateItem").Msg("item was not saved")
		return models.Item{}, ErrItemNotSaved
	}

	st.record(ctx, start, rowsResponse(int(affected)), nil)
	return item, nil
}

func applyItemFilter(q sq.SelectBuilder, filter models.ItemFilter) sq.SelectBuilder {
	if filter.Name != "" {
		q = q.Where(sq.Expr(`LOWER(name) LIKE ? ESCAPE '\'`, "%"+escapeLike(strings.ToLower(filter.Name))+"%"))
	}
	if len(filter.Kinds) > 0 {
		kinds := make([]string, 0, len(filter.Kinds))
		for _, k := range filter.Kinds {
			kinds = append(kinds, string(k))
		}
		q = q.Where(sq.Eq{"kind": kinds})
	}
	return q
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func rowsResponse(n int) map[string]int {
	return map[string]int{"rows": n}
}
