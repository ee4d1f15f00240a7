package store

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MKhiriev/go-route-keeper/internal/config"
	"github.com/MKhiriev/go-route-keeper/internal/inspect"
	"github.com/MKhiriev/go-route-keeper/internal/logger"
	"github.com/MKhiriev/go-route-keeper/models"
)

const testItemID = "01928c7e-8d3a-7c1e-9b4f-2a6d1e0f3c5b"

func newTestItemRepo(t *testing.T) (*itemRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	l := logger.Nop()
	wrapped := newDB(db, DriverPostgres, NewPostgresErrorClassifier(), l)
	wrapped.backoff = time.Millisecond

	repo := &itemRepository{
		db:     wrapped,
		logger: l,
	}
	return repo, mock, db
}

func pgError(code string) error {
	return &pgconn.PgError{Code: code}
}

func inspectedContext() (context.Context, *inspect.Trace) {
	trace := inspect.NewTrace("test")
	trace.Enable()
	return inspect.NewContext(context.Background(), trace), trace
}

func itemRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "kind", "created_at"})
}

func TestGetItem_Success(t *testing.T) {
	repo, mock, db := newTestItemRepo(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, kind, created_at FROM items WHERE id = $1")).
		WithArgs(testItemID).
		WillReturnRows(itemRows().AddRow(testItemID, "groceries", "note", now))

	ctx, trace := inspectedContext()
	item, err := repo.GetItem(ctx, testItemID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.Name != "groceries" || item.Kind != models.KindNote {
		t.Errorf("unexpected item: %+v", item)
	}

	entries := trace.Entries()
	if len(entries) != 1 {
		t.Fatalf("expected 1 trace entry, got %d", len(entries))
	}
	if entries[0].Name != "get item by id" || entries[0].Status != inspect.StatusSuccess {
		t.Errorf("unexpected trace entry: %+v", entries[0])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestGetItem_NotFound(t *testing.T) {
	repo, mock, db := newTestItemRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM items").
		WithArgs(testItemID).
		WillReturnRows(itemRows())

	_, err := repo.GetItem(context.Background(), testItemID)
	if !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
}

func TestGetItem_RetriesTransientError(t *testing.T) {
	repo, mock, db := newTestItemRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM items").
		WillReturnError(pgError(pgerrcode.SerializationFailure))
	mock.ExpectQuery("SELECT (.+) FROM items").
		WillReturnRows(itemRows().AddRow(testItemID, "groceries", "note", time.Now()))

	if _, err := repo.GetItem(context.Background(), testItemID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestGetItem_NonRetryableError(t *testing.T) {
	repo, mock, db := newTestItemRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM items").
		WillReturnError(pgError(pgerrcode.UndefinedTable))

	ctx, trace := inspectedContext()
	_, err := repo.GetItem(ctx, testItemID)
	if !errors.Is(err, ErrExecutingQuery) {
		t.Fatalf("expected ErrExecutingQuery, got %v", err)
	}

	entries := trace.Entries()
	if len(entries) != 1 || entries[0].Status != inspect.StatusFailure || entries[0].Error == "" {
		t.Errorf("expected one failed trace entry, got %+v", entries)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestGetItem_CancelledContext(t *testing.T) {
	repo, mock, db := newTestItemRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM items").
		WillReturnError(context.Canceled)

	_, err := repo.GetItem(context.Background(), testItemID)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled to be preserved, got %v", err)
	}
}

func TestSearchItems_Filter(t *testing.T) {
	repo, mock, db := newTestItemRepo(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT id, name, kind, created_at FROM items WHERE LOWER(name) LIKE $1 ESCAPE '\' AND kind IN ($2,$3) ORDER BY created_at DESC, id LIMIT 5`)).
		WithArgs(`%50\%%`, "note", "card").
		WillReturnRows(itemRows().
			AddRow(testItemID, "50% off", "note", time.Now()).
			AddRow("01928c7e-8d3a-7c1e-9b4f-2a6d1e0f3c5c", "50% more", "card", time.Now()))

	items, err := repo.SearchItems(context.Background(), models.ItemFilter{
		Name:  "50%",
		Kinds: []models.ItemKind{models.KindNote, models.KindCard},
		Limit: 5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("expected 2 items, got %d", len(items))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestSearchItems_NoFilter(t *testing.T) {
	repo, mock, db := newTestItemRepo(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, kind, created_at FROM items ORDER BY created_at DESC, id`)).
		WillReturnRows(itemRows())

	items, err := repo.SearchItems(context.Background(), models.ItemFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Errorf("expected an empty, non-nil slice, got %#v", items)
	}
}

func TestSearchItems_ScanError(t *testing.T) {
	repo, mock, db := newTestItemRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM items").
		WillReturnRows(itemRows().AddRow(testItemID, "groceries", "note", "not a time"))

	_, err := repo.SearchItems(context.Background(), models.ItemFilter{})
	if !errors.Is(err, ErrScanningRows) {
		t.Fatalf("expected ErrScanningRows, got %v", err)
	}
}

func TestCountItems(t *testing.T) {
	repo, mock, db := newTestItemRepo(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM items WHERE kind IN ($1)`)).
		WithArgs("login").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	ctx, trace := inspectedContext()
	total, err := repo.CountItems(ctx, models.ItemFilter{Kinds: []models.ItemKind{models.KindLogin}, Limit: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 7 {
		t.Errorf("expected total 7, got %d", total)
	}
	if trace.Len() != 1 {
		t.Errorf("expected 1 trace entry, got %d", trace.Len())
	}
}

func TestCreateItem_Success(t *testing.T) {
	repo, mock, db := newTestItemRepo(t)
	defer db.Close()

	item := models.Item{ID: testItemID, Name: "groceries", Kind: models.KindNote, CreatedAt: time.Now()}

	mock.ExpectExec("INSERT INTO items").
		WithArgs(item.ID, item.Name, "note", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	created, err := repo.CreateItem(context.Background(), item)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID != item.ID {
		t.Errorf("expected id %s, got %s", item.ID, created.ID)
	}
}

func TestCreateItem_UniqueViolation(t *testing.T) {
	repo, mock, db := newTestItemRepo(t)
	defer db.Close()

	mock.ExpectExec("INSERT INTO items").
		WillReturnError(pgError(pgerrcode.UniqueViolation))

	_, err := repo.CreateItem(context.Background(), models.Item{ID: testItemID, Name: "groceries", Kind: models.KindNote})
	if !errors.Is(err, ErrItemAlreadyExists) {
		t.Fatalf("expected ErrItemAlreadyExists, got %v", err)
	}
}

func TestCreateItem_NotSaved(t *testing.T) {
	repo, mock, db := newTestItemRepo(t)
	defer db.Close()

	mock.ExpectExec("INSERT INTO items").
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := repo.CreateItem(context.Background(), models.Item{ID: testItemID, Name: "groceries", Kind: models.KindNote})
	if !errors.Is(err, ErrItemNotSaved) {
		t.Fatalf("expected ErrItemNotSaved, got %v", err)
	}
}

func TestEscapeLike(t *testing.T) {
	tests := map[string]string{
		"plain":    "plain",
		"50%":      `50\%`,
		"a_b":      `a\_b`,
		`back\url`: `back\\url`,
	}
	for in, want := range tests {
		if got := escapeLike(in); got != want {
			t.Errorf("escapeLike(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestItemRepository_SQLite(t *testing.T) {
	ctx := context.Background()

	db, err := NewConnection(ctx, config.DB{Driver: DriverSQLite, DSN: ":memory:"}, logger.Nop())
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	repo := NewItemRepository(db, logger.Nop())

	base := time.Now().UTC().Truncate(time.Second)
	seed := []models.Item{
		{ID: "01928c7e-0000-7000-8000-000000000001", Name: "50% off", Kind: models.KindNote, CreatedAt: base},
		{ID: "01928c7e-0000-7000-8000-000000000002", Name: "500 Offers", Kind: models.KindCard, CreatedAt: base.Add(time.Second)},
		{ID: "01928c7e-0000-7000-8000-000000000003", Name: "bank login", Kind: models.KindLogin, CreatedAt: base.Add(2 * time.Second)},
	}
	for _, item := range seed {
		if _, err := repo.CreateItem(ctx, item); err != nil {
			t.Fatalf("failed to create %q: %v", item.Name, err)
		}
	}

	dup := seed[0]
	dup.ID = "01928c7e-0000-7000-8000-000000000004"
	if _, err := repo.CreateItem(ctx, dup); !errors.Is(err, ErrItemAlreadyExists) {
		t.Fatalf("expected ErrItemAlreadyExists, got %v", err)
	}

	got, err := repo.GetItem(ctx, seed[1].ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != seed[1].Name || !got.CreatedAt.Equal(seed[1].CreatedAt) {
		t.Errorf("unexpected item: %+v", got)
	}

	if _, err := repo.GetItem(ctx, "missing"); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}

	// "%" is matched literally
	items, err := repo.SearchItems(ctx, models.ItemFilter{Name: "50%"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].ID != seed[0].ID {
		t.Errorf("expected only %q, got %+v", seed[0].Name, items)
	}

	items, err = repo.SearchItems(ctx, models.ItemFilter{Name: "OFF"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 || items[0].ID != seed[1].ID {
		t.Errorf("expected newest first, got %+v", items)
	}

	items, err = repo.SearchItems(ctx, models.ItemFilter{Kinds: []models.ItemKind{models.KindLogin, models.KindCard}, Limit: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].ID != seed[2].ID {
		t.Errorf("unexpected page: %+v", items)
	}

	total, err := repo.CountItems(ctx, models.ItemFilter{Kinds: []models.ItemKind{models.KindLogin, models.KindCard}, Limit: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 {
		t.Errorf("expected total 2, got %d", total)
	}
}
