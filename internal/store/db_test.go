package store

import (
	"testing"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-route-keeper/internal/logger"
)

func TestNewDB_PlaceholderFormat(t *testing.T) {
	tests := []struct {
		name       string
		driver     string
		classifier ErrorClassificator
		wantSQL    string
	}{
		{
			name:       "postgres uses dollar placeholders",
			driver:     DriverPostgres,
			classifier: NewPostgresErrorClassifier(),
			wantSQL:    "SELECT id FROM items WHERE id = $1 AND kind = $2",
		},
		{
			name:       "sqlite uses question placeholders",
			driver:     DriverSQLite,
			classifier: NewSQLiteErrorClassifier(),
			wantSQL:    "SELECT id FROM items WHERE id = ? AND kind = ?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := newDB(nil, tt.driver, tt.classifier, logger.Nop())

			query, args, err := db.builder.
				Select("id").
				From(itemsTable).
				Where(sq.Eq{"id": testItemID}).
				Where(sq.Eq{"kind": "note"}).
				ToSql()

			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, query)
			assert.Equal(t, []any{testItemID, "note"}, args)
			assert.Equal(t, tt.driver, db.Driver())
		})
	}
}
