package store

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-route-keeper/internal/inspect"
)

// statement is a built SQL statement labelled for the debug trace.
type statement struct {
	name  string
	query string
	args  []any
}

func buildStatement(name string, b sq.Sqlizer) (statement, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return statement{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return statement{name: name, query: query, args: args}, nil
}

// record appends st to the request's debug trace, if the request has one.
func (st statement) record(ctx context.Context, start time.Time, response any, err error) {
	entry := inspect.Entry{
		Name:      st.name,
		Operation: st.query,
		Request:   st.args,
		Response:  response,
		TookMs:    inspect.Since(start),
	}
	if err != nil {
		entry.Status = inspect.StatusFailure
		entry.Error = err.Error()
	}
	inspect.Record(ctx, entry)
}

// withRetry calls fn until it succeeds, fails with an error the classifier
// does not consider retryable, or runs out of attempts.
func (db *DB) withRetry(ctx context.Context, fn func() error) error {
	for attempt := 0; ; attempt++ {
		err := fn()
		if err == nil || attempt >= db.retries || db.errorClassificator == nil ||
			db.errorClassificator.Classify(err) != Retryable {
			return err
		}

		db.logger.Debug().Err(err).Int("attempt", attempt+1).Msg("retrying query")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(db.backoff * time.Duration(attempt+1)):
		}
	}
}
