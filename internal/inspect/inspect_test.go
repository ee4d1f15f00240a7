package inspect

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- Trace ----

func TestTrace_DisabledDropsEntries(t *testing.T) {
	tr := NewTrace("k")

	tr.Add(Entry{Name: "query"})

	assert.False(t, tr.Enabled())
	assert.Equal(t, 0, tr.Len())
}

func TestTrace_EnabledKeepsOrderAndAssignsIDs(t *testing.T) {
	tr := NewTrace("k")
	tr.Enable()

	tr.Add(Entry{Name: "first"})
	tr.Add(Entry{Name: "second", ID: "custom"})
	tr.Add(Entry{Name: "third", Status: StatusFailure})

	entries := tr.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "first", entries[0].Name)
	assert.Equal(t, "1", entries[0].ID)
	assert.Equal(t, StatusSuccess, entries[0].Status)
	assert.Equal(t, "custom", entries[1].ID)
	assert.Equal(t, StatusFailure, entries[2].Status)
}

func TestTrace_EntriesReturnsCopy(t *testing.T) {
	tr := NewTrace("k")
	tr.Enable()
	tr.Add(Entry{Name: "a"})

	entries := tr.Entries()
	entries[0].Name = "mutated"

	assert.Equal(t, "a", tr.Entries()[0].Name)
}

func TestTrace_EmptyEntriesEncodeAsArray(t *testing.T) {
	for name, tr := range map[string]*Trace{
		"fresh": NewTrace("k"),
		"nil":   nil,
	} {
		t.Run(name, func(t *testing.T) {
			b, err := json.Marshal(tr.Entries())
			require.NoError(t, err)
			assert.JSONEq(t, `[]`, string(b))
		})
	}
}

func TestTrace_NilIsSafe(t *testing.T) {
	var tr *Trace

	assert.NotPanics(t, func() {
		tr.Enable()
		tr.Add(Entry{Name: "x"})
	})
	assert.False(t, tr.Enabled())
	assert.Equal(t, "", tr.Key())
	assert.Equal(t, 0, tr.Len())
}

func TestTrace_ConcurrentAdd(t *testing.T) {
	tr := NewTrace("k")
	tr.Enable()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tr.Add(Entry{Name: "q"})
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, tr.Len())
}

// ---- context ----

func TestRecord_WithoutTraceIsNoop(t *testing.T) {
	ctx := context.Background()

	assert.NotPanics(t, func() { Record(ctx, Entry{Name: "x"}) })
	assert.Nil(t, FromContext(ctx))
	assert.False(t, Enabled(ctx))
}

func TestRecord_AppendsToContextTrace(t *testing.T) {
	tr := NewTrace("k")
	tr.Enable()
	ctx := NewContext(context.Background(), tr)

	Record(ctx, Entry{Name: "select items"})

	assert.Same(t, tr, FromContext(ctx))
	assert.True(t, Enabled(ctx))
	require.Equal(t, 1, tr.Len())
	assert.Equal(t, "select items", tr.Entries()[0].Name)
}

// ---- Registry ----

func TestRegistry_OpenAndRelease(t *testing.T) {
	r := NewRegistry()
	assert.False(t, r.Has("req-1"))

	tr, release, err := r.Open("req-1")
	require.NoError(t, err)
	require.NotNil(t, tr)
	assert.Equal(t, "req-1", tr.Key())
	assert.True(t, r.Has("req-1"))
	assert.Equal(t, 1, r.Len())

	got, ok := r.Get("req-1")
	require.True(t, ok)
	assert.Same(t, tr, got)

	release()
	assert.False(t, r.Has("req-1"))
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_ReleaseTwiceIsHarmless(t *testing.T) {
	r := NewRegistry()

	_, release, err := r.Open("req-1")
	require.NoError(t, err)
	release()

	// a new request reusing the key after release must survive a stale release
	_, release2, err := r.Open("req-1")
	require.NoError(t, err)
	release()
	assert.True(t, r.Has("req-1"))

	release2()
	assert.False(t, r.Has("req-1"))
}

func TestRegistry_DuplicateKey(t *testing.T) {
	r := NewRegistry()

	_, release, err := r.Open("dup")
	require.NoError(t, err)
	defer release()

	_, _, err = r.Open("dup")
	assert.ErrorIs(t, err, ErrKeyInUse)
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_ConcurrentRequests(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, release, err := r.Open(string(rune('a'+i%26)) + string(rune('0'+i/26)))
			if err == nil {
				release()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 0, r.Len())
}
