// Package profiler captures ad-hoc CPU profiles around a single request
// invocation, including everything it waits on downstream.
package profiler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/pprof"
	"strings"
	"sync"
	"time"
)

// ErrProfileInProgress is returned when another CPU profile is already being
// recorded. The Go runtime supports a single active CPU profile per process.
var ErrProfileInProgress = errors.New("cpu profile already in progress")

// Profiler writes one ".cpuprofile" file per inspected invocation into dir.
type Profiler struct {
	dir string
	now func() time.Time

	mu sync.Mutex
}

// New returns a profiler writing into dir, or into the OS temp directory when
// dir is empty.
func New(dir string) *Profiler {
	if dir == "" {
		dir = os.TempDir()
	}
	return &Profiler{dir: dir, now: time.Now}
}

// Inspect runs fn while recording a CPU profile and returns the path of the
// written profile. Samples taken on fn's goroutines are labelled with
// route=name.
//
// fn is always executed exactly once: when profiling cannot start, fn runs
// unprofiled and the returned error explains why.
func (p *Profiler) Inspect(ctx context.Context, name string, fn func(context.Context)) (string, error) {
	if !p.mu.TryLock() {
		fn(ctx)
		return "", ErrProfileInProgress
	}
	defer p.mu.Unlock()

	path := filepath.Join(p.dir, fileName(name, p.now()))
	f, err := os.Create(path)
	if err != nil {
		fn(ctx)
		return "", fmt.Errorf("error creating profile file: %w", err)
	}

	if err := pprof.StartCPUProfile(f); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		fn(ctx)
		return "", fmt.Errorf("%w: %v", ErrProfileInProgress, err)
	}

	pprof.Do(ctx, pprof.Labels("route", name), fn)

	pprof.StopCPUProfile()
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("error closing profile file: %w", err)
	}

	return path, nil
}

// fileName turns "GET /internal/items/{id}" into
// "GET_internal_items_id_20261015T101112.000.cpuprofile".
func fileName(name string, at time.Time) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, name)
	safe = strings.Trim(safe, "_")
	for strings.Contains(safe, "__") {
		safe = strings.ReplaceAll(safe, "__", "_")
	}

	return fmt.Sprintf("%s_%s.cpuprofile", safe, at.UTC().Format("20060102T150405.000"))
}
