package client

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/MKhiriev/go-route-keeper/internal/adapter"
	"github.com/MKhiriev/go-route-keeper/internal/inspect"
	"github.com/MKhiriev/go-route-keeper/internal/logger"
	"github.com/MKhiriev/go-route-keeper/models"
)

var (
	ErrNilAdapter     = errors.New("server adapter is nil")
	ErrUnknownCommand = errors.New("unknown command")
	ErrUsage          = errors.New("usage")
)

type App struct {
	adapter adapter.ServerAdapter
	out     io.Writer
	logger  *logger.Logger
}

func NewApp(serverAdapter adapter.ServerAdapter, out io.Writer, logger *logger.Logger) (*App, error) {
	if serverAdapter == nil {
		return nil, ErrNilAdapter
	}
	return &App{adapter: serverAdapter, out: out, logger: logger}, nil
}

func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: no command given, want one of version, get, search, create", ErrUsage)
	}

	command, rest := args[0], args[1:]
	a.logger.Debug().Str("command", command).Strs("args", rest).Msg("running client command")

	switch command {
	case "version":
		return a.version(ctx)
	case "get":
		return a.get(ctx, rest)
	case "search":
		return a.search(ctx, rest)
	case "create":
		return a.create(ctx, rest)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, command)
	}
}

func (a *App) version(ctx context.Context) error {
	v, err := a.adapter.Version(ctx)
	if err != nil {
		return fmt.Errorf("version: %w", err)
	}
	return a.print(map[string]string{"version": v})
}

func (a *App) get(ctx context.Context, args []string) error {
	fs := newFlagSet("get")
	withInspect := fs.Bool("inspect", false, "attach the server debug trace")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: get [-inspect] <id>", ErrUsage)
	}

	item, entries, err := a.adapter.GetItem(ctx, fs.Arg(0), *withInspect)
	if err != nil {
		return a.fail("get item", err)
	}
	return a.print(withTrace(item, entries, *withInspect))
}

func (a *App) search(ctx context.Context, args []string) error {
	fs := newFlagSet("search")
	name := fs.String("name", "", "case-insensitive name substring")
	limit := fs.Uint64("limit", 0, "page size")
	withInspect := fs.Bool("inspect", false, "attach the server debug trace")
	var kinds kindList
	fs.Var(&kinds, "kind", "item kind, may be repeated")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() != 0 {
		return fmt.Errorf("%w: search takes flags only", ErrUsage)
	}

	filter := models.ItemFilter{Name: *name, Kinds: kinds, Limit: *limit}
	page, entries, err := a.adapter.SearchItems(ctx, filter, *withInspect)
	if err != nil {
		return a.fail("search items", err)
	}
	return a.print(withTrace(page, entries, *withInspect))
}

func (a *App) create(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: create <name> <kind>", ErrUsage)
	}

	item, err := a.adapter.CreateItem(ctx, args[0], models.ItemKind(args[1]))
	if err != nil {
		return a.fail("create item", err)
	}
	return a.print(item)
}

// fail prints the debug trace an error response carried, if any.
func (a *App) fail(op string, err error) error {
	var respErr *adapter.ResponseError
	if errors.As(err, &respErr) && len(respErr.Inspect) > 0 {
		if printErr := a.print(map[string]any{
			"message":  respErr.Message,
			"_inspect": respErr.Inspect,
		}); printErr != nil {
			a.logger.Err(printErr).Msg("error printing inspect trace")
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (a *App) print(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("error printing result: %w", err)
	}
	return nil
}

type traced struct {
	Result  any             `json:"result"`
	Inspect []inspect.Entry `json:"_inspect"`
}

func withTrace(result any, entries []inspect.Entry, withInspect bool) any {
	if !withInspect {
		return result
	}
	if entries == nil {
		entries = []inspect.Entry{}
	}
	return traced{Result: result, Inspect: entries}
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// kindList collects repeated -kind flags.
type kindList []models.ItemKind

func (k *kindList) String() string {
	parts := make([]string, 0, len(*k))
	for _, kind := range *k {
		parts = append(parts, string(kind))
	}
	return strings.Join(parts, ",")
}

func (k *kindList) Set(s string) error {
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			*k = append(*k, models.ItemKind(part))
		}
	}
	return nil
}
