package adapter

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/MKhiriev/go-route-keeper/internal/config"
	"github.com/MKhiriev/go-route-keeper/internal/inspect"
	"github.com/MKhiriev/go-route-keeper/internal/logger"
	"github.com/MKhiriev/go-route-keeper/internal/route"
	"github.com/MKhiriev/go-route-keeper/internal/utils"
	"github.com/MKhiriev/go-route-keeper/internal/validators"
	"github.com/MKhiriev/go-route-keeper/models"
)

type httpServerAdapter struct {
	client *utils.HTTPClient

	logger *logger.Logger
}

// NewHTTPServerAdapter constructs an HTTP/REST implementation of
// [ServerAdapter] targeting cfg.HTTPAddress. A missing scheme defaults to
// http.
func NewHTTPServerAdapter(cfg config.ClientConfig, logger *logger.Logger) (ServerAdapter, error) {
	baseURL, err := normalizeBaseURL(cfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	client := utils.NewHTTPClient()
	client.
		SetBaseURL(baseURL).
		SetTimeout(cfg.RequestTimeout).
		SetHeader("Accept", "application/json")

	return &httpServerAdapter{client: client, logger: logger}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

type itemResponse struct {
	models.Item
	Inspect []inspect.Entry `json:"_inspect"`
}

type itemPageResponse struct {
	models.ItemPage
	Inspect []inspect.Entry `json:"_inspect"`
}

// GetItem implements [ServerAdapter] with GET /internal/items/{id}.
func (h *httpServerAdapter) GetItem(ctx context.Context, id string, withInspect bool) (models.Item, []inspect.Entry, error) {
	var out itemResponse
	resp, err := h.client.R().
		SetContext(ctx).
		SetPathParam("id", id).
		SetQueryParam(validators.InspectParam, strconv.FormatBool(withInspect)).
		SetResult(&out).
		SetError(&route.ErrorBody{}).
		Get("/internal/items/{id}")
	if err != nil {
		return models.Item{}, nil, fmt.Errorf("get item request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Item{}, nil, err
	}

	return out.Item, out.Inspect, nil
}

// SearchItems implements [ServerAdapter] with GET /internal/items.
func (h *httpServerAdapter) SearchItems(ctx context.Context, filter models.ItemFilter, withInspect bool) (models.ItemPage, []inspect.Entry, error) {
	query := url.Values{}
	if filter.Name != "" {
		query.Set("name", filter.Name)
	}
	for _, kind := range filter.Kinds {
		query.Add("kind", string(kind))
	}
	if filter.Limit > 0 {
		query.Set("limit", strconv.FormatUint(filter.Limit, 10))
	}
	query.Set(validators.InspectParam, strconv.FormatBool(withInspect))

	var out itemPageResponse
	resp, err := h.client.R().
		SetContext(ctx).
		SetQueryParamsFromValues(query).
		SetResult(&out).
		SetError(&route.ErrorBody{}).
		Get("/internal/items")
	if err != nil {
		return models.ItemPage{}, nil, fmt.Errorf("search items request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.ItemPage{}, nil, err
	}

	return out.ItemPage, out.Inspect, nil
}

// CreateItem implements [ServerAdapter] with POST /internal/items.
func (h *httpServerAdapter) CreateItem(ctx context.Context, name string, kind models.ItemKind) (models.Item, error) {
	var out models.Item
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"name": name, "kind": string(kind)}).
		SetResult(&out).
		SetError(&route.ErrorBody{}).
		Post("/internal/items")
	if err != nil {
		return models.Item{}, fmt.Errorf("create item request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Item{}, err
	}

	h.logger.Debug().Str("id", out.ID).Msg("item created on server")
	return out, nil
}

// Version implements [ServerAdapter] with GET /internal/version.
func (h *httpServerAdapter) Version(ctx context.Context) (string, error) {
	var out struct {
		Version string `json:"version"`
	}
	resp, err := h.client.R().
		SetContext(ctx).
		SetResult(&out).
		SetError(&route.ErrorBody{}).
		Get("/internal/version")
	if err != nil {
		return "", fmt.Errorf("version request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return "", err
	}
	if out.Version == "" {
		return "", fmt.Errorf("%w: empty version", ErrUnexpectedResponse)
	}

	return out.Version, nil
}
