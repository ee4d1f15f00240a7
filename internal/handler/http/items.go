package http

import (
	"context"

	"github.com/MKhiriev/go-route-keeper/internal/route"
	"github.com/MKhiriev/go-route-keeper/models"
)

type getItemParams struct {
	Path struct {
		ID string `json:"id" validate:"required,uuid"`
	} `json:"path"`
}

type searchItemsParams struct {
	Query struct {
		Name  string   `json:"name" validate:"omitempty,max=255"`
		Kinds []string `json:"kind" validate:"omitempty,dive,oneof=note login card binary"`
		Limit uint64   `json:"limit" validate:"omitempty,gte=1,lte=100"`
	} `json:"query"`
}

type createItemParams struct {
	Body struct {
		Name string `json:"name" validate:"required,max=255"`
		Kind string `json:"kind" validate:"required,oneof=note login card binary"`
	} `json:"body"`
}

func (h *Handler) getItem(ctx context.Context, req *route.Request) (any, error) {
	params := route.ParamsAs[getItemParams](req)

	item, err := h.services.ItemService.GetItem(ctx, params.Path.ID)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (h *Handler) searchItems(ctx context.Context, req *route.Request) (any, error) {
	params := route.ParamsAs[searchItemsParams](req)

	filter := models.ItemFilter{
		Name:  params.Query.Name,
		Limit: params.Query.Limit,
	}
	for _, kind := range params.Query.Kinds {
		filter.Kinds = append(filter.Kinds, models.ItemKind(kind))
	}

	page, err := h.services.ItemService.SearchItems(ctx, filter)
	if err != nil {
		return nil, err
	}
	return page, nil
}

func (h *Handler) createItem(ctx context.Context, req *route.Request) (any, error) {
	params := route.ParamsAs[createItemParams](req)

	item, err := h.services.ItemService.CreateItem(ctx, params.Body.Name, models.ItemKind(params.Body.Kind))
	if err != nil {
		return nil, err
	}

	req.Logger.Debug().Str("id", item.ID).Msg("item created")
	return item, nil
}
