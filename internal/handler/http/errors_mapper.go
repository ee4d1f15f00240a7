package http

import (
	"net/http"

	"github.com/MKhiriev/go-route-keeper/internal/service"
	"github.com/MKhiriev/go-route-keeper/internal/store"
)

var errorStatusMap = map[error]int{
	service.ErrValidationNoItemID:   http.StatusBadRequest,
	service.ErrValidationNoItemName: http.StatusBadRequest,
	service.ErrValidationBadKind:    http.StatusBadRequest,

	store.ErrItemNotFound:      http.StatusNotFound,
	store.ErrItemAlreadyExists: http.StatusConflict,
	store.ErrItemNotSaved:      http.StatusInternalServerError,

	store.ErrBuildingSQLQuery:   http.StatusInternalServerError,
	store.ErrExecutingQuery:     http.StatusInternalServerError,
	store.ErrExecutingStatement: http.StatusInternalServerError,
	store.ErrScanningRows:       http.StatusInternalServerError,
}
