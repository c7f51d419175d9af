package validators

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	dbtypes "github.com/tariffdesk/tariffdesk-backend/pkg/db/types"
	pkgerrors "github.com/tariffdesk/tariffdesk-backend/pkg/errors"
)

// ParseQueryID reads an optional positive id from the query string.
func ParseQueryID(r *http.Request, key string) (*int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be a positive integer").
			WithDetails(map[string]any{"field": key, "value": raw})
	}
	return &value, nil
}

// ParseQueryDate reads an optional YYYY-MM-DD date from the query string.
func ParseQueryDate(r *http.Request, key string) (*dbtypes.Date, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	value, err := dbtypes.ParseDate(raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be a date (YYYY-MM-DD)").
			WithDetails(map[string]any{"field": key, "value": raw})
	}
	return &value, nil
}

// URLParamID parses a positive id from a chi route parameter.
func URLParamID(r *http.Request, key string) (int64, error) {
	raw := strings.TrimSpace(chi.URLParam(r, key))
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "path id must be a positive integer").
			WithDetails(map[string]any{"field": key, "value": raw})
	}
	return value, nil
}
