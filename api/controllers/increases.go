package controllers

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tariffdesk/tariffdesk-backend/api/middleware"
	"github.com/tariffdesk/tariffdesk-backend/api/responses"
	"github.com/tariffdesk/tariffdesk-backend/api/validators"
	"github.com/tariffdesk/tariffdesk-backend/internal/increases"
	dbtypes "github.com/tariffdesk/tariffdesk-backend/pkg/db/types"
	"github.com/tariffdesk/tariffdesk-backend/pkg/logger"
)

// bulkIncreaseRequest is validated field by field in the increases package so
// the caller gets every problem at once.
type bulkIncreaseRequest struct {
	Criterion     string           `json:"criterion"`
	SelectionID   int64            `json:"selection_id"`
	IncludeClient bool             `json:"include_client"`
	ClientID      int64            `json:"client_id"`
	DateFrom      *dbtypes.Date    `json:"date_from"`
	DateTo        *dbtypes.Date    `json:"date_to"`
	Percentage    *decimal.Decimal `json:"percentage"`
	User          string           `json:"user"`
}

// BulkTariffUpdate applies a percentage increase to every matching tariff in
// one transaction. The user defaults to the X-Actor header.
func BulkTariffUpdate(svc increases.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req bulkIncreaseRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		user := strings.TrimSpace(req.User)
		if user == "" {
			user = middleware.ActorFromContext(r.Context())
		}
		result, err := svc.Apply(r.Context(), increases.Request{
			Criterion:     req.Criterion,
			SelectionID:   req.SelectionID,
			IncludeClient: req.IncludeClient,
			ClientID:      req.ClientID,
			DateFrom:      req.DateFrom,
			DateTo:        req.DateTo,
			Percentage:    req.Percentage,
			User:          user,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessMessage(w, http.StatusOK, result, "tariffs updated")
	}
}
