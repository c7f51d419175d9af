package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/tariffdesk/tariffdesk-backend/api/responses"
	"github.com/tariffdesk/tariffdesk-backend/api/validators"
	"github.com/tariffdesk/tariffdesk-backend/internal/tariffs"
	dbtypes "github.com/tariffdesk/tariffdesk-backend/pkg/db/types"
	"github.com/tariffdesk/tariffdesk-backend/pkg/logger"
)

// tariffRequest accepts money as JSON numbers or numeric strings.
type tariffRequest struct {
	ClientID     int64            `json:"client_id" validate:"required,gt=0"`
	ItemID       int64            `json:"item_id" validate:"required,gt=0"`
	UnitID       int64            `json:"unit_id" validate:"required,gt=0"`
	Price        *decimal.Decimal `json:"price" validate:"required"`
	Minimum      *decimal.Decimal `json:"minimum"`
	IncrementPct *decimal.Decimal `json:"increment_pct" validate:"required"`
	ValidFrom    *dbtypes.Date    `json:"valid_from" validate:"required"`
	ValidTo      *dbtypes.Date    `json:"valid_to"`
}

func (r tariffRequest) toInput() tariffs.Input {
	return tariffs.Input{
		ClientID:     r.ClientID,
		ItemID:       r.ItemID,
		UnitID:       r.UnitID,
		Price:        *r.Price,
		Minimum:      r.Minimum,
		IncrementPct: *r.IncrementPct,
		ValidFrom:    *r.ValidFrom,
		ValidTo:      r.ValidTo,
	}
}

// filterRequest is the body of the POST .../filter endpoints.
type filterRequest struct {
	ClientID   *int64        `json:"client_id"`
	ItemID     *int64        `json:"item_id"`
	UnitID     *int64        `json:"unit_id"`
	CategoryID *int64        `json:"category_id"`
	DateFrom   *dbtypes.Date `json:"date_from"`
	DateTo     *dbtypes.Date `json:"date_to"`
}

func (r filterRequest) toFilter() tariffs.Filter {
	return tariffs.Filter{
		ClientID:   r.ClientID,
		ItemID:     r.ItemID,
		UnitID:     r.UnitID,
		CategoryID: r.CategoryID,
		DateFrom:   r.DateFrom,
		DateTo:     r.DateTo,
	}
}

// parseTariffFilter reads ?client=&item=&unit=&category=&date_from=&date_to=.
func parseTariffFilter(r *http.Request) (tariffs.Filter, error) {
	var (
		f   tariffs.Filter
		err error
	)
	if f.ClientID, err = validators.ParseQueryID(r, "client"); err != nil {
		return f, err
	}
	if f.ItemID, err = validators.ParseQueryID(r, "item"); err != nil {
		return f, err
	}
	if f.UnitID, err = validators.ParseQueryID(r, "unit"); err != nil {
		return f, err
	}
	if f.CategoryID, err = validators.ParseQueryID(r, "category"); err != nil {
		return f, err
	}
	if f.DateFrom, err = validators.ParseQueryDate(r, "date_from"); err != nil {
		return f, err
	}
	if f.DateTo, err = validators.ParseQueryDate(r, "date_to"); err != nil {
		return f, err
	}
	return f, nil
}

func TariffList(svc tariffs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := parseTariffFilter(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows, err := svc.List(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

func TariffFilter(svc tariffs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req filterRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows, err := svc.List(r.Context(), req.toFilter())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

func TariffGet(svc tariffs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func TariffCreate(svc tariffs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req tariffRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.Create(r.Context(), req.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessMessage(w, http.StatusCreated, view, "tariff created")
	}
}

func TariffUpdate(svc tariffs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req tariffRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.Update(r.Context(), id, req.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessMessage(w, http.StatusOK, view, "tariff updated")
	}
}

func TariffDelete(svc tariffs.Service, logg *logger.Logger) http.HandlerFunc {
	return deleteHandler(svc.Delete, "tariff", logg)
}
