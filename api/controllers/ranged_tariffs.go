package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/tariffdesk/tariffdesk-backend/api/responses"
	"github.com/tariffdesk/tariffdesk-backend/api/validators"
	"github.com/tariffdesk/tariffdesk-backend/internal/rangedtariffs"
	"github.com/tariffdesk/tariffdesk-backend/pkg/logger"
)

type rangedTariffRequest struct {
	tariffRequest
	FromQty *decimal.Decimal `json:"from_qty"`
	ToQty   *decimal.Decimal `json:"to_qty"`
}

func (r rangedTariffRequest) toInput() rangedtariffs.Input {
	in := rangedtariffs.Input{Input: r.tariffRequest.toInput()}
	if r.FromQty != nil {
		in.FromQty = *r.FromQty
	}
	if r.ToQty != nil {
		in.ToQty = *r.ToQty
	}
	return in
}

func RangedTariffList(svc rangedtariffs.Service, logg *logger.Logger) http.HandlerFunc {
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

func RangedTariffFilter(svc rangedtariffs.Service, logg *logger.Logger) http.HandlerFunc {
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

func RangedTariffGet(svc rangedtariffs.Service, logg *logger.Logger) http.HandlerFunc {
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

func RangedTariffCreate(svc rangedtariffs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req rangedTariffRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.Create(r.Context(), req.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessMessage(w, http.StatusCreated, view, "ranged tariff created")
	}
}

func RangedTariffUpdate(svc rangedtariffs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req rangedTariffRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.Update(r.Context(), id, req.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessMessage(w, http.StatusOK, view, "ranged tariff updated")
	}
}

func RangedTariffDelete(svc rangedtariffs.Service, logg *logger.Logger) http.HandlerFunc {
	return deleteHandler(svc.Delete, "ranged tariff", logg)
}
