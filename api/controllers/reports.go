package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/tariffdesk/tariffdesk-backend/api/responses"
	"github.com/tariffdesk/tariffdesk-backend/api/validators"
	"github.com/tariffdesk/tariffdesk-backend/internal/expiring"
	"github.com/tariffdesk/tariffdesk-backend/internal/history"
	"github.com/tariffdesk/tariffdesk-backend/internal/prepvalues"
	"github.com/tariffdesk/tariffdesk-backend/internal/sheets"
	dbtypes "github.com/tariffdesk/tariffdesk-backend/pkg/db/types"
	pkgerrors "github.com/tariffdesk/tariffdesk-backend/pkg/errors"
	"github.com/tariffdesk/tariffdesk-backend/pkg/logger"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func ExpiringTariffs(svc expiring.Service, logg *logger.Logger) http.HandlerFunc {
	return listHandler(svc.List, logg)
}

// HistoricalTariffs lists snapshots; ?moved_at= narrows to one calendar day.
func HistoricalTariffs(svc history.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := parseTariffFilter(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		movedOn, err := validators.ParseQueryDate(r, "moved_at")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows, err := svc.List(r.Context(), history.Filter{Filter: filter, MovedOn: movedOn})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

func ClientTariffSheet(svc sheets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		sheet, err := svc.Build(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, sheet)
	}
}

// ClientTariffSheetXLSX renders the sheet into memory first so a failure can
// still produce a JSON error.
func ClientTariffSheetXLSX(svc sheets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		sheet, err := svc.Build(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var buf bytes.Buffer
		if err := sheets.WriteXLSX(&buf, sheet); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render workbook"))
			return
		}
		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", sheet.Filename()))
		w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
		w.WriteHeader(http.StatusOK)
		if _, err := buf.WriteTo(w); err != nil && logg != nil {
			logg.Error(r.Context(), "write workbook", err)
		}
	}
}

type prepValueRequest struct {
	ClientID  int64            `json:"client_id" validate:"required,gt=0"`
	ValidFrom *dbtypes.Date    `json:"valid_from" validate:"required"`
	ValidTo   *dbtypes.Date    `json:"valid_to"`
	Value     *decimal.Decimal `json:"value" validate:"required"`
}

// PrepValueList accepts an optional ?client= filter.
func PrepValueList(svc prepvalues.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientID, err := validators.ParseQueryID(r, "client")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows, err := svc.List(r.Context(), clientID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

func PrepValueCreate(svc prepvalues.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req prepValueRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.Create(r.Context(), prepvalues.Input{
			ClientID:     req.ClientID,
			ValidFrom:    *req.ValidFrom,
			ValidTo:      req.ValidTo,
			ValuePerKilo: *req.Value,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessMessage(w, http.StatusCreated, view, "prep value created")
	}
}
