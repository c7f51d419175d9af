package controllers

import (
	"context"
	"net/http"

	"github.com/tariffdesk/tariffdesk-backend/api/responses"
	"github.com/tariffdesk/tariffdesk-backend/api/validators"
	"github.com/tariffdesk/tariffdesk-backend/internal/catalog"
	"github.com/tariffdesk/tariffdesk-backend/pkg/logger"
)

type nameRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

type itemRequest struct {
	Name       string `json:"name" validate:"required,max=255"`
	CategoryID int64  `json:"category_id" validate:"required,gt=0"`
}

type (
	createFn func(ctx context.Context, input catalog.NameInput) (*catalog.Entity, error)
	updateFn func(ctx context.Context, id int64, input catalog.NameInput) (*catalog.Entity, error)
	deleteFn func(ctx context.Context, id int64) error
)

func listHandler[T any](list func(context.Context) ([]T, error), logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := list(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

func createEntityHandler(create createFn, label string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req nameRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		entity, err := create(r.Context(), catalog.NameInput{Name: req.Name})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessMessage(w, http.StatusCreated, entity, label+" created")
	}
}

func updateEntityHandler(update updateFn, label string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req nameRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		entity, err := update(r.Context(), id, catalog.NameInput{Name: req.Name})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessMessage(w, http.StatusOK, entity, label+" updated")
	}
}

func deleteHandler(remove deleteFn, label string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := remove(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessMessage(w, http.StatusOK, map[string]int64{"id": id}, label+" deleted")
	}
}

func ClientList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return listHandler(svc.ListClients, logg)
}

func ClientCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return createEntityHandler(svc.CreateClient, "client", logg)
}

func ClientUpdate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return updateEntityHandler(svc.UpdateClient, "client", logg)
}

func ClientDelete(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return deleteHandler(svc.DeleteClient, "client", logg)
}

func CategoryList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return listHandler(svc.ListCategories, logg)
}

func CategoryCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return createEntityHandler(svc.CreateCategory, "category", logg)
}

func CategoryUpdate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return updateEntityHandler(svc.UpdateCategory, "category", logg)
}

func CategoryDelete(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return deleteHandler(svc.DeleteCategory, "category", logg)
}

func UnitList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return listHandler(svc.ListUnits, logg)
}

func UnitCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return createEntityHandler(svc.CreateUnit, "unit", logg)
}

func UnitUpdate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return updateEntityHandler(svc.UpdateUnit, "unit", logg)
}

func UnitDelete(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return deleteHandler(svc.DeleteUnit, "unit", logg)
}

// ItemList accepts an optional ?category= filter.
func ItemList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categoryID, err := validators.ParseQueryID(r, "category")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		items, err := svc.ListItems(r.Context(), categoryID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

func ItemCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req itemRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		item, err := svc.CreateItem(r.Context(), catalog.ItemInput{Name: req.Name, CategoryID: req.CategoryID})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessMessage(w, http.StatusCreated, item, "item created")
	}
}

func ItemUpdate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req itemRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		item, err := svc.UpdateItem(r.Context(), id, catalog.ItemInput{Name: req.Name, CategoryID: req.CategoryID})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessMessage(w, http.StatusOK, item, "item updated")
	}
}

func ItemDelete(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return deleteHandler(svc.DeleteItem, "item", logg)
}
