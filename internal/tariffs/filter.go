package tariffs

import (
	"gorm.io/gorm"

	dbtypes "github.com/tariffdesk/tariffdesk-backend/pkg/db/types"
	pkgerrors "github.com/tariffdesk/tariffdesk-backend/pkg/errors"
)

// Filter narrows tariff listings. Nil fields are not applied. DateFrom keeps
// rows with valid_from >= DateFrom and DateTo keeps rows with valid_to <= DateTo;
// each side applies on its own.
type Filter struct {
	ClientID   *int64
	ItemID     *int64
	UnitID     *int64
	CategoryID *int64
	DateFrom   *dbtypes.Date
	DateTo     *dbtypes.Date
}

// Validate rejects non-positive ids and inverted date ranges.
func (f Filter) Validate() error {
	details := map[string]string{}
	for field, id := range map[string]*int64{
		"client":   f.ClientID,
		"item":     f.ItemID,
		"unit":     f.UnitID,
		"category": f.CategoryID,
	} {
		if id != nil && *id <= 0 {
			details[field] = "must be a positive integer"
		}
	}
	if f.DateFrom != nil && f.DateTo != nil && f.DateFrom.After(*f.DateTo) {
		details["date_from"] = "must not be after date_to"
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid filter").WithDetails(details)
	}
	return nil
}

// Apply adds the filter clauses to a query over alias. The query must already
// join items as "i" when CategoryID is set.
func (f Filter) Apply(query *gorm.DB, alias string) *gorm.DB {
	if f.ClientID != nil {
		query = query.Where(alias+".client_id = ?", *f.ClientID)
	}
	if f.ItemID != nil {
		query = query.Where(alias+".item_id = ?", *f.ItemID)
	}
	if f.UnitID != nil {
		query = query.Where(alias+".unit_id = ?", *f.UnitID)
	}
	if f.CategoryID != nil {
		query = query.Where("i.category_id = ?", *f.CategoryID)
	}
	if f.DateFrom != nil {
		query = query.Where(alias+".valid_from >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		query = query.Where(alias+".valid_to <= ?", *f.DateTo)
	}
	return query
}
