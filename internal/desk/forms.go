package desk

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tariffdesk/tariffdesk-backend/internal/catalog"
	"github.com/tariffdesk/tariffdesk-backend/internal/rangedtariffs"
	"github.com/tariffdesk/tariffdesk-backend/internal/tariffs"
	dbtypes "github.com/tariffdesk/tariffdesk-backend/pkg/db/types"
	"github.com/tariffdesk/tariffdesk-backend/pkg/enums"
)

// TariffForm is what an operator types into the tariff dialog. References are
// by name; ID is nil for a new tariff.
type TariffForm struct {
	ID        *int64
	Client    string
	Item      string
	Unit      string
	Price     string
	Minimum   string
	Increment string
	ValidFrom string
	ValidTo   string
}

// FormFromTariff prefills an edit dialog.
func FormFromTariff(v tariffs.View) TariffForm {
	id := v.ID
	form := TariffForm{
		ID:        &id,
		Client:    v.ClientName,
		Item:      v.ItemName,
		Unit:      v.UnitName,
		Price:     decimal.NewFromFloat(v.Price).String(),
		Increment: decimal.NewFromFloat(v.IncrementPct).String(),
		ValidFrom: v.ValidFrom.String(),
	}
	if v.Minimum != nil {
		form.Minimum = decimal.NewFromFloat(*v.Minimum).String()
	}
	if v.ValidTo != nil {
		form.ValidTo = v.ValidTo.String()
	}
	return form
}

// RangedTariffForm is a tariff form plus the quantity band. Blank bounds are
// sent as zero, which the service reads as open.
type RangedTariffForm struct {
	TariffForm
	FromQty string
	ToQty   string
}

func FormFromRangedTariff(v rangedtariffs.View) RangedTariffForm {
	return RangedTariffForm{
		TariffForm: FormFromTariff(v.View),
		FromQty:    decimal.NewFromFloat(v.FromQty).String(),
		ToQty:      decimal.NewFromFloat(v.ToQty).String(),
	}
}

// EntityForm names a client, unit or category; ID is nil for a new one.
type EntityForm struct {
	ID   *int64
	Name string
}

type ItemForm struct {
	ID       *int64
	Name     string
	Category string
}

// IncreaseForm drives a bulk increase. Selection is the name of the client,
// item, unit or category picked by Criterion.
type IncreaseForm struct {
	Criterion     string
	Selection     string
	IncludeClient bool
	Client        string
	DateFrom      string
	DateTo        string
	Percentage    string
}

// lookup maps normalized names to ids.
type lookup map[string]int64

func entityLookup(list []catalog.Entity) lookup {
	out := make(lookup, len(list))
	for _, e := range list {
		out[normalizeName(e.Name)] = e.ID
	}
	return out
}

func itemLookup(list []catalog.ItemView) lookup {
	out := make(lookup, len(list))
	for _, e := range list {
		out[normalizeName(e.Name)] = e.ID
	}
	return out
}

func (l lookup) resolve(field, name string) (int64, error) {
	if strings.TrimSpace(name) == "" {
		return 0, formErrorf(field, "is required")
	}
	id, ok := l[normalizeName(name)]
	if !ok {
		return 0, formErrorf(field, "unknown %s %q", field, strings.TrimSpace(name))
	}
	return id, nil
}

func parseDecimal(field, raw string, required bool) (*decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if required {
			return nil, formErrorf(field, "is required")
		}
		return nil, nil
	}
	value, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", "."))
	if err != nil {
		return nil, formErrorf(field, "%q is not a number", raw)
	}
	return &value, nil
}

func parseDate(field, raw string, required bool) (*dbtypes.Date, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if required {
			return nil, formErrorf(field, "is required")
		}
		return nil, nil
	}
	value, err := dbtypes.ParseDate(raw)
	if err != nil {
		return nil, formErrorf(field, "%q is not a date (YYYY-MM-DD)", raw)
	}
	return &value, nil
}

func (s *Session) tariffPayload(ctx context.Context, form TariffForm) (TariffPayload, error) {
	clients, err := s.Clients(ctx)
	if err != nil {
		return TariffPayload{}, err
	}
	items, err := s.Items(ctx)
	if err != nil {
		return TariffPayload{}, err
	}
	units, err := s.Units(ctx)
	if err != nil {
		return TariffPayload{}, err
	}

	var payload TariffPayload
	if payload.ClientID, err = entityLookup(clients).resolve("client", form.Client); err != nil {
		return payload, err
	}
	if payload.ItemID, err = itemLookup(items).resolve("item", form.Item); err != nil {
		return payload, err
	}
	if payload.UnitID, err = entityLookup(units).resolve("unit", form.Unit); err != nil {
		return payload, err
	}

	price, err := parseDecimal("price", form.Price, true)
	if err != nil {
		return payload, err
	}
	payload.Price = *price
	if payload.Minimum, err = parseDecimal("minimum", form.Minimum, false); err != nil {
		return payload, err
	}
	increment, err := parseDecimal("increment", form.Increment, false)
	if err != nil {
		return payload, err
	}
	if increment != nil {
		payload.IncrementPct = *increment
	}
	from, err := parseDate("valid_from", form.ValidFrom, true)
	if err != nil {
		return payload, err
	}
	payload.ValidFrom = *from
	if payload.ValidTo, err = parseDate("valid_to", form.ValidTo, false); err != nil {
		return payload, err
	}
	return payload, nil
}

// SaveTariff resolves the form, creates or updates the tariff and refetches the
// cached tariff list. Resolution failures are *FormError and nothing is sent.
func (s *Session) SaveTariff(ctx context.Context, form TariffForm) (*tariffs.View, error) {
	payload, err := s.tariffPayload(ctx, form)
	if err != nil {
		return nil, err
	}
	var saved *tariffs.View
	if form.ID == nil {
		saved, err = s.api.CreateTariff(ctx, payload)
	} else {
		saved, err = s.api.UpdateTariff(ctx, *form.ID, payload)
	}
	if err != nil {
		return nil, err
	}
	if _, err := refetch(ctx, s, KeyTariffs, s.api.ListTariffs); err != nil {
		return saved, err
	}
	return saved, nil
}

// SaveRangedTariff resolves the form like SaveTariff and refetches the cached
// ranged tariff list.
func (s *Session) SaveRangedTariff(ctx context.Context, form RangedTariffForm) (*rangedtariffs.View, error) {
	base, err := s.tariffPayload(ctx, form.TariffForm)
	if err != nil {
		return nil, err
	}
	payload := RangedTariffPayload{TariffPayload: base}
	from, err := parseDecimal("from_qty", form.FromQty, false)
	if err != nil {
		return nil, err
	}
	if from != nil {
		payload.FromQty = *from
	}
	to, err := parseDecimal("to_qty", form.ToQty, false)
	if err != nil {
		return nil, err
	}
	if to != nil {
		payload.ToQty = *to
	}

	var saved *rangedtariffs.View
	if form.ID == nil {
		saved, err = s.api.CreateRangedTariff(ctx, payload)
	} else {
		saved, err = s.api.UpdateRangedTariff(ctx, *form.ID, payload)
	}
	if err != nil {
		return nil, err
	}
	if _, err := refetch(ctx, s, KeyRangedTariffs, s.api.ListRangedTariffs); err != nil {
		return saved, err
	}
	return saved, nil
}

// SaveClient creates or renames a client. On rename both tariff lists are
// refetched too since they carry client names.
func (s *Session) SaveClient(ctx context.Context, form EntityForm) (*catalog.Entity, error) {
	return s.saveEntity(ctx, "clients", KeyClients, s.api.ListClients, form)
}

func (s *Session) SaveUnit(ctx context.Context, form EntityForm) (*catalog.Entity, error) {
	return s.saveEntity(ctx, "units", KeyUnits, s.api.ListUnits, form)
}

func (s *Session) SaveCategory(ctx context.Context, form EntityForm) (*catalog.Entity, error) {
	return s.saveEntity(ctx, "categories", KeyCategories, s.api.ListCategories, form)
}

func (s *Session) saveEntity(ctx context.Context, resource, key string, list func(context.Context) ([]catalog.Entity, error), form EntityForm) (*catalog.Entity, error) {
	name := strings.TrimSpace(form.Name)
	if name == "" {
		return nil, formErrorf("name", "is required")
	}
	saved, err := s.api.SaveEntity(ctx, resource, form.ID, name)
	if err != nil {
		return nil, err
	}
	if _, err := refetch(ctx, s, key, list); err != nil {
		return saved, err
	}
	if form.ID != nil {
		if err := s.refetchTariffLists(ctx); err != nil {
			return saved, err
		}
	}
	return saved, nil
}

// SaveItem resolves the category name and creates or updates the item.
func (s *Session) SaveItem(ctx context.Context, form ItemForm) (*catalog.ItemView, error) {
	name := strings.TrimSpace(form.Name)
	if name == "" {
		return nil, formErrorf("name", "is required")
	}
	categories, err := s.Categories(ctx)
	if err != nil {
		return nil, err
	}
	categoryID, err := entityLookup(categories).resolve("category", form.Category)
	if err != nil {
		return nil, err
	}
	saved, err := s.api.SaveItem(ctx, form.ID, name, categoryID)
	if err != nil {
		return nil, err
	}
	if _, err := refetch(ctx, s, KeyItems, s.api.ListItems); err != nil {
		return saved, err
	}
	if form.ID != nil {
		if err := s.refetchTariffLists(ctx); err != nil {
			return saved, err
		}
	}
	return saved, nil
}

// ApplyIncrease resolves the selection, runs the bulk increase as the client's
// actor and refetches the tariff list. It returns the number of rows updated.
func (s *Session) ApplyIncrease(ctx context.Context, form IncreaseForm) (int64, error) {
	criterion, err := enums.ParseIncreaseCriterion(form.Criterion)
	if err != nil {
		return 0, formErrorf("criterion", "must be one of %s", strings.Join(enums.IncreaseCriterionValues(), ", "))
	}
	selection, err := s.selectionLookup(ctx, criterion)
	if err != nil {
		return 0, err
	}
	payload := IncreasePayload{Criterion: string(criterion), IncludeClient: form.IncludeClient, User: s.api.Actor()}
	if payload.SelectionID, err = selection.resolve(string(criterion), form.Selection); err != nil {
		return 0, err
	}
	if form.IncludeClient {
		clients, err := s.Clients(ctx)
		if err != nil {
			return 0, err
		}
		if payload.ClientID, err = entityLookup(clients).resolve("client", form.Client); err != nil {
			return 0, err
		}
	}
	pct, err := parseDecimal("percentage", form.Percentage, true)
	if err != nil {
		return 0, err
	}
	payload.Percentage = *pct
	if payload.DateFrom, err = parseDate("date_from", form.DateFrom, false); err != nil {
		return 0, err
	}
	if payload.DateTo, err = parseDate("date_to", form.DateTo, false); err != nil {
		return 0, err
	}

	// One key per submission; a resend of this payload is answered from the
	// stored response instead of compounding the increase.
	result, err := s.api.BulkIncrease(ctx, payload, uuid.NewString())
	if err != nil {
		return 0, err
	}
	if _, err := refetch(ctx, s, KeyTariffs, s.api.ListTariffs); err != nil {
		return result.UpdatedCount, err
	}
	return result.UpdatedCount, nil
}

func (s *Session) selectionLookup(ctx context.Context, criterion enums.IncreaseCriterion) (lookup, error) {
	switch criterion {
	case enums.IncreaseCriterionClient:
		list, err := s.Clients(ctx)
		return entityLookup(list), err
	case enums.IncreaseCriterionItem:
		list, err := s.Items(ctx)
		return itemLookup(list), err
	case enums.IncreaseCriterionUnit:
		list, err := s.Units(ctx)
		return entityLookup(list), err
	default:
		list, err := s.Categories(ctx)
		return entityLookup(list), err
	}
}
