package models

// All lists every model in dependency order, for AutoMigrate on sqlite.
func All() []any {
	return []any{
		&Client{},
		&Category{},
		&Unit{},
		&Item{},
		&Tariff{},
		&RangedTariff{},
		&HistoricalTariff{},
		&PrepValue{},
	}
}
