package models

// Client is a customer tariffs are negotiated with.
type Client struct {
	ID   int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Name string `gorm:"column:name;not null"`
}

type Category struct {
	ID   int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Name string `gorm:"column:name;not null"`
}

// Item is a billable service or good; every item belongs to a category.
type Item struct {
	ID         int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Name       string `gorm:"column:name;not null"`
	CategoryID int64  `gorm:"column:category_id;not null;index"`
}

// Unit is the unit of measure a tariff is quoted in.
type Unit struct {
	ID   int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Name string `gorm:"column:name;not null"`
}
