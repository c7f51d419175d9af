package catalog

import pkgerrors "github.com/tariffdesk/tariffdesk-backend/pkg/errors"

// Entity is the wire shape of clients, categories and units.
type Entity struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type ItemView struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	CategoryID   int64  `json:"category_id"`
	CategoryName string `json:"category_name"`
}

type NameInput struct {
	Name string
}

func (in NameInput) normalize() (string, error) {
	return normalizeName(in.Name)
}

type ItemInput struct {
	Name       string
	CategoryID int64
}

func (in ItemInput) normalize() (string, error) {
	name, err := normalizeName(in.Name)
	if err != nil {
		return "", err
	}
	if in.CategoryID <= 0 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{"category_id": "is required"})
	}
	return name, nil
}
