package models

import (
	"strings"
	"time"

	"invoptimizer/internal/apperror"

	"github.com/google/uuid"
)

// Location is a warehouse or store that holds inventory.
type Location struct {
	ID            uuid.UUID `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	Address       string    `json:"address" db:"address"`
	City          string    `json:"city" db:"city"`
	State         string    `json:"state" db:"state"`
	ZipCode       string    `json:"zip_code" db:"zip_code"`
	ContactPerson *string   `json:"contact_person,omitempty" db:"contact_person"`
	ContactEmail  *string   `json:"contact_email,omitempty" db:"contact_email"`
	ContactPhone  *string   `json:"contact_phone,omitempty" db:"contact_phone"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

func (l *Location) Validate() error {
	if strings.TrimSpace(l.Name) == "" {
		return apperror.NewFieldValidation("name", "location name is required")
	}
	return nil
}
