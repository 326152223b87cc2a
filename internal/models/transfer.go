package models

import (
	"time"

	"invoptimizer/internal/apperror"

	"github.com/google/uuid"
)

type TransferStatus string

const (
	TransferPending   TransferStatus = "pending"
	TransferInTransit TransferStatus = "in-transit"
	TransferCompleted TransferStatus = "completed"
	TransferCancelled TransferStatus = "cancelled"
)

func (s TransferStatus) Valid() bool {
	switch s {
	case TransferPending, TransferInTransit, TransferCompleted, TransferCancelled:
		return true
	}
	return false
}

// Terminal reports whether no transition may leave s.
func (s TransferStatus) Terminal() bool {
	return s == TransferCompleted || s == TransferCancelled
}

// CanTransitionTo reports whether next is reachable from s in one step.
func (s TransferStatus) CanTransitionTo(next TransferStatus) bool {
	switch s {
	case TransferPending:
		return next == TransferInTransit || next == TransferCancelled
	case TransferInTransit:
		return next == TransferCompleted || next == TransferCancelled
	}
	return false
}

// Transfer moves a quantity of one product between two locations.
type Transfer struct {
	ID             uuid.UUID      `json:"id" db:"id"`
	ProductID      uuid.UUID      `json:"product_id" db:"product_id"`
	FromLocationID uuid.UUID      `json:"from_location_id" db:"from_location_id"`
	ToLocationID   uuid.UUID      `json:"to_location_id" db:"to_location_id"`
	Quantity       int            `json:"quantity" db:"quantity"`
	Status         TransferStatus `json:"status" db:"status"`
	InitiatedDate  time.Time      `json:"initiated_date" db:"initiated_date"`
	CompletedDate  *time.Time     `json:"completed_date,omitempty" db:"completed_date"`
}

// NewTransfer returns a pending transfer initiated at now.
func NewTransfer(productID, from, to uuid.UUID, quantity int, now time.Time) *Transfer {
	return &Transfer{
		ID:             uuid.New(),
		ProductID:      productID,
		FromLocationID: from,
		ToLocationID:   to,
		Quantity:       quantity,
		Status:         TransferPending,
		InitiatedDate:  now,
	}
}

// TransitionTo moves the transfer to next. On failure the transfer is unchanged.
func (t *Transfer) TransitionTo(next TransferStatus, at time.Time) error {
	if !next.Valid() {
		return apperror.NewFieldValidation("status", "unknown transfer status").
			WithDetail("status", string(next))
	}
	if !t.Status.CanTransitionTo(next) {
		return apperror.NewInvalidTransition("transfer", t.Status, next).
			WithDetail("transfer_id", t.ID)
	}

	t.Status = next
	if next == TransferCompleted {
		completed := at
		t.CompletedDate = &completed
	}
	return nil
}

// Validate checks the record's internal consistency.
func (t *Transfer) Validate() error {
	if !t.Status.Valid() {
		return apperror.NewFieldValidation("status", "unknown transfer status").
			WithDetail("transfer_id", t.ID).
			WithDetail("status", string(t.Status))
	}
	if t.Quantity <= 0 {
		return apperror.NewFieldValidation("quantity", "transfer quantity must be positive").
			WithDetail("transfer_id", t.ID)
	}
	if t.FromLocationID == t.ToLocationID {
		return apperror.NewFieldValidation("to_location_id", "transfer source and destination must differ").
			WithDetail("transfer_id", t.ID)
	}
	if t.Status == TransferCompleted && t.CompletedDate == nil {
		return apperror.NewFieldValidation("completed_date", "completed transfer has no completed_date").
			WithDetail("transfer_id", t.ID)
	}
	if t.Status != TransferCompleted && t.CompletedDate != nil {
		return apperror.NewFieldValidation("completed_date", "completed_date set on a transfer that is not completed").
			WithDetail("transfer_id", t.ID).
			WithDetail("status", string(t.Status))
	}
	return nil
}

// TransferFilter narrows transfer listings.
type TransferFilter struct {
	Status    *TransferStatus `json:"status,omitempty"`
	ProductID *uuid.UUID      `json:"product_id,omitempty"`
	// LocationID matches transfers leaving or arriving at the location.
	LocationID *uuid.UUID `json:"location_id,omitempty"`
	Limit      int        `json:"limit,omitempty"`
	Offset     int        `json:"offset,omitempty"`
}
