package model

import "time"

const CategoryRealEstate = "real_estate"

const (
	TransactionSale  = "sale"
	TransactionLease = "lease"
)

const (
	StatusDraft  = "draft"
	StatusActive = "active"
	StatusClosed = "closed"
)

// Deal data model. Only real-estate deals exist today, so Category is
// always CategoryRealEstate.
type Deal struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	Category        string    `json:"category"`
	TransactionType string    `json:"transactionType"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type CreateDealInput struct {
	Name            string `json:"name" validate:"required,max=200"`
	Description     string `json:"description,omitempty" validate:"max=2000"`
	TransactionType string `json:"transactionType" validate:"required,oneof=sale lease"`
	Status          string `json:"status" validate:"omitempty,oneof=draft active closed"`
}

func (in *CreateDealInput) Validate() error {
	return validateStruct(in)
}

// UpdateDealInput carries a partial update; nil fields are left untouched.
type UpdateDealInput struct {
	Name            *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Description     *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	TransactionType *string `json:"transactionType,omitempty" validate:"omitempty,oneof=sale lease"`
	Status          *string `json:"status,omitempty" validate:"omitempty,oneof=draft active closed"`
}

func (in *UpdateDealInput) Validate() error {
	return validateStruct(in)
}

// Apply copies the set fields of in onto d.
func (in *UpdateDealInput) Apply(d *Deal) {
	if in.Name != nil {
		d.Name = *in.Name
	}
	if in.Description != nil {
		d.Description = *in.Description
	}
	if in.TransactionType != nil {
		d.TransactionType = *in.TransactionType
	}
	if in.Status != nil {
		d.Status = *in.Status
	}
}
