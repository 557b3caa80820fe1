package models

import "time"

// Institution types.
const (
	InstitutionPractice        = "practice_institution"
	InstitutionEducationCenter = "education_center"
)

// Institution is a partner practice institution or education center.
type Institution struct {
	ID              string    `db:"id" json:"id"`
	Name            string    `db:"name" json:"name"`
	InstitutionType string    `db:"institution_type" json:"institution_type"`
	Region          string    `db:"region" json:"region"`
	Address         *string   `db:"address" json:"address,omitempty"`
	ContactName     *string   `db:"contact_name" json:"contact_name,omitempty"`
	Phone           *string   `db:"phone" json:"phone,omitempty"`
	Capacity        *int      `db:"capacity" json:"capacity,omitempty"`
	Notes           *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// InstitutionRequest is the create/update payload.
type InstitutionRequest struct {
	Name            string  `json:"name" validate:"required,max=200"`
	InstitutionType string  `json:"institution_type" validate:"required,oneof=practice_institution education_center"`
	Region          string  `json:"region" validate:"required"`
	Address         *string `json:"address"`
	ContactName     *string `json:"contact_name"`
	Phone           *string `json:"phone" validate:"omitempty,max=30"`
	Capacity        *int    `json:"capacity" validate:"omitempty,min=0"`
	Notes           *string `json:"notes"`
}
