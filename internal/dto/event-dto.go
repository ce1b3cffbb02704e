package dto

import "github.com/aarondl/null/v8"

type CreateEventDTO struct {
	EventName        string  `json:"event_name" validate:"required,max=255"`
	ClientName       string  `json:"client_name" validate:"required,max=255"`
	ContactPerson    *string `json:"contact_person,omitempty" validate:"omitempty,max=255"`
	Phone            *string `json:"phone,omitempty" validate:"omitempty,min=10,max=20"`
	Email            *string `json:"email,omitempty" validate:"omitempty,email"`
	Address          *string `json:"address,omitempty"`
	InstallationDate string  `json:"installation_date" validate:"required,ymd_date"`
	EventDate        string  `json:"event_date" validate:"required,ymd_date"`
	DismantlingDate  string  `json:"dismantling_date" validate:"required,ymd_date"`
	Category         string  `json:"category" validate:"required,oneof=SON VIDEO LUMIERE MIXTE"`
	Status           string  `json:"status" validate:"omitempty,oneof=PLANIFIE EN_COURS TERMINE ANNULE"`
	Notes            *string `json:"notes,omitempty"`
}

type UpdateEventDTO struct {
	EventName        null.String `json:"event_name" validate:"omitempty,min=1,max=255"`
	ClientName       null.String `json:"client_name" validate:"omitempty,min=1,max=255"`
	ContactPerson    null.String `json:"contact_person" validate:"omitempty,max=255"`
	Phone            null.String `json:"phone" validate:"omitempty,min=10,max=20"`
	Email            null.String `json:"email" validate:"omitempty,email"`
	Address          null.String `json:"address"`
	InstallationDate null.String `json:"installation_date" validate:"omitempty,ymd_date"`
	EventDate        null.String `json:"event_date" validate:"omitempty,ymd_date"`
	DismantlingDate  null.String `json:"dismantling_date" validate:"omitempty,ymd_date"`
	Category         null.String `json:"category" validate:"omitempty,oneof=SON VIDEO LUMIERE MIXTE"`
	Status           null.String `json:"status" validate:"omitempty,oneof=PLANIFIE EN_COURS TERMINE ANNULE"`
	Notes            null.String `json:"notes"`
}
