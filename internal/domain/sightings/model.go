package sightings

import (
	"time"

	"regresa/internal/domain/report"
)

// Kind describe la situación del animal avistado.
type Kind string

const (
	KindSoloAnimal    Kind = "solo-animal"
	KindResemblesLost Kind = "resembles-lost"
	KindWithOwner     Kind = "with-owner"
	KindInDanger      Kind = "in-danger"
)

func (k Kind) Valid() bool {
	switch k {
	case KindSoloAnimal, KindResemblesLost, KindWithOwner, KindInDanger:
		return true
	default:
		return false
	}
}

// Sighting es inmutable una vez creado (solo se puede borrar).
type Sighting struct {
	ID             string
	ReporterUserID string // vacío = anónimo
	LostPetID      string // opcional, si el que reporta cree reconocerla

	AnimalType  string
	Size        string
	Color       string
	Description string
	Kind        Kind

	Location    string
	Coordinates *report.Coordinates
	ImageURL    string

	Contact report.Contact

	// SightedAt lo informa quien reporta; puede faltar.
	SightedAt *time.Time
	CreatedAt time.Time
}
