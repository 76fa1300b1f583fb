package lostpets

import (
	"time"

	"regresa/internal/domain/report"
)

// Status del caso. La transición lost -> found es de una sola vía.
type Status string

const (
	StatusLost  Status = "lost"
	StatusFound Status = "found"
)

func (s Status) Valid() bool {
	return s == StatusLost || s == StatusFound
}

// LostPet es el reporte de una mascota perdida.
type LostPet struct {
	ID          string
	OwnerUserID string // vacío si el reporte fue anónimo

	Name        string
	Type        string // perro, gato, ave, otro (texto libre)
	Breed       string
	Color       string
	Size        string
	Age         string
	Description string

	Location    string
	Coordinates *report.Coordinates

	ImageURL string
	Contact  report.Contact

	Status Status

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasImage indica si el reporte puede entrar al matching por imagen.
func (p LostPet) HasImage() bool {
	return p.ImageURL != ""
}
