// Package report agrupa los value objects compartidos por reportes de
// mascotas perdidas y avistamientos.
package report

import (
	"strings"
)

type ContactChannel string

const (
	ContactPhone ContactChannel = "phone"
	ContactEmail ContactChannel = "email"
)

type Contact struct {
	Name      string
	Phone     string
	Email     string
	Preferred ContactChannel
}

// IsEmpty indica que no hay forma de contactar (ni teléfono ni email).
func (c Contact) IsEmpty() bool {
	return strings.TrimSpace(c.Phone) == "" && strings.TrimSpace(c.Email) == ""
}

// Normalize recorta espacios y completa el canal preferido cuando falta
// o apunta a un dato vacío.
func (c Contact) Normalize() Contact {
	out := Contact{
		Name:      strings.TrimSpace(c.Name),
		Phone:     strings.TrimSpace(c.Phone),
		Email:     strings.TrimSpace(c.Email),
		Preferred: ContactChannel(strings.ToLower(strings.TrimSpace(string(c.Preferred)))),
	}

	switch out.Preferred {
	case ContactPhone:
		if out.Phone == "" && out.Email != "" {
			out.Preferred = ContactEmail
		}
	case ContactEmail:
		if out.Email == "" && out.Phone != "" {
			out.Preferred = ContactPhone
		}
	default:
		switch {
		case out.Phone != "":
			out.Preferred = ContactPhone
		case out.Email != "":
			out.Preferred = ContactEmail
		default:
			out.Preferred = ""
		}
	}
	return out
}

type Coordinates struct {
	Lat float64
	Lng float64
}

// Valid chequea rangos WGS84.
func (c Coordinates) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}
