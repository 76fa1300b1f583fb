package matches

import "time"

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusRejected  Status = "rejected"
)

// Match vincula un avistamiento con una mascota perdida.
// Confidence es el valor que pasó el umbral al crearse; no se recalcula.
type Match struct {
	ID         string
	LostPetID  string
	SightingID string
	Confidence float64
	Status     Status
	Notes      string
	CreatedAt  time.Time
}
