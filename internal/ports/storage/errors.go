package storage

import "errors"

// ErrUnavailable indica que no hay conexión al store (modo degradado).
// Las lecturas degradan a datos fijos; las escrituras lo propagan.
var ErrUnavailable = errors.New("store unavailable")
