package snapshot

import (
	"context"
	"errors"
)

// Claves de las dos colecciones persistidas.
const (
	KeyPlans = "treatment_plans"
	KeyDoses = "doses"
)

var ErrNotFound = errors.New("snapshot not found")

// Store guarda colecciones completas por clave (get-all / replace-all).
// Load devuelve ErrNotFound si la clave nunca se guardó.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, payload []byte) error
}
