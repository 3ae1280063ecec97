package medinfo

import (
	"context"
	"errors"
)

var (
	ErrInvalidInput = errors.New("medication name required")
	// ErrUnavailable: el proveedor no respondió o respondió con error.
	ErrUnavailable = errors.New("medication info unavailable")
)

// Info es texto de referencia sobre un medicamento.
type Info struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Source      string `json:"source"`
}

// Lookup describe un medicamento por nombre.
type Lookup interface {
	Describe(ctx context.Context, name string) (Info, error)
}
