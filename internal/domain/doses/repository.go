package doses

import "context"

// Repository guarda la colección de dosis en orden de inserción.
type Repository interface {
	List(ctx context.Context) ([]Dose, error)
	GetByID(ctx context.Context, id string) (Dose, error)
	Append(ctx context.Context, items []Dose) error
	Update(ctx context.Context, d Dose) error
	DeleteByPlan(ctx context.Context, planID string) (int, error)

	// Replace reemplaza la colección completa (carga de snapshot).
	Replace(ctx context.Context, items []Dose) error
}
