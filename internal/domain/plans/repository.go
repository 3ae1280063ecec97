package plans

import "context"

// Repository es el Plan Store. Conserva el orden de inserción.
type Repository interface {
	Create(ctx context.Context, p TreatmentPlan) error
	Update(ctx context.Context, p TreatmentPlan) error
	Delete(ctx context.Context, id string) (bool, error)
	GetByID(ctx context.Context, id string) (TreatmentPlan, error)
	List(ctx context.Context) ([]TreatmentPlan, error)

	// Replace reemplaza la colección completa (carga de snapshot).
	Replace(ctx context.Context, items []TreatmentPlan) error
}
