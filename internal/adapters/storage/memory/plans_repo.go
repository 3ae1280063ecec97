package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"medication-tracker/internal/domain/plans"
)

// planRepo mantiene los planes en orden de inserción.
type planRepo struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]plans.TreatmentPlan
}

func NewPlanRepo() plans.Repository {
	return &planRepo{
		byID: make(map[string]plans.TreatmentPlan),
	}
}

func (r *planRepo) Create(ctx context.Context, p plans.TreatmentPlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return errors.New("plan id required")
	}
	if _, exists := r.byID[p.ID]; exists {
		return plans.ErrAlreadyExists
	}
	r.byID[p.ID] = p.Clone()
	r.order = append(r.order, p.ID)
	return nil
}

func (r *planRepo) Update(ctx context.Context, p plans.TreatmentPlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[p.ID]; !exists {
		return plans.ErrPlanNotFound
	}
	// Reemplazo en el lugar: la posición no cambia.
	r.byID[p.ID] = p.Clone()
	return nil
}

func (r *planRepo) Delete(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return false, nil
	}
	delete(r.byID, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true, nil
}

func (r *planRepo) GetByID(ctx context.Context, id string) (plans.TreatmentPlan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return plans.TreatmentPlan{}, plans.ErrPlanNotFound
	}
	return p.Clone(), nil
}

func (r *planRepo) List(ctx context.Context) ([]plans.TreatmentPlan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]plans.TreatmentPlan, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id].Clone())
	}
	return out, nil
}

func (r *planRepo) Replace(ctx context.Context, items []plans.TreatmentPlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	byID := make(map[string]plans.TreatmentPlan, len(items))
	order := make([]string, 0, len(items))
	for _, p := range items {
		if strings.TrimSpace(p.ID) == "" {
			return errors.New("plan id required")
		}
		if _, dup := byID[p.ID]; dup {
			return plans.ErrAlreadyExists
		}
		byID[p.ID] = p.Clone()
		order = append(order, p.ID)
	}
	r.byID = byID
	r.order = order
	return nil
}
