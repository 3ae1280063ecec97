package memory

import (
	"context"
	"errors"
	"sync"

	"medication-tracker/internal/domain/doses"
)

// doseRepo es la colección de dosis en orden de inserción,
// con índice por id para toggles.
type doseRepo struct {
	mu    sync.RWMutex
	items []doses.Dose
	index map[string]int
}

func NewDoseRepo() doses.Repository {
	return &doseRepo{
		index: make(map[string]int),
	}
}

func (r *doseRepo) List(ctx context.Context) ([]doses.Dose, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]doses.Dose, len(r.items))
	copy(out, r.items)
	return out, nil
}

func (r *doseRepo) GetByID(ctx context.Context, id string) (doses.Dose, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[id]
	if !ok {
		return doses.Dose{}, doses.ErrDoseNotFound
	}
	return r.items[i], nil
}

func (r *doseRepo) Append(ctx context.Context, items []doses.Dose) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Validamos todo antes de tocar el estado.
	seen := make(map[string]struct{}, len(items))
	for _, d := range items {
		if d.ID == "" {
			return errors.New("dose id required")
		}
		if _, exists := r.index[d.ID]; exists {
			return errors.New("dose already exists: " + d.ID)
		}
		if _, dup := seen[d.ID]; dup {
			return errors.New("duplicate dose id: " + d.ID)
		}
		seen[d.ID] = struct{}{}
	}

	for _, d := range items {
		r.index[d.ID] = len(r.items)
		r.items = append(r.items, d)
	}
	return nil
}

func (r *doseRepo) Update(ctx context.Context, d doses.Dose) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[d.ID]
	if !ok {
		return doses.ErrDoseNotFound
	}
	r.items[i] = d
	return nil
}

func (r *doseRepo) DeleteByPlan(ctx context.Context, planID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := make([]doses.Dose, 0, len(r.items))
	for _, d := range r.items {
		if d.PlanID != planID {
			kept = append(kept, d)
		}
	}
	removed := len(r.items) - len(kept)
	if removed > 0 {
		r.items = kept
		r.reindex()
	}
	return removed, nil
}

func (r *doseRepo) Replace(ctx context.Context, items []doses.Dose) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := make([]doses.Dose, len(items))
	copy(next, items)

	index := make(map[string]int, len(next))
	for i, d := range next {
		if _, dup := index[d.ID]; dup {
			return errors.New("duplicate dose id: " + d.ID)
		}
		index[d.ID] = i
	}
	r.items = next
	r.index = index
	return nil
}

func (r *doseRepo) reindex() {
	r.index = make(map[string]int, len(r.items))
	for i, d := range r.items {
		r.index[d.ID] = i
	}
}
