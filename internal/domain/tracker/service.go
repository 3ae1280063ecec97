package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"medication-tracker/internal/domain/doses"
	"medication-tracker/internal/domain/plans"
	"medication-tracker/internal/platform/logger"
	"medication-tracker/internal/platform/metrics"
	"medication-tracker/internal/ports/snapshot"
)

// ErrPersistence: el cambio quedó aplicado en memoria pero no se pudo guardar.
var ErrPersistence = errors.New("changes applied but not persisted")

// Service es la sesión del tracker: mantiene planes y dosis reconciliados
// y guarda el snapshot completo después de cada cambio.
type Service struct {
	mu sync.Mutex

	plans plans.Repository
	doses doses.Repository
	store snapshot.Store
	log   logger.Logger

	now   func() time.Time
	newID func() string
}

func NewService(planRepo plans.Repository, doseRepo doses.Repository, store snapshot.Store, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		plans: planRepo,
		doses: doseRepo,
		store: store,
		log:   log.With(map[string]any{"component": "tracker"}),
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Load lee el snapshot guardado. Una colección ausente o ilegible arranca vacía.
func (s *Service) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	storedPlans := loadCollection[plans.TreatmentPlan](ctx, s, snapshot.KeyPlans)
	storedDoses := loadCollection[doses.Dose](ctx, s, snapshot.KeyDoses)

	if err := s.plans.Replace(ctx, storedPlans); err != nil {
		s.log.Warn("discarding stored plans", map[string]any{"err": err})
		_ = s.plans.Replace(ctx, nil)
		storedPlans = nil
	}

	// Las dosis solo valen si su plan sigue existiendo; si no, un AddPlan
	// posterior con el mismo id chocaría con ids ya presentes.
	storedDoses, dropped := dropOrphanDoses(storedPlans, storedDoses)
	if dropped > 0 {
		s.log.Warn("dropping orphan doses", map[string]any{"dropped": dropped})
	}

	if err := s.doses.Replace(ctx, storedDoses); err != nil {
		s.log.Warn("discarding stored doses", map[string]any{"err": err})
		_ = s.doses.Replace(ctx, nil)
	}

	s.log.Info("snapshot loaded", map[string]any{
		"plans": len(storedPlans),
		"doses": len(storedDoses),
	})
	return nil
}

func dropOrphanDoses(ps []plans.TreatmentPlan, ds []doses.Dose) ([]doses.Dose, int) {
	known := make(map[string]struct{}, len(ps))
	for _, p := range ps {
		known[p.ID] = struct{}{}
	}
	kept := make([]doses.Dose, 0, len(ds))
	for _, d := range ds {
		if _, ok := known[d.PlanID]; ok {
			kept = append(kept, d)
		}
	}
	return kept, len(ds) - len(kept)
}

func loadCollection[T any](ctx context.Context, s *Service, key string) []T {
	if s.store == nil {
		return nil
	}
	raw, err := s.store.Load(ctx, key)
	if err != nil {
		if errors.Is(err, snapshot.ErrNotFound) {
			s.log.Debug("no stored value", map[string]any{"key": key})
		} else {
			s.log.Warn("snapshot load failed, starting empty", map[string]any{"key": key, "err": err})
		}
		return nil
	}
	if len(raw) == 0 {
		return nil
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		s.log.Warn("snapshot undecodable, starting empty", map[string]any{"key": key, "err": err})
		return nil
	}
	return out
}

// AddPlan valida, guarda el plan y agrega sus dosis.
// Si falla el guardado del snapshot devuelve el plan junto con ErrPersistence.
func (s *Service) AddPlan(ctx context.Context, p plans.TreatmentPlan) (plans.TreatmentPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, generated, err := s.prepare(p, true)
	if err != nil {
		s.countMutation("add", err)
		return plans.TreatmentPlan{}, err
	}

	if err := s.plans.Create(ctx, p); err != nil {
		s.countMutation("add", err)
		return plans.TreatmentPlan{}, err
	}
	if err := s.doses.Append(ctx, generated); err != nil {
		_, _ = s.plans.Delete(ctx, p.ID)
		s.countMutation("add", err)
		return plans.TreatmentPlan{}, fmt.Errorf("append doses: %w", err)
	}
	metrics.DosesGenerated.Add(float64(len(generated)))

	s.log.Info("plan added", map[string]any{"plan_id": p.ID, "doses": len(generated)})
	err = s.persist(ctx)
	s.countMutation("add", err)
	return p, err
}

// UpdatePlan reemplaza el plan y regenera todas sus dosis.
// Las marcas de tomada del plan se pierden.
func (s *Service) UpdatePlan(ctx context.Context, p plans.TreatmentPlan) (plans.TreatmentPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, generated, err := s.prepare(p, false)
	if err != nil {
		s.countMutation("update", err)
		return plans.TreatmentPlan{}, err
	}

	prev, err := s.plans.GetByID(ctx, p.ID)
	if err != nil {
		s.countMutation("update", err)
		return plans.TreatmentPlan{}, err
	}
	prevDoses, err := s.doses.List(ctx)
	if err != nil {
		s.countMutation("update", err)
		return plans.TreatmentPlan{}, err
	}

	if err := s.plans.Update(ctx, p); err != nil {
		s.countMutation("update", err)
		return plans.TreatmentPlan{}, err
	}
	removed, err := s.doses.DeleteByPlan(ctx, p.ID)
	if err == nil {
		err = s.doses.Append(ctx, generated)
	}
	if err != nil {
		_ = s.plans.Update(ctx, prev)
		_ = s.doses.Replace(ctx, prevDoses)
		s.countMutation("update", err)
		return plans.TreatmentPlan{}, fmt.Errorf("regenerate doses: %w", err)
	}
	metrics.DosesGenerated.Add(float64(len(generated)))

	s.log.Info("plan updated", map[string]any{
		"plan_id": p.ID,
		"removed": removed,
		"doses":   len(generated),
	})
	err = s.persist(ctx)
	s.countMutation("update", err)
	return p, err
}

// DeletePlan borra el plan y sus dosis. Un id inexistente no es error.
func (s *Service) DeletePlan(ctx context.Context, planID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	planID = strings.TrimSpace(planID)
	ok, err := s.plans.Delete(ctx, planID)
	if err != nil {
		s.countMutation("delete", err)
		return err
	}
	if !ok {
		s.countMutation("delete", nil)
		return nil
	}
	removed, err := s.doses.DeleteByPlan(ctx, planID)
	if err != nil {
		s.countMutation("delete", err)
		return err
	}

	s.log.Info("plan deleted", map[string]any{"plan_id": planID, "removed": removed})
	err = s.persist(ctx)
	s.countMutation("delete", err)
	return err
}

// ToggleDoseTaken invierte la marca de tomada de una dosis.
func (s *Service) ToggleDoseTaken(ctx context.Context, doseID string) (doses.Dose, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.doses.GetByID(ctx, strings.TrimSpace(doseID))
	if err != nil {
		return doses.Dose{}, err
	}
	d.Taken = !d.Taken
	if err := s.doses.Update(ctx, d); err != nil {
		return doses.Dose{}, err
	}
	metrics.DoseToggles.WithLabelValues(strconv.FormatBool(d.Taken)).Inc()

	s.log.Debug("dose toggled", map[string]any{"dose_id": d.ID, "taken": d.Taken})
	return d, s.persist(ctx)
}

func (s *Service) ListPlans(ctx context.Context) ([]plans.TreatmentPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.plans.List(ctx)
}

func (s *Service) GetPlan(ctx context.Context, planID string) (plans.TreatmentPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.plans.GetByID(ctx, strings.TrimSpace(planID))
}

// ListDoses devuelve la colección completa, o solo la fecha dada si date != "".
func (s *Service) ListDoses(ctx context.Context, date string) ([]doses.Dose, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.doses.List(ctx)
	if err != nil {
		return nil, err
	}
	date = strings.TrimSpace(date)
	if date == "" {
		return all, nil
	}
	if err := checkDate(date); err != nil {
		return nil, err
	}
	return doses.ByDate(all, date), nil
}

func (s *Service) DosesForPlan(ctx context.Context, planID string) ([]doses.Dose, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.plans.GetByID(ctx, planID); err != nil {
		return nil, err
	}
	all, err := s.doses.List(ctx)
	if err != nil {
		return nil, err
	}
	return doses.ByPlan(all, planID), nil
}

// Today arma la vista del día. date vacío => fecha local actual.
func (s *Service) Today(ctx context.Context, date string) (doses.TodayView, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		date = s.TodayDate()
	} else if err := checkDate(date); err != nil {
		return doses.TodayView{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.doses.List(ctx)
	if err != nil {
		return doses.TodayView{}, err
	}
	return doses.Today(all, date), nil
}

// TodayDate es la fecha calendario local del reloj del servicio.
func (s *Service) TodayDate() string {
	return plans.FormatDate(s.now())
}

// prepare normaliza, completa ids faltantes, valida y expande.
func (s *Service) prepare(p plans.TreatmentPlan, isNew bool) (plans.TreatmentPlan, []doses.Dose, error) {
	p = plans.Normalize(p)
	if p.ID == "" {
		if !isNew {
			return plans.TreatmentPlan{}, nil, &plans.ValidationError{Field: "id", Reason: "is required"}
		}
		p.ID = s.newID()
	}
	for i := range p.Medications {
		if p.Medications[i].ID == "" {
			p.Medications[i].ID = s.newID()
		}
	}

	if err := plans.Validate(p); err != nil {
		return plans.TreatmentPlan{}, nil, err
	}
	generated, err := doses.Expand(p)
	if err != nil {
		return plans.TreatmentPlan{}, nil, err
	}
	return p, generated, nil
}

// persist escribe ambas colecciones completas. Se llama con mu tomado.
func (s *Service) persist(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	err := s.writeSnapshot(ctx)
	metrics.SnapshotWrites.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		s.log.Error("snapshot save failed", map[string]any{"err": err})
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return nil
}

func (s *Service) writeSnapshot(ctx context.Context) error {
	allPlans, err := s.plans.List(ctx)
	if err != nil {
		return err
	}
	allDoses, err := s.doses.List(ctx)
	if err != nil {
		return err
	}

	rawPlans, err := json.Marshal(allPlans)
	if err != nil {
		return fmt.Errorf("encode plans: %w", err)
	}
	rawDoses, err := json.Marshal(allDoses)
	if err != nil {
		return fmt.Errorf("encode doses: %w", err)
	}

	if err := s.store.Save(ctx, snapshot.KeyPlans, rawPlans); err != nil {
		return err
	}
	return s.store.Save(ctx, snapshot.KeyDoses, rawDoses)
}

func (s *Service) countMutation(op string, err error) {
	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, plans.ErrInvalidInput):
		result = "invalid"
	case errors.Is(err, plans.ErrPlanNotFound):
		result = "not_found"
	case errors.Is(err, plans.ErrAlreadyExists):
		result = "conflict"
	case errors.Is(err, ErrPersistence):
		result = "not_persisted"
	default:
		result = "error"
	}
	metrics.PlanMutations.WithLabelValues(op, result).Inc()
}

func checkDate(date string) error {
	if _, err := plans.ParseDate(date); err != nil {
		return &plans.ValidationError{Field: "date", Reason: "must match layout " + plans.DateLayout}
	}
	return nil
}
