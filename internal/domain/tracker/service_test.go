package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"medication-tracker/internal/adapters/storage/memory"
	"medication-tracker/internal/domain/doses"
	"medication-tracker/internal/domain/plans"
	"medication-tracker/internal/ports/snapshot"
)

type failingStore struct {
	*memory.SnapshotStore
	failSave bool
}

func (s *failingStore) Save(ctx context.Context, key string, payload []byte) error {
	if s.failSave {
		return errors.New("disk full")
	}
	return s.SnapshotStore.Save(ctx, key, payload)
}

type countingStore struct {
	*memory.SnapshotStore
	saves int
}

func (s *countingStore) Save(ctx context.Context, key string, payload []byte) error {
	s.saves++
	return s.SnapshotStore.Save(ctx, key, payload)
}

func newTestService(store snapshot.Store) *Service {
	svc := NewService(memory.NewPlanRepo(), memory.NewDoseRepo(), store, nil)
	svc.now = func() time.Time { return time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC) }
	n := 0
	svc.newID = func() string {
		n++
		return fmt.Sprintf("gen-%d", n)
	}
	return svc
}

func samplePlan() plans.TreatmentPlan {
	return plans.TreatmentPlan{
		ID:           "p1",
		Name:         "Flu",
		StartDate:    "2024-01-01",
		DurationDays: 2,
		Medications: []plans.Medication{
			{ID: "m1", Name: "A", Dosage: "1 pill", TimesPerDay: 2, FirstDoseTime: "08:00"},
		},
	}
}

func doseIDs(t *testing.T, svc *Service) []string {
	t.Helper()
	all, err := svc.ListDoses(context.Background(), "")
	if err != nil {
		t.Fatalf("ListDoses: %v", err)
	}
	ids := make([]string, 0, len(all))
	for _, d := range all {
		ids = append(ids, d.ID)
	}
	return ids
}

func assertReconciled(t *testing.T, svc *Service) {
	t.Helper()
	ctx := context.Background()

	ps, err := svc.ListPlans(ctx)
	if err != nil {
		t.Fatalf("ListPlans: %v", err)
	}
	var want []string
	for _, p := range ps {
		exp, err := doses.Expand(p)
		if err != nil {
			t.Fatalf("Expand: %v", err)
		}
		for _, d := range exp {
			want = append(want, d.ID)
		}
	}
	got := doseIDs(t, svc)
	sort.Strings(want)
	sort.Strings(got)
	if fmt.Sprint(want) != fmt.Sprint(got) {
		t.Fatalf("dose collection out of sync with plans:\n got=%v\nwant=%v", got, want)
	}
}

func TestAddPlan_GeneratesDoses(t *testing.T) {
	svc := newTestService(memory.NewSnapshotStore())

	p, err := svc.AddPlan(context.Background(), samplePlan())
	if err != nil {
		t.Fatalf("AddPlan: %v", err)
	}
	if p.ID != "p1" {
		t.Fatalf("expected caller id to be kept, got %q", p.ID)
	}

	want := []string{
		"p1:m1:2024-01-01:0", "p1:m1:2024-01-01:1",
		"p1:m1:2024-01-02:0", "p1:m1:2024-01-02:1",
	}
	if got := doseIDs(t, svc); fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	assertReconciled(t, svc)
}

func TestAddPlan_AssignsMissingIDs(t *testing.T) {
	svc := newTestService(nil)

	in := samplePlan()
	in.ID = ""
	in.Medications[0].ID = "  "

	p, err := svc.AddPlan(context.Background(), in)
	if err != nil {
		t.Fatalf("AddPlan: %v", err)
	}
	if p.ID != "gen-1" || p.Medications[0].ID != "gen-2" {
		t.Fatalf("unexpected generated ids: %+v", p)
	}
}

func TestAddPlan_InvalidLeavesStateUntouched(t *testing.T) {
	store := &countingStore{SnapshotStore: memory.NewSnapshotStore()}
	svc := newTestService(store)

	in := samplePlan()
	in.Medications[0].TimesPerDay = 0

	_, err := svc.AddPlan(context.Background(), in)
	var verr *plans.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if !errors.Is(err, plans.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput in chain")
	}
	if verr.Field != "medications[0].timesPerDay" {
		t.Fatalf("unexpected field %q", verr.Field)
	}

	ps, _ := svc.ListPlans(context.Background())
	if len(ps) != 0 || len(doseIDs(t, svc)) != 0 {
		t.Fatalf("state should be untouched")
	}
	if store.saves != 0 {
		t.Fatalf("invalid input must not be persisted")
	}
}

func TestAddPlan_DuplicateID(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()

	if _, err := svc.AddPlan(ctx, samplePlan()); err != nil {
		t.Fatalf("AddPlan: %v", err)
	}
	if _, err := svc.AddPlan(ctx, samplePlan()); !errors.Is(err, plans.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
	if n := len(doseIDs(t, svc)); n != 4 {
		t.Fatalf("expected 4 doses, got %d", n)
	}
}

func TestUpdatePlan_RegeneratesAndResetsTaken(t *testing.T) {
	svc := newTestService(memory.NewSnapshotStore())
	ctx := context.Background()

	other := samplePlan()
	other.ID = "p0"
	if _, err := svc.AddPlan(ctx, other); err != nil {
		t.Fatalf("AddPlan: %v", err)
	}
	if _, err := svc.AddPlan(ctx, samplePlan()); err != nil {
		t.Fatalf("AddPlan: %v", err)
	}
	if _, err := svc.ToggleDoseTaken(ctx, "p1:m1:2024-01-01:0"); err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if _, err := svc.ToggleDoseTaken(ctx, "p0:m1:2024-01-01:0"); err != nil {
		t.Fatalf("Toggle: %v", err)
	}

	edited := samplePlan()
	edited.Name = "Flu (edited)"
	edited.DurationDays = 1
	edited.Medications = append(edited.Medications, plans.Medication{
		ID: "m2", Name: "B", Dosage: "5 ml", TimesPerDay: 1, FirstDoseTime: "21:00",
	})
	if _, err := svc.UpdatePlan(ctx, edited); err != nil {
		t.Fatalf("UpdatePlan: %v", err)
	}

	all, _ := svc.ListDoses(ctx, "")
	for _, d := range all {
		if d.PlanID == "p1" {
			if d.Taken {
				t.Fatalf("edited plan doses must be reset: %+v", d)
			}
			if d.PlanName != "Flu (edited)" {
				t.Fatalf("dose should carry the new plan name: %+v", d)
			}
		}
		if d.ID == "p0:m1:2024-01-01:0" && !d.Taken {
			t.Fatalf("other plans must keep their taken flags")
		}
	}
	// Regeneradas al final de la colección.
	if last := all[len(all)-1]; last.ID != "p1:m2:2024-01-01:0" {
		t.Fatalf("expected regenerated doses at the end, got %s", last.ID)
	}

	ps, _ := svc.ListPlans(ctx)
	if len(ps) != 2 || ps[0].ID != "p0" || ps[1].ID != "p1" || ps[1].Name != "Flu (edited)" {
		t.Fatalf("plan must be replaced in place: %+v", ps)
	}
	assertReconciled(t, svc)
}

func TestUpdatePlan_NotFound(t *testing.T) {
	svc := newTestService(nil)
	if _, err := svc.UpdatePlan(context.Background(), samplePlan()); !errors.Is(err, plans.ErrPlanNotFound) {
		t.Fatalf("expected ErrPlanNotFound, got %v", err)
	}
}

func TestDeletePlan_Cascades(t *testing.T) {
	svc := newTestService(memory.NewSnapshotStore())
	ctx := context.Background()

	other := samplePlan()
	other.ID = "p0"
	_, _ = svc.AddPlan(ctx, other)
	_, _ = svc.AddPlan(ctx, samplePlan())

	if err := svc.DeletePlan(ctx, "p1"); err != nil {
		t.Fatalf("DeletePlan: %v", err)
	}
	for _, id := range doseIDs(t, svc) {
		if id[:3] == "p1:" {
			t.Fatalf("dose of deleted plan remains: %s", id)
		}
	}
	if _, err := svc.GetPlan(ctx, "p1"); !errors.Is(err, plans.ErrPlanNotFound) {
		t.Fatalf("expected plan gone, got %v", err)
	}
	assertReconciled(t, svc)
}

func TestDeletePlan_AbsentIsNoop(t *testing.T) {
	store := &countingStore{SnapshotStore: memory.NewSnapshotStore()}
	svc := newTestService(store)

	if err := svc.DeletePlan(context.Background(), "nope"); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if store.saves != 0 {
		t.Fatalf("no-op delete must not persist")
	}
}

func TestToggleDoseTaken(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()
	_, _ = svc.AddPlan(ctx, samplePlan())

	d, err := svc.ToggleDoseTaken(ctx, "p1:m1:2024-01-02:1")
	if err != nil || !d.Taken {
		t.Fatalf("expected taken=true, got %+v err=%v", d, err)
	}
	d, err = svc.ToggleDoseTaken(ctx, "p1:m1:2024-01-02:1")
	if err != nil || d.Taken {
		t.Fatalf("expected taken=false, got %+v err=%v", d, err)
	}

	if _, err := svc.ToggleDoseTaken(ctx, "missing"); !errors.Is(err, doses.ErrDoseNotFound) {
		t.Fatalf("expected ErrDoseNotFound, got %v", err)
	}
}

func TestToday_DefaultsToClockDate(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()
	_, _ = svc.AddPlan(ctx, samplePlan())
	_, _ = svc.ToggleDoseTaken(ctx, "p1:m1:2024-01-01:0")

	v, err := svc.Today(ctx, "")
	if err != nil {
		t.Fatalf("Today: %v", err)
	}
	if v.Date != "2024-01-01" || v.Total != 2 || v.TakenCount != 1 || v.PendingCount != 1 {
		t.Fatalf("unexpected view: %+v", v)
	}
	if v.Pending[0].Time != "20:00" || v.Taken[0].Time != "08:00" {
		t.Fatalf("unexpected partition: %+v", v)
	}

	if _, err := svc.Today(ctx, "01/01/2024"); !errors.Is(err, plans.ErrInvalidInput) {
		t.Fatalf("expected invalid date error, got %v", err)
	}
}

func TestDosesForPlan(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()
	_, _ = svc.AddPlan(ctx, samplePlan())

	items, err := svc.DosesForPlan(ctx, "p1")
	if err != nil || len(items) != 4 {
		t.Fatalf("expected 4 doses, got %d err=%v", len(items), err)
	}
	if _, err := svc.DosesForPlan(ctx, "zzz"); !errors.Is(err, plans.ErrPlanNotFound) {
		t.Fatalf("expected ErrPlanNotFound, got %v", err)
	}
}

func TestPersistence_RoundTrip(t *testing.T) {
	store := memory.NewSnapshotStore()
	ctx := context.Background()

	first := newTestService(store)
	_, _ = first.AddPlan(ctx, samplePlan())
	_, _ = first.ToggleDoseTaken(ctx, "p1:m1:2024-01-01:1")

	second := newTestService(store)
	if err := second.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}

	ps, _ := second.ListPlans(ctx)
	if len(ps) != 1 || ps[0].Name != "Flu" || len(ps[0].Medications) != 1 {
		t.Fatalf("plans not restored: %+v", ps)
	}
	all, _ := second.ListDoses(ctx, "")
	if len(all) != 4 || !all[1].Taken || all[0].Taken {
		t.Fatalf("doses not restored: %+v", all)
	}
}

func TestLoad_CorruptSnapshotStartsEmpty(t *testing.T) {
	store := memory.NewSnapshotStore()
	ctx := context.Background()
	_ = store.Save(ctx, snapshot.KeyPlans, []byte("{not json"))
	_ = store.Save(ctx, snapshot.KeyDoses, []byte(`[{"id":"x:y:2024-01-01:0","planId":"x"}]`))

	svc := newTestService(store)
	if err := svc.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	ps, _ := svc.ListPlans(ctx)
	if len(ps) != 0 {
		t.Fatalf("corrupt plans must start empty, got %+v", ps)
	}
	if n := len(doseIDs(t, svc)); n != 0 {
		t.Fatalf("doses without a stored plan must be dropped, got %d", n)
	}
}

func TestLoad_DropsDosesOfUnreadablePlans(t *testing.T) {
	store := memory.NewSnapshotStore()
	ctx := context.Background()

	generated, err := doses.Expand(samplePlan())
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	raw, err := json.Marshal(generated)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	_ = store.Save(ctx, snapshot.KeyPlans, []byte("{not json"))
	_ = store.Save(ctx, snapshot.KeyDoses, raw)

	svc := newTestService(store)
	if err := svc.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if n := len(doseIDs(t, svc)); n != 0 {
		t.Fatalf("expected orphan doses dropped, got %d", n)
	}
	assertReconciled(t, svc)

	if err := svc.DeletePlan(ctx, "p1"); err != nil {
		t.Fatalf("DeletePlan: %v", err)
	}
	if _, err := svc.AddPlan(ctx, samplePlan()); err != nil {
		t.Fatalf("re-adding the plan must succeed, got %v", err)
	}
	if n := len(doseIDs(t, svc)); n != 4 {
		t.Fatalf("expected 4 doses after re-add, got %d", n)
	}
	assertReconciled(t, svc)
}

func TestPersistFailure_KeepsMutation(t *testing.T) {
	store := &failingStore{SnapshotStore: memory.NewSnapshotStore(), failSave: true}
	svc := newTestService(store)
	ctx := context.Background()

	p, err := svc.AddPlan(ctx, samplePlan())
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
	if p.ID != "p1" {
		t.Fatalf("plan should still be returned, got %+v", p)
	}
	if n := len(doseIDs(t, svc)); n != 4 {
		t.Fatalf("in-memory state must keep the mutation, got %d doses", n)
	}

	if _, err := svc.ToggleDoseTaken(ctx, "p1:m1:2024-01-01:0"); !errors.Is(err, ErrPersistence) {
		t.Fatalf("expected ErrPersistence on toggle, got %v", err)
	}
	all, _ := svc.ListDoses(ctx, "2024-01-01")
	if !all[0].Taken {
		t.Fatalf("toggle must stay applied")
	}
}
