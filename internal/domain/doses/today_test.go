package doses

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToday_FiltersSortsAndPartitions(t *testing.T) {
	all := []Dose{
		{ID: "a", Date: "2025-01-01", Time: "20:00"},
		{ID: "b", Date: "2025-01-02", Time: "08:00"},
		{ID: "c", Date: "2025-01-01", Time: "08:00", Taken: true},
		{ID: "d", Date: "2025-01-01", Time: "12:00"},
		{ID: "e", Date: "2025-01-01", Time: "06:00", Taken: true},
	}

	v := Today(all, "2025-01-01")

	assert.Equal(t, "2025-01-01", v.Date)
	assert.Equal(t, 4, v.Total)
	assert.Equal(t, 2, v.TakenCount)
	assert.Equal(t, 2, v.PendingCount)
	assert.Equal(t, []string{"d", "a"}, ids(v.Pending))
	assert.Equal(t, []string{"e", "c"}, ids(v.Taken))
}

func TestToday_StableForEqualTimes(t *testing.T) {
	all := []Dose{
		{ID: "x", Date: "2025-01-01", Time: "08:00"},
		{ID: "y", Date: "2025-01-01", Time: "08:00"},
		{ID: "z", Date: "2025-01-01", Time: "07:00"},
	}

	v := Today(all, "2025-01-01")
	assert.Equal(t, []string{"z", "x", "y"}, ids(v.Pending))
}

func TestToday_EmptyIsNotAnError(t *testing.T) {
	v := Today(nil, "2025-01-01")
	assert.Equal(t, 0, v.Total)
	assert.NotNil(t, v.Pending)
	assert.NotNil(t, v.Taken)
	assert.Empty(t, v.Pending)
}

func TestByPlan_KeepsCollectionOrder(t *testing.T) {
	all := []Dose{
		{ID: "1", PlanID: "p1"},
		{ID: "2", PlanID: "p2"},
		{ID: "3", PlanID: "p1"},
	}
	assert.Equal(t, []string{"1", "3"}, ids(ByPlan(all, "p1")))
	assert.Empty(t, ByPlan(all, "missing"))
}

func ids(ds []Dose) []string {
	out := make([]string, 0, len(ds))
	for _, d := range ds {
		out = append(out, d.ID)
	}
	return out
}
