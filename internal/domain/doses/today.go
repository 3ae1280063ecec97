package doses

import "sort"

// TodayView es la proyección del día: dosis pendientes y tomadas,
// cada grupo ordenado por hora.
type TodayView struct {
	Date string `json:"date"`

	Total        int `json:"total"`
	TakenCount   int `json:"takenCount"`
	PendingCount int `json:"pendingCount"`

	Pending []Dose `json:"pending"`
	Taken   []Dose `json:"taken"`
}

// Today filtra las dosis de la fecha dada, las ordena por hora (estable)
// y las separa por estado. La fecha la decide quien llama.
func Today(all []Dose, today string) TodayView {
	day := make([]Dose, 0)
	for _, d := range all {
		if d.Date == today {
			day = append(day, d)
		}
	}

	// HH:MM con cero a la izquierda => comparar strings alcanza.
	sort.SliceStable(day, func(i, j int) bool {
		return day[i].Time < day[j].Time
	})

	v := TodayView{
		Date:    today,
		Total:   len(day),
		Pending: make([]Dose, 0),
		Taken:   make([]Dose, 0),
	}
	for _, d := range day {
		if d.Taken {
			v.Taken = append(v.Taken, d)
		} else {
			v.Pending = append(v.Pending, d)
		}
	}
	v.TakenCount = len(v.Taken)
	v.PendingCount = len(v.Pending)
	return v
}

// ByPlan devuelve las dosis de un plan respetando el orden de la colección.
func ByPlan(all []Dose, planID string) []Dose {
	out := make([]Dose, 0)
	for _, d := range all {
		if d.PlanID == planID {
			out = append(out, d)
		}
	}
	return out
}

// ByDate devuelve las dosis de una fecha respetando el orden de la colección.
func ByDate(all []Dose, date string) []Dose {
	out := make([]Dose, 0)
	for _, d := range all {
		if d.Date == date {
			out = append(out, d)
		}
	}
	return out
}
