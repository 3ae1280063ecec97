package doses

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"medication-tracker/internal/domain/plans"
)

// IDSeparator separa las partes del id compuesto de una dosis.
// Los ids de plan y medicamento no pueden contenerlo (ver plans.Validate).
const IDSeparator = ":"

// ID arma el id determinístico de una dosis: plan, medicamento, fecha, índice.
func ID(planID, medicationID, date string, index int) string {
	return strings.Join([]string{planID, medicationID, date, strconv.Itoa(index)}, IDSeparator)
}

// SlotTime calcula la hora mostrada de la toma i.
// El intervalo es real (24/timesPerDay); la hora se trunca y el minuto
// queda igual al de la primera toma. Con intervalos fraccionarios esto
// no redondea: 5 tomas desde 08:00 dan 08,12,17,22,03.
func SlotTime(hour, minute, timesPerDay, i int) string {
	interval := 24 / float64(timesPerDay)
	h := math.Mod(float64(hour)+interval*float64(i), 24)
	return fmt.Sprintf("%02d:%02d", int(h), minute)
}

// Expand convierte un plan en su calendario completo de dosis.
// Es pura y determinística: mismo plan => mismas dosis, ids incluidos.
// Orden: por día, luego por medicamento (orden del plan), luego por toma.
func Expand(p plans.TreatmentPlan) ([]Dose, error) {
	if p.DurationDays <= 0 {
		return []Dose{}, nil
	}

	start, err := plans.ParseDate(p.StartDate)
	if err != nil {
		return nil, &plans.ValidationError{Field: "startDate", Reason: "must match layout " + plans.DateLayout}
	}

	if p.DurationDays > plans.MaxDurationDays {
		return nil, &plans.ValidationError{
			Field:  "durationDays",
			Reason: "must be at most " + strconv.Itoa(plans.MaxDurationDays),
		}
	}

	type firstDose struct{ hour, minute int }
	firsts := make([]firstDose, len(p.Medications))
	perDay := 0
	for i, m := range p.Medications {
		t, err := time.Parse("15:04", m.FirstDoseTime)
		if err != nil {
			return nil, &plans.ValidationError{
				Field:  fmt.Sprintf("medications[%d].firstDoseTime", i),
				Reason: "must match layout 15:04",
			}
		}
		if m.TimesPerDay > plans.MaxTimesPerDay {
			return nil, &plans.ValidationError{
				Field:  fmt.Sprintf("medications[%d].timesPerDay", i),
				Reason: "must be at most " + strconv.Itoa(plans.MaxTimesPerDay),
			}
		}
		firsts[i] = firstDose{hour: t.Hour(), minute: t.Minute()}
		if m.TimesPerDay > 0 {
			perDay += m.TimesPerDay
		}
	}

	out := make([]Dose, 0, p.DurationDays*perDay)
	for d := 0; d < p.DurationDays; d++ {
		date := start.AddDate(0, 0, d).Format(plans.DateLayout)

		for mi, m := range p.Medications {
			for i := 0; i < m.TimesPerDay; i++ {
				out = append(out, Dose{
					ID:             ID(p.ID, m.ID, date, i),
					PlanID:         p.ID,
					PlanName:       p.Name,
					MedicationID:   m.ID,
					MedicationName: m.Name,
					Dosage:         m.Dosage,
					Time:           SlotTime(firsts[mi].hour, firsts[mi].minute, m.TimesPerDay, i),
					Date:           date,
					Taken:          false,
				})
			}
		}
	}
	return out, nil
}
