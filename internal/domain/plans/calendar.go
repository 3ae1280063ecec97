package plans

import (
	"strings"
	"time"
)

// DateLayout es el formato ISO de fecha calendario usado en planes y dosis.
const DateLayout = "2006-01-02"

// ParseDate interpreta YYYY-MM-DD como medianoche UTC.
// Sumar días sobre UTC evita saltos por horario de verano.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(s))
}

// FormatDate devuelve la fecha calendario local de t (sin conversión de zona).
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// IsActive: startDate <= today < startDate + durationDays, solo por fecha.
// Fechas inválidas => false.
func IsActive(p TreatmentPlan, today string) bool {
	start, err := ParseDate(p.StartDate)
	if err != nil {
		return false
	}
	day, err := ParseDate(today)
	if err != nil {
		return false
	}
	end := start.AddDate(0, 0, p.DurationDays)
	return !day.Before(start) && day.Before(end)
}
