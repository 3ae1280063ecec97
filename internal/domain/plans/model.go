package plans

// Límites de un plan guardable. Acotan el tamaño del calendario generado
// (MaxDurationDays * MaxTimesPerDay dosis por medicamento).
const (
	MaxDurationDays = 3650
	MaxTimesPerDay  = 24
)

// Medication es un medicamento dentro de un plan de tratamiento.
// Pertenece a exactamente un TreatmentPlan.
type Medication struct {
	ID     string `json:"id" validate:"excludes=:"`
	Name   string `json:"name" validate:"required"`
	Dosage string `json:"dosage" validate:"required"` // texto libre: "500 mg", "2 ml"

	TimesPerDay   int    `json:"timesPerDay" validate:"min=1,max=24"`
	FirstDoseTime string `json:"firstDoseTime" validate:"required,datetime=15:04"` // HH:MM (24h)
}

// TreatmentPlan es el agregado raíz: un calendario de medicamentos
// sobre un rango fijo de fechas.
type TreatmentPlan struct {
	ID   string `json:"id" validate:"excludes=:"`
	Name string `json:"name" validate:"required"`

	StartDate    string `json:"startDate" validate:"required,datetime=2006-01-02"` // YYYY-MM-DD, sin hora
	DurationDays int    `json:"durationDays" validate:"min=1,max=3650"`

	// El orden importa para la UI y para el orden de generación de dosis.
	Medications []Medication `json:"medications" validate:"min=1,dive"`
}

// Clone devuelve una copia que no comparte el slice de medicamentos.
func (p TreatmentPlan) Clone() TreatmentPlan {
	out := p
	if p.Medications != nil {
		out.Medications = make([]Medication, len(p.Medications))
		copy(out.Medications, p.Medications)
	}
	return out
}
