package doses

import "errors"

var (
	ErrDoseNotFound = errors.New("dose not found")
)

// Dose es una toma concreta (fecha + hora) de un medicamento.
// Los campos de plan y medicamento son una copia al momento de generarla;
// nunca se parchean, se regeneran.
type Dose struct {
	ID string `json:"id"`

	PlanID   string `json:"planId"`
	PlanName string `json:"planName"`

	MedicationID   string `json:"medicationId"`
	MedicationName string `json:"medicationName"`
	Dosage         string `json:"dosage"`

	Time string `json:"time"` // HH:MM
	Date string `json:"date"` // YYYY-MM-DD

	// Único campo que se modifica después de generar.
	Taken bool `json:"taken"`
}
