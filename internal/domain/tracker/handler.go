package tracker

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"medication-tracker/internal/domain/doses"
	"medication-tracker/internal/domain/plans"
	"medication-tracker/internal/ports/medinfo"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, info medinfo.Lookup) {
	r.Route("/plans", func(pr chi.Router) {
		pr.Get("/", listPlansHandler(svc))
		pr.Post("/", createPlanHandler(svc))

		pr.Get("/{planID}", getPlanHandler(svc))
		pr.Put("/{planID}", updatePlanHandler(svc))
		pr.Delete("/{planID}", deletePlanHandler(svc))
		pr.Get("/{planID}/doses", planDosesHandler(svc))
	})

	r.Get("/doses", listDosesHandler(svc))
	r.Post("/doses/{doseID}/toggle", toggleDoseHandler(svc))
	r.Get("/today", todayHandler(svc))

	if info != nil {
		r.Get("/medications/info", medicationInfoHandler(info))
	}
}

// medicationRequest es un medicamento dentro del cuerpo de un plan.
type medicationRequest struct {
	ID            string `json:"id"` // opcional; si falta se genera
	Name          string `json:"name"`
	Dosage        string `json:"dosage"`
	TimesPerDay   int    `json:"timesPerDay"`
	FirstDoseTime string `json:"firstDoseTime"` // HH:MM
}

// planRequest es el cuerpo para crear o editar un plan de tratamiento.
type planRequest struct {
	ID           string              `json:"id"` // opcional en POST; en PUT manda el path
	Name         string              `json:"name"`
	StartDate    string              `json:"startDate"` // YYYY-MM-DD
	DurationDays int                 `json:"durationDays"`
	Medications  []medicationRequest `json:"medications"`
}

func (req planRequest) toPlan() plans.TreatmentPlan {
	p := plans.TreatmentPlan{
		ID:           req.ID,
		Name:         req.Name,
		StartDate:    req.StartDate,
		DurationDays: req.DurationDays,
		Medications:  make([]plans.Medication, 0, len(req.Medications)),
	}
	for _, m := range req.Medications {
		p.Medications = append(p.Medications, plans.Medication{
			ID:            m.ID,
			Name:          m.Name,
			Dosage:        m.Dosage,
			TimesPerDay:   m.TimesPerDay,
			FirstDoseTime: m.FirstDoseTime,
		})
	}
	return p
}

// planResponse es un plan con su estado activo respecto de la fecha consultada.
type planResponse struct {
	plans.TreatmentPlan
	Active bool `json:"active"`
}

type infoResponse struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Source      string `json:"source"`
}

// listPlansHandler godoc
// @Summary Listar planes de tratamiento
// @Description Lista los planes en orden de alta. Cada plan indica si está activo en la fecha dada (por defecto, hoy).
// @Tags plans
// @Produce json
// @Param date query string false "Fecha de referencia YYYY-MM-DD"
// @Success 200 {array} planResponse
// @Failure 400 {string} string "date inválida"
// @Failure 500 {string} string "internal error"
// @Router /plans [get]
func listPlansHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date, err := dateParam(r, svc)
		if err != nil {
			writeError(w, err)
			return
		}

		items, err := svc.ListPlans(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]planResponse, 0, len(items))
		for _, p := range items {
			out = append(out, planResponse{TreatmentPlan: p, Active: plans.IsActive(p, date)})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// createPlanHandler godoc
// @Summary Crear plan de tratamiento
// @Description Valida el plan, lo guarda y genera todas sus dosis. Los ids faltantes (plan o medicamentos) se generan.
// @Tags plans
// @Accept json
// @Produce json
// @Param payload body planRequest true "Plan de tratamiento"
// @Success 201 {object} plans.TreatmentPlan
// @Failure 400 {string} string "invalid json / validación"
// @Failure 409 {string} string "plan already exists"
// @Failure 500 {string} string "changes applied but not persisted"
// @Router /plans [post]
func createPlanHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req planRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		p, err := svc.AddPlan(r.Context(), req.toPlan())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, p)
	}
}

// getPlanHandler godoc
// @Summary Obtener plan
// @Tags plans
// @Produce json
// @Param planID path string true "ID del plan"
// @Success 200 {object} plans.TreatmentPlan
// @Failure 404 {string} string "plan not found"
// @Router /plans/{planID} [get]
func getPlanHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.GetPlan(r.Context(), chi.URLParam(r, "planID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

// updatePlanHandler godoc
// @Summary Editar plan de tratamiento
// @Description Reemplaza el plan y regenera todas sus dosis. Las marcas de tomada del plan se pierden.
// @Tags plans
// @Accept json
// @Produce json
// @Param planID path string true "ID del plan"
// @Param payload body planRequest true "Plan de tratamiento; el id del path tiene prioridad"
// @Success 200 {object} plans.TreatmentPlan
// @Failure 400 {string} string "invalid json / validación"
// @Failure 404 {string} string "plan not found"
// @Failure 500 {string} string "changes applied but not persisted"
// @Router /plans/{planID} [put]
func updatePlanHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req planRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		req.ID = chi.URLParam(r, "planID")

		p, err := svc.UpdatePlan(r.Context(), req.toPlan())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

// deletePlanHandler godoc
// @Summary Eliminar plan de tratamiento
// @Description Borra el plan y todas sus dosis. Borrar un plan inexistente no es error.
// @Tags plans
// @Param planID path string true "ID del plan"
// @Success 204 "sin contenido"
// @Failure 500 {string} string "changes applied but not persisted"
// @Router /plans/{planID} [delete]
func deletePlanHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.DeletePlan(r.Context(), chi.URLParam(r, "planID")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// planDosesHandler godoc
// @Summary Dosis de un plan
// @Tags doses
// @Produce json
// @Param planID path string true "ID del plan"
// @Success 200 {array} doses.Dose
// @Failure 404 {string} string "plan not found"
// @Router /plans/{planID}/doses [get]
func planDosesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.DosesForPlan(r.Context(), chi.URLParam(r, "planID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, items)
	}
}

// listDosesHandler godoc
// @Summary Listar dosis
// @Description Devuelve la colección de dosis en orden de generación, opcionalmente filtrada por fecha.
// @Tags doses
// @Produce json
// @Param date query string false "Fecha YYYY-MM-DD"
// @Success 200 {array} doses.Dose
// @Failure 400 {string} string "date inválida"
// @Router /doses [get]
func listDosesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListDoses(r.Context(), r.URL.Query().Get("date"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, items)
	}
}

// toggleDoseHandler godoc
// @Summary Marcar/desmarcar dosis como tomada
// @Tags doses
// @Produce json
// @Param doseID path string true "ID de la dosis (planId:medicationId:fecha:n)"
// @Success 200 {object} doses.Dose
// @Failure 404 {string} string "dose not found"
// @Failure 500 {string} string "changes applied but not persisted"
// @Router /doses/{doseID}/toggle [post]
func toggleDoseHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := svc.ToggleDoseTaken(r.Context(), chi.URLParam(r, "doseID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, d)
	}
}

// todayHandler godoc
// @Summary Dosis del día
// @Description Dosis de la fecha (por defecto hoy) ordenadas por hora y separadas en pendientes y tomadas.
// @Tags doses
// @Produce json
// @Param date query string false "Fecha YYYY-MM-DD"
// @Success 200 {object} doses.TodayView
// @Failure 400 {string} string "date inválida"
// @Router /today [get]
func todayHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := svc.Today(r.Context(), r.URL.Query().Get("date"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}

// medicationInfoHandler godoc
// @Summary Información de un medicamento
// @Description Texto de referencia sobre el medicamento. No reemplaza la indicación médica.
// @Tags medications
// @Produce json
// @Param name query string true "Nombre del medicamento"
// @Success 200 {object} infoResponse
// @Failure 400 {string} string "medication name required"
// @Failure 502 {string} string "medication info unavailable"
// @Router /medications/info [get]
func medicationInfoHandler(info medinfo.Lookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := info.Describe(r.Context(), r.URL.Query().Get("name"))
		switch {
		case err == nil:
		case errors.Is(err, medinfo.ErrInvalidInput):
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		case errors.Is(err, medinfo.ErrUnavailable):
			http.Error(w, medinfo.ErrUnavailable.Error(), http.StatusBadGateway)
			return
		default:
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, infoResponse{
			Name:        res.Name,
			Description: res.Description,
			Source:      res.Source,
		})
	}
}

func dateParam(r *http.Request, svc *Service) (string, error) {
	date := strings.TrimSpace(r.URL.Query().Get("date"))
	if date == "" {
		return svc.TodayDate(), nil
	}
	if err := checkDate(date); err != nil {
		return "", err
	}
	return date, nil
}

func writeError(w http.ResponseWriter, err error) {
	var verr *plans.ValidationError
	switch {
	case errors.As(err, &verr):
		http.Error(w, verr.Error(), http.StatusBadRequest)
	case errors.Is(err, plans.ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, plans.ErrPlanNotFound):
		http.Error(w, "plan not found", http.StatusNotFound)
	case errors.Is(err, doses.ErrDoseNotFound):
		http.Error(w, "dose not found", http.StatusNotFound)
	case errors.Is(err, plans.ErrAlreadyExists):
		http.Error(w, "plan already exists", http.StatusConflict)
	case errors.Is(err, ErrPersistence):
		http.Error(w, ErrPersistence.Error(), http.StatusInternalServerError)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
