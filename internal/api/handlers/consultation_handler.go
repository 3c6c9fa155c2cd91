package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/daveokon/medistaff/internal/core"
	"github.com/daveokon/medistaff/internal/models"
)

type ConsultationHandler struct {
	dbclient core.DbClient
}

func NewConsultationHandler(dbclient core.DbClient) *ConsultationHandler {
	return &ConsultationHandler{dbclient: dbclient}
}

type consultationRequest struct {
	StaffID     string    `json:"staff_id"`
	PatientName string    `json:"patient_name"`
	Notes       string    `json:"notes"`
	ScheduledAt time.Time `json:"scheduled_at"`
}

func (h *ConsultationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req consultationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid body"))
		return
	}
	if req.StaffID == "" || req.PatientName == "" || req.ScheduledAt.IsZero() {
		writeError(w, http.StatusBadRequest, fmt.Errorf("staff_id, patient_name and scheduled_at are required"))
		return
	}

	staff, err := h.dbclient.GetStaffMemberByID(r.Context(), req.StaffID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if staff == nil {
		writeError(w, http.StatusNotFound, fmt.Errorf("staff member not found"))
		return
	}

	c := &models.Consultation{
		ID:          uuid.NewString(),
		StaffID:     req.StaffID,
		PatientName: req.PatientName,
		Notes:       req.Notes,
		Status:      "scheduled",
		ScheduledAt: req.ScheduledAt,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := h.dbclient.CreateConsultation(r.Context(), c); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("create consultation: %w", err))
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *ConsultationHandler) List(w http.ResponseWriter, r *http.Request) {
	staffID := r.URL.Query().Get("staff_id")
	if staffID == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("staff_id query parameter is required"))
		return
	}
	consultations, err := h.dbclient.ListConsultationsByStaff(r.Context(), staffID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, consultations)
}
