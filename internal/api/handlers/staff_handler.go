package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/daveokon/medistaff/internal/core"
	"github.com/daveokon/medistaff/internal/core/extraction"
	"github.com/daveokon/medistaff/internal/models"
)

const maxAvatarBytes = 5 << 20 // 5 MB

var staffRoles = map[string]struct{}{
	"doctor":  {},
	"hod":     {},
	"trustee": {},
}

// StaffHandler serves the doctor/HOD/trustee directory and profile
// management, including avatar upload to object storage.
type StaffHandler struct {
	dbclient     core.DbClient
	objectclient core.ObjectClient // nil when avatar storage is not configured
}

func NewStaffHandler(dbclient core.DbClient, objectclient core.ObjectClient) *StaffHandler {
	return &StaffHandler{dbclient: dbclient, objectclient: objectclient}
}

type staffRequest struct {
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Department string `json:"department"`
	Specialty  string `json:"specialty"`
	Phone      string `json:"phone"`
	Bio        string `json:"bio"`
}

func (req *staffRequest) validate() error {
	if req.FullName == "" || req.Email == "" {
		return fmt.Errorf("full_name and email are required")
	}
	if _, ok := staffRoles[req.Role]; !ok {
		return fmt.Errorf("role must be one of doctor, hod, trustee")
	}
	return nil
}

func (h *StaffHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req staffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid body"))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	m := &models.StaffMember{
		ID:         uuid.NewString(),
		FullName:   req.FullName,
		Email:      req.Email,
		Role:       req.Role,
		Department: req.Department,
		Specialty:  req.Specialty,
		Phone:      req.Phone,
		Bio:        req.Bio,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	if err := h.dbclient.CreateStaffMember(r.Context(), m); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("create staff member: %w", err))
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (h *StaffHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	m, err := h.dbclient.GetStaffMemberByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if m == nil {
		writeError(w, http.StatusNotFound, fmt.Errorf("staff member not found"))
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *StaffHandler) List(w http.ResponseWriter, r *http.Request) {
	role := r.URL.Query().Get("role")
	if role != "" {
		if _, ok := staffRoles[role]; !ok {
			writeError(w, http.StatusBadRequest, fmt.Errorf("unknown role %q", role))
			return
		}
	}
	members, err := h.dbclient.ListStaffMembers(r.Context(), role)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, members)
}

func (h *StaffHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req staffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid body"))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	m := &models.StaffMember{
		ID:         id,
		FullName:   req.FullName,
		Email:      req.Email,
		Role:       req.Role,
		Department: req.Department,
		Specialty:  req.Specialty,
		Phone:      req.Phone,
		Bio:        req.Bio,
	}
	if err := h.dbclient.UpdateStaffMember(r.Context(), m); err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *StaffHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.dbclient.DeleteStaffMember(r.Context(), id); err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UploadAvatar stores a profile photo in object storage and records its URL.
func (h *StaffHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	if h.objectclient == nil {
		writeError(w, http.StatusServiceUnavailable, fmt.Errorf("avatar storage not configured"))
		return
	}

	id := chi.URLParam(r, "id")
	m, err := h.dbclient.GetStaffMemberByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if m == nil {
		writeError(w, http.StatusNotFound, fmt.Errorf("staff member not found"))
		return
	}

	if err := r.ParseMultipartForm(maxAvatarBytes); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("parse multipart: %w", err))
		return
	}
	file, header, err := r.FormFile("avatar")
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("avatar file is required"))
		return
	}
	defer file.Close()

	if header.Size > maxAvatarBytes {
		writeError(w, http.StatusBadRequest, ErrPayloadTooLarge)
		return
	}
	contentType := header.Header.Get("Content-Type")
	if _, err := extraction.DetectImageFormat(contentType); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxAvatarBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("read upload: %w", err))
		return
	}
	if len(data) > maxAvatarBytes {
		writeError(w, http.StatusBadRequest, ErrPayloadTooLarge)
		return
	}

	key := fmt.Sprintf("avatars/%s/%s", id, filepath.Base(header.Filename))
	url, err := h.objectclient.UploadFile(r.Context(), key, data, contentType)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("upload avatar: %w", err))
		return
	}

	if err := h.dbclient.UpdateStaffAvatar(r.Context(), id, url); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"avatar_url": url})
}
