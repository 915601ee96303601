package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"toolshare-reservation-backend/internal/domain"
	"toolshare-reservation-backend/internal/service"

	"github.com/gorilla/mux"
)

// ReservationHandler binds the reservation actions to HTTP/JSON.
type ReservationHandler struct {
	reservations service.ReservationService
}

func NewReservationHandler(reservations service.ReservationService) *ReservationHandler {
	return &ReservationHandler{reservations: reservations}
}

type createReservationRequest struct {
	ToolID    int32  `json:"tool_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Note      string `json:"note"`
}

type actionRequest struct {
	Note   string `json:"note"`
	Reason string `json:"reason"`
}

type listResponse struct {
	Reservations []domain.Reservation `json:"reservations"`
	Total        int32                `json:"total"`
	Page         int32                `json:"page"`
	PageSize     int32                `json:"page_size"`
}

func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorCode(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "malformed request body")
		return
	}

	res, err := h.reservations.CreateReservation(r.Context(), ActorID(r), req.ToolID, req.StartDate, req.EndDate, req.Note)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *ReservationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	res, err := h.reservations.GetReservation(r.Context(), ActorID(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *ReservationHandler) Actions(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	actions, err := h.reservations.PermittedActions(r.Context(), ActorID(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if actions == nil {
		actions = []domain.Action{}
	}
	writeJSON(w, http.StatusOK, map[string][]domain.Action{"actions": actions})
}

func (h *ReservationHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(id int32, req actionRequest) (*domain.Reservation, error) {
		return h.reservations.ApproveReservation(r.Context(), ActorID(r), id, req.Note)
	})
}

func (h *ReservationHandler) Decline(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(id int32, req actionRequest) (*domain.Reservation, error) {
		return h.reservations.DeclineReservation(r.Context(), ActorID(r), id, req.Reason)
	})
}

func (h *ReservationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(id int32, req actionRequest) (*domain.Reservation, error) {
		return h.reservations.CancelReservation(r.Context(), ActorID(r), id, req.Note)
	})
}

func (h *ReservationHandler) Pickup(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(id int32, req actionRequest) (*domain.Reservation, error) {
		return h.reservations.ConfirmPickup(r.Context(), ActorID(r), id, req.Note)
	})
}

func (h *ReservationHandler) Return(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(id int32, req actionRequest) (*domain.Reservation, error) {
		return h.reservations.ConfirmReturn(r.Context(), ActorID(r), id, req.Note)
	})
}

func (h *ReservationHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	status := domain.ReservationStatus(r.URL.Query().Get("status"))

	list := h.reservations.ListBorrowings
	if r.URL.Query().Get("role") == "owner" {
		list = h.reservations.ListLendings
	}

	reservations, total, err := list(r.Context(), ActorID(r), status, page, pageSize)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if reservations == nil {
		reservations = []domain.Reservation{}
	}
	writeJSON(w, http.StatusOK, listResponse{
		Reservations: reservations,
		Total:        total,
		Page:         page,
		PageSize:     pageSize,
	})
}

// Availability previews the structural and conflict checks for a candidate
// range without creating anything.
func (h *ReservationHandler) Availability(w http.ResponseWriter, r *http.Request) {
	toolID, ok := pathID(w, r)
	if !ok {
		return
	}
	start := r.URL.Query().Get("start")
	end := r.URL.Query().Get("end")

	if err := h.reservations.CheckToolAvailability(r.Context(), toolID, start, end); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"available": true})
}

func (h *ReservationHandler) transition(w http.ResponseWriter, r *http.Request, apply func(int32, actionRequest) (*domain.Reservation, error)) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req actionRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeErrorCode(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "malformed request body")
			return
		}
	}

	res, err := apply(id, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func pathID(w http.ResponseWriter, r *http.Request) (int32, bool) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		writeErrorCode(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "invalid id in path")
		return 0, false
	}
	return int32(id), true
}

func pagination(r *http.Request) (page, pageSize int32) {
	page, pageSize = 1, 20
	if v, err := strconv.ParseInt(r.URL.Query().Get("page"), 10, 32); err == nil && v > 0 {
		page = int32(v)
	}
	if v, err := strconv.ParseInt(r.URL.Query().Get("page_size"), 10, 32); err == nil && v > 0 && v <= 100 {
		pageSize = int32(v)
	}
	return page, pageSize
}
