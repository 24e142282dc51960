package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/eventhive/booking-core/internal/core/domain"
	"github.com/eventhive/booking-core/internal/core/services"
)

type BookingHandler struct {
	svc *services.BookingService
}

func NewBookingHandler(svc *services.BookingService) *BookingHandler {
	return &BookingHandler{svc: svc}
}

func (h *BookingHandler) Reserve(w http.ResponseWriter, r *http.Request) {
	var req services.ReserveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	resp, err := h.svc.Reserve(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

func (h *BookingHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	var req services.ConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	resp, err := h.svc.Confirm(r.Context(), chi.URLParam(r, "bookingID"), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.Cancel(r.Context(), chi.URLParam(r, "bookingID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *BookingHandler) Refund(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.Refund(r.Context(), chi.URLParam(r, "bookingID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *BookingHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req services.CheckInRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json body")
			return
		}
	}

	resp, err := h.svc.CheckIn(r.Context(), chi.URLParam(r, "bookingID"), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.Get(r.Context(), chi.URLParam(r, "bookingID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

var notFoundErrors = []error{
	domain.ErrEventNotFound,
	domain.ErrTicketTierNotFound,
	domain.ErrBookingNotFound,
}

var conflictErrors = []error{
	domain.ErrInsufficientInventory,
	domain.ErrCouponExhausted,
	domain.ErrAmountMismatch,
	domain.ErrInvalidTransition,
	domain.ErrBookingNotConfirmed,
	domain.ErrAlreadyCheckedIn,
	domain.ErrTxConflict,
}

var validationErrors = []error{
	domain.ErrEventNotPublished,
	domain.ErrSaleNotStarted,
	domain.ErrSaleEnded,
	domain.ErrInvalidQuantity,
	domain.ErrInvalidCoupon,
	domain.ErrCouponNotApplicable,
	domain.ErrCouponNotStarted,
	domain.ErrCouponExpired,
}

func writeServiceError(w http.ResponseWriter, err error) {
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			writeError(w, http.StatusNotFound, target.Error())
			return
		}
	}

	for _, target := range conflictErrors {
		if errors.Is(err, target) {
			writeError(w, http.StatusConflict, target.Error())
			return
		}
	}

	for _, target := range validationErrors {
		if errors.Is(err, target) {
			writeError(w, http.StatusUnprocessableEntity, target.Error())
			return
		}
	}

	if strings.Contains(err.Error(), "invalid") {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	log.Printf("Internal error: %v", err)
	writeError(w, http.StatusInternalServerError, "internal server error")
}
