package handler

import (
	"errors"
	"net/http"

	"restaurant-site/internal/reservationservice/service"
	"restaurant-site/internal/reservationservice/validation"
	"restaurant-site/pkg/httpx"
	"restaurant-site/pkg/logger"
	"restaurant-site/pkg/metrics"
	"restaurant-site/pkg/models"
	pkgvalidation "restaurant-site/pkg/validation"
)

const (
	msgCreated           = "Reservation created successfully!"
	msgCreateFailed      = "Error creating reservation."
	msgFetchFailed       = "Error fetching reservations."
	msgInvalidJSON       = "Invalid JSON payload"
	pipelineReservations = "reservations"
)

type ReservationHandler struct {
	service   *service.ReservationService
	validator *validation.ReservationValidator
	metrics   *metrics.Metrics
	logger    *logger.Logger
}

func NewReservationHandler(svc *service.ReservationService, hours validation.ServiceHours, m *metrics.Metrics, logger *logger.Logger) *ReservationHandler {
	return &ReservationHandler{
		service:   svc,
		validator: validation.NewReservationValidator(hours),
		metrics:   m,
		logger:    logger,
	}
}

// CreateReservation handles POST /api/reservations.
func (h *ReservationHandler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	requestID := httpx.RequestIDFrom(r.Context())
	log := h.logger.RequestID(requestID)

	var req models.CreateReservationRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		log.Action("validation_failed").Error("Invalid JSON payload", err)
		h.metrics.ValidationFailures.WithLabelValues(pipelineReservations).Inc()
		httpx.JSONError(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	res, err := h.validator.Validate(&req)
	if err != nil {
		h.metrics.ValidationFailures.WithLabelValues(pipelineReservations).Inc()
		var fieldErrs pkgvalidation.Errors
		if errors.As(err, &fieldErrs) {
			log.Action("validation_failed").Debug("Reservation rejected", "errors", fieldErrs.Error())
			httpx.JSONResponse(w, http.StatusBadRequest, pkgvalidation.ErrorResponse{Errors: fieldErrs})
			return
		}
		httpx.JSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := h.service.CreateReservation(r.Context(), res, requestID)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, msgCreateFailed)
		return
	}

	httpx.JSONResponse(w, http.StatusCreated, models.CreateReservationResponse{
		Message:       msgCreated,
		ReservationID: id,
	})
	log.Action("completed").Info("Reservation stored", "reservation_id", id, "date", req.Date, "guests", res.Guests)
}

// ListReservations handles GET /api/reservations.
func (h *ReservationHandler) ListReservations(w http.ResponseWriter, r *http.Request) {
	reservations, err := h.service.ListReservations(r.Context(), httpx.RequestIDFrom(r.Context()))
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, msgFetchFailed)
		return
	}
	httpx.JSONResponse(w, http.StatusOK, reservations)
}
