package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"slotline/internal/appointments/service"
	"slotline/internal/appointments/validator"
	apperrors "slotline/pkg/errors"
	httputil "slotline/pkg/http"
	"slotline/pkg/logger"
	"slotline/pkg/middleware"
	"slotline/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type AppointmentHandler struct {
	booking      service.BookingService
	availability service.AvailabilityService
	validator    *validator.AppointmentValidator
	jwtSecret    string
	log          *logger.Logger
}

func NewAppointmentHandler(
	booking service.BookingService,
	availability service.AvailabilityService,
	v *validator.AppointmentValidator,
	jwtSecret string,
	log *logger.Logger,
) *AppointmentHandler {
	return &AppointmentHandler{
		booking:      booking,
		availability: availability,
		validator:    v,
		jwtSecret:    jwtSecret,
		log:          log,
	}
}

func (h *AppointmentHandler) Book(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req validator.BookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Code:  apperrors.CodeValidation,
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Book", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	start, err := h.validator.ValidateBook(&req)
	if err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			err = apperrors.Validation("Request validation failed", map[string]any{"errors": validationErrs})
		}
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Book", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	userID := middleware.UserIDFrom(r.Context())
	result, err := h.booking.Book(r.Context(), req.ServiceID, userID, start)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Book", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, result); err != nil {
		h.log.Error("failed to write created response", "handler", "Book", "operation", "WriteCreated", "error", err)
	}
}

func (h *AppointmentHandler) Cancel(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req validator.CancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Code:  apperrors.CodeValidation,
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Cancel", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.validator.ValidateCancel(&req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			err = apperrors.Validation("Request validation failed", map[string]any{"errors": validationErrs})
		}
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Cancel", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := h.booking.Cancel(r.Context(), req.CancellationToken); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Cancel", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, map[string]string{"status": "cancelled"}); err != nil {
		h.log.Error("failed to write success response", "handler", "Cancel", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AppointmentHandler) GetByViewToken(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	view, err := h.booking.GetByViewToken(r.Context(), ps.ByName("view_token"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByViewToken", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, view); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByViewToken", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AppointmentHandler) ListMine(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := middleware.UserIDFrom(r.Context())

	views, err := h.booking.ListForUser(r.Context(), userID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListMine", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, views); err != nil {
		h.log.Error("failed to write success response", "handler", "ListMine", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AppointmentHandler) ListAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query, err := h.parseListAllQuery(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListAll", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	views, total, err := h.booking.ListAll(r.Context(), *query)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListAll", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, views, total, query.Limit, query.Offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "ListAll", "operation", "WritePaginated", "error", err)
	}
}

func (h *AppointmentHandler) parseListAllQuery(r *http.Request) (*service.ListAllQuery, error) {
	values := r.URL.Query()
	query := &service.ListAllQuery{}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		return nil, err
	}
	query.Limit = limit
	query.Offset = offset

	if raw := values.Get("status"); raw != "" {
		status, err := model.ParseAppointmentStatus(raw)
		if err != nil {
			return nil, apperrors.InvalidInput(fmt.Sprintf("invalid status parameter: %s", raw))
		}
		query.Status = &status
	}
	if raw := values.Get("service_type"); raw != "" {
		serviceType, err := model.ParseServiceType(raw)
		if err != nil {
			return nil, apperrors.InvalidInput(fmt.Sprintf("invalid service_type parameter: %s", raw))
		}
		query.ServiceType = &serviceType
	}
	if raw := values.Get("date_from"); raw != "" {
		from, err := httputil.ParseTime(raw, "date_from")
		if err != nil {
			return nil, err
		}
		query.DateFrom = &from
	}
	if raw := values.Get("date_to"); raw != "" {
		to, err := httputil.ParseTime(raw, "date_to")
		if err != nil {
			return nil, err
		}
		query.DateTo = &to
	}
	return query, nil
}

func (h *AppointmentHandler) GetAvailability(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	values := r.URL.Query()

	rawStart := values.Get("start_date")
	rawEnd := values.Get("end_date")
	if rawStart == "" || rawEnd == "" {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("start_date and end_date parameters are required")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAvailability", "operation", "WriteError", "error", writeErr)
		}
		return
	}
	rangeStart, err := httputil.ParseTime(rawStart, "start_date")
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAvailability", "operation", "WriteError", "error", writeErr)
		}
		return
	}
	rangeEnd, err := httputil.ParseTime(rawEnd, "end_date")
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAvailability", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	var serviceType *model.ServiceType
	if rawType := values.Get("service_type"); rawType != "" {
		parsed, err := model.ParseServiceType(rawType)
		if err != nil {
			if writeErr := httputil.WriteError(w, apperrors.InvalidInput(fmt.Sprintf("invalid service_type parameter: %s", rawType))); writeErr != nil {
				h.log.Error("failed to write error response", "handler", "GetAvailability", "operation", "WriteError", "error", writeErr)
			}
			return
		}
		serviceType = &parsed
	}

	availability, err := h.availability.GetAvailability(r.Context(), rangeStart, rangeEnd, serviceType)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAvailability", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, availability); err != nil {
		h.log.Error("failed to write success response", "handler", "GetAvailability", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AppointmentHandler) RegisterRoutes(router *httprouter.Router) {
	auth := middleware.Authenticate(h.jwtSecret, h.log)
	admin := middleware.RequireAdmin()

	router.POST("/api/v1/appointments", middleware.WrapRoute(h.Book, auth))
	router.POST("/api/v1/appointments/cancel", h.Cancel)
	router.GET("/api/v1/appointments/view/:view_token", h.GetByViewToken)
	router.GET("/api/v1/appointments/mine", middleware.WrapRoute(h.ListMine, auth))
	router.GET("/api/v1/admin/appointments", middleware.WrapRoute(h.ListAll, auth, admin))
	router.GET("/api/v1/availability", h.GetAvailability)
}
