package handler

import (
	"encoding/json"
	"net/http"

	"slotline/internal/catalog/service"
	"slotline/internal/catalog/validator"
	apperrors "slotline/pkg/errors"
	httputil "slotline/pkg/http"
	"slotline/pkg/logger"
	"slotline/pkg/middleware"

	"github.com/julienschmidt/httprouter"
)

type ServiceHandler struct {
	catalog   service.CatalogService
	jwtSecret string
	log       *logger.Logger
}

func NewServiceHandler(catalog service.CatalogService, jwtSecret string, log *logger.Logger) *ServiceHandler {
	return &ServiceHandler{
		catalog:   catalog,
		jwtSecret: jwtSecret,
		log:       log,
	}
}

func (h *ServiceHandler) Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req validator.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Code:  apperrors.CodeValidation,
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Register", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	svc, err := h.catalog.Register(r.Context(), &req)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Register", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, svc); err != nil {
		h.log.Error("failed to write created response", "handler", "Register", "operation", "WriteCreated", "error", err)
	}
}

func (h *ServiceHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	svc, err := h.catalog.FindByID(r.Context(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, svc); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ServiceHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	services, err := h.catalog.FindAll(r.Context())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, services); err != nil {
		h.log.Error("failed to write success response", "handler", "GetAll", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ServiceHandler) GetTypes(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	if err := httputil.WriteSuccess(w, h.catalog.ServiceTypes()); err != nil {
		h.log.Error("failed to write success response", "handler", "GetTypes", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ServiceHandler) RegisterRoutes(router *httprouter.Router) {
	auth := middleware.Authenticate(h.jwtSecret, h.log)
	admin := middleware.RequireAdmin()

	router.POST("/api/v1/admin/services", middleware.WrapRoute(h.Register, auth, admin))
	router.GET("/api/v1/services", h.GetAll)
	router.GET("/api/v1/services/types", h.GetTypes)
	router.GET("/api/v1/services/id/:id", h.GetByID)
}
