package handler

import (
	"net/http"
	"strconv"

	"go-task-manager/internal/middleware"
	"go-task-manager/internal/service"
	"go-task-manager/pkg/apierror"
)

type KPIHandler struct {
	kpi *service.KPIService
}

func NewKPIHandler(kpi *service.KPIService) *KPIHandler {
	return &KPIHandler{kpi: kpi}
}

func (h *KPIHandler) StateDistribution(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("authentication required"))
		return
	}

	result, err := h.kpi.StateDistribution(r.Context(), principal.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, result, nil)
}

func (h *KPIHandler) PendingByPriority(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("authentication required"))
		return
	}

	result, err := h.kpi.PendingByPriority(r.Context(), principal.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, result, nil)
}

func (h *KPIHandler) CompletedThisMonth(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("authentication required"))
		return
	}

	result, err := h.kpi.CompletedThisMonth(r.Context(), principal.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, result, nil)
}

func (h *KPIHandler) CompletedPerDay(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("authentication required"))
		return
	}

	days := 7
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, apierror.BadRequest("days must be a positive integer", raw))
			return
		}
		days = parsed
	}

	result, err := h.kpi.CompletedPerDay(r.Context(), principal.ID, days)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, result, nil)
}

func (h *KPIHandler) AvgCompletionByPriority(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("authentication required"))
		return
	}

	result, err := h.kpi.AvgCompletionByPriority(r.Context(), principal.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, result, nil)
}
