package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/soclink/authcore/internal/logger"
	"github.com/soclink/authcore/internal/utils"
	"github.com/soclink/authcore/models"
)

func (h *Handler) adminAction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	token, ok := utils.GetSessionTokenFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var req models.AdminActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	record, err := h.services.AuthService.AdminAction(ctx, token, req.TargetID, req.Action, req.Params)
	if err != nil {
		log.Err(err).
			Int64("target_id", req.TargetID).
			Str("action", string(req.Action)).
			Msg("administrative action refused")
		writeStatusError(w, err)
		return
	}

	utils.WriteJSON(w, record, http.StatusOK)
}

func (h *Handler) adminList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	token, ok := utils.GetSessionTokenFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	filter, err := auditFilterFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	records, err := h.services.AuthService.ListAdminActions(ctx, token, filter)
	if err != nil {
		log.Err(err).Msg("audit listing refused")
		writeStatusError(w, err)
		return
	}
	if records == nil {
		records = []models.AdminActionRecord{}
	}

	utils.WriteJSON(w, records, http.StatusOK)
}

// auditFilterFromQuery reads the optional actor_id, target_id, action,
// outcome and limit query parameters.
func auditFilterFromQuery(r *http.Request) (models.AuditFilter, error) {
	var filter models.AuditFilter
	query := r.URL.Query()

	if raw := query.Get("actor_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return models.AuditFilter{}, ErrBadQueryParameter
		}
		filter.ActorID = id
	}
	if raw := query.Get("target_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return models.AuditFilter{}, ErrBadQueryParameter
		}
		filter.TargetID = id
	}
	filter.Action = models.AdminAction(query.Get("action"))
	filter.Outcome = query.Get("outcome")
	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return models.AuditFilter{}, ErrBadQueryParameter
		}
		filter.Limit = limit
	}

	return filter, nil
}
