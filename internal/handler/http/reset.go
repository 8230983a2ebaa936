package http

import (
	"encoding/json"
	"net/http"

	"github.com/soclink/authcore/internal/logger"
	"github.com/soclink/authcore/internal/utils"
	"github.com/soclink/authcore/models"
)

// resetRequest starts the recovery flow. The response is the same for every
// well-formed request: registered, unknown and throttled addresses are
// indistinguishable to the caller.
func (h *Handler) resetRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.ResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	if err := h.services.AuthService.RequestPasswordReset(ctx, req.Email); err != nil {
		log.Err(err).Msg("reset request failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, models.StatusResponse{Status: "ok"}, http.StatusOK)
}

func (h *Handler) resetConfirm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.ResetConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	if err := h.services.AuthService.ConfirmPasswordReset(ctx, req.Token, req.NewPassword); err != nil {
		log.Err(err).Msg("reset confirm failed")
		writeStatusError(w, err)
		return
	}

	utils.WriteJSON(w, models.StatusResponse{Status: "ok"}, http.StatusOK)
}
