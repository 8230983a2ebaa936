package http

import (
	"encoding/json"
	"net/http"

	"github.com/soclink/authcore/internal/logger"
	"github.com/soclink/authcore/internal/utils"
	"github.com/soclink/authcore/models"
)

func (h *Handler) mfaVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.MFAVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	session, err := h.services.AuthService.VerifyMFA(ctx, req.Username, req.Code)
	if err != nil {
		log.Err(err).Msg("one-time code verification failed")
		writeStatusError(w, err)
		return
	}

	writeSession(w, session)
}

func (h *Handler) mfaEnroll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	token, ok := utils.GetSessionTokenFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	secret, err := h.services.AuthService.EnrollMFA(ctx, token)
	if err != nil {
		log.Err(err).Msg("enrollment failed")
		writeStatusError(w, err)
		return
	}

	utils.WriteJSON(w, map[string]string{"secret": secret}, http.StatusOK)
}
