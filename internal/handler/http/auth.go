package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/soclink/authcore/internal/logger"
	"github.com/soclink/authcore/internal/security"
	"github.com/soclink/authcore/internal/utils"
	"github.com/soclink/authcore/models"
)

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Name     string `json:"name"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	account := models.Account{Username: req.Username, Email: req.Email, Name: req.Name}
	created, err := h.services.AuthService.Register(ctx, account, req.Password)
	if err != nil {
		log.Err(err).Msg("registration failed")
		writeStatusError(w, err)
		return
	}

	log.Info().Int64("account_id", created.AccountID).Msg("account registered")
	utils.WriteJSON(w, created, http.StatusCreated)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	session, err := h.services.AuthService.Login(ctx, req.Username, req.Password)
	if err != nil {
		// The second factor is a flow step, not a failure; everything else
		// is mapped and logged uniformly.
		if errors.Is(err, security.ErrMFARequired) {
			utils.WriteJSON(w, models.MFARequiredResponse{MFARequired: true}, http.StatusConflict)
			return
		}
		log.Err(err).Msg("login failed")
		writeStatusError(w, err)
		return
	}

	writeSession(w, session)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	token, ok := utils.GetSessionTokenFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	if err := h.services.AuthService.Logout(ctx, token); err != nil {
		log.Err(err).Msg("logout failed")
		writeStatusError(w, err)
		return
	}

	utils.WriteJSON(w, models.StatusResponse{Status: "ok"}, http.StatusOK)
}

// writeSession renders the issued session. The token appears here and
// nowhere else in any response body.
func writeSession(w http.ResponseWriter, session models.Session) {
	utils.WriteJSON(w, models.SessionResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt.UTC().Format(time.RFC3339),
	}, http.StatusOK)
}
