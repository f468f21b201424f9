package api

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rpupo63/portfolio-catalog-backend/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// adminHandler performs the single password comparison guarding admin mode
// and issues the expiring token mutating endpoints are checked against.
type adminHandler struct {
	responder Responder
	logger    zerolog.Logger
	password  string
	tokens    adminTokens
}

func newAdminHandler(password string, tokens adminTokens, exposeDetails bool) adminHandler {
	logger := log.With().Str("handlerName", "adminHandler").Logger()

	return adminHandler{
		responder: NewResponder(logger, exposeDetails),
		logger:    logger,
		password:  password,
		tokens:    tokens,
	}
}

type adminCredentials struct {
	Password string `json:"password"`
}

type loginResponse struct {
	Success   bool      `json:"success"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// verify checks the admin password and reports only a success flag. No
// credential is issued; clients that need to mutate must log in.
func (h adminHandler) verify() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !h.checkPassword(w, r) {
			return
		}
		h.responder.WriteJSON(w, map[string]bool{"success": true})
	}
}

// login checks the admin password and issues an expiring admin token.
func (h adminHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !h.checkPassword(w, r) {
			return
		}

		token, expiresAt, err := h.tokens.Issue(time.Now())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, loginResponse{
			Success:   true,
			Token:     token,
			ExpiresAt: expiresAt,
		})
	}
}

// checkPassword decodes the credentials and compares the password in
// constant time. On failure it writes the response and returns false.
func (h adminHandler) checkPassword(w http.ResponseWriter, r *http.Request) bool {
	var creds adminCredentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
		return false
	}

	if h.password == "" {
		h.logger.Warn().Msg("admin password is not configured; rejecting login")
		h.responder.WriteError(w, errs.NewUnauthorizedError("admin access is not configured"))
		return false
	}

	if subtle.ConstantTimeCompare([]byte(creds.Password), []byte(h.password)) != 1 {
		h.responder.WriteError(w, errs.NewUnauthorizedError("invalid password"))
		return false
	}
	return true
}
