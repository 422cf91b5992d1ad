package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/linkboard/linkboard/internal/auth"
	"github.com/linkboard/linkboard/internal/handler/dto"
	"github.com/linkboard/linkboard/internal/middleware"
	"github.com/linkboard/linkboard/internal/model"
	"github.com/linkboard/linkboard/internal/repository"
)

const (
	// minPasswordLen is the minimum accepted password length.
	minPasswordLen = 8

	// oauthStateCookie carries the OAuth CSRF state between the login
	// redirect and the callback.
	oauthStateCookie = "linkboard_oauth_state"

	// oauthStateTTL bounds how long an OAuth round trip may take.
	oauthStateTTL = 10 * time.Minute
)

// UserStore is the persistence surface the auth handler depends on.
// Implemented by *repository.Repository.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetOrCreateUser(ctx context.Context, user *model.User) (*model.User, error)
}

// AuthHandler handles sign-up, sign-in, Google OAuth, and session
// introspection.
type AuthHandler struct {
	users         UserStore
	tokens        *auth.TokenService
	gate          *auth.Gate
	google        *auth.GoogleProvider
	logger        *slog.Logger
	secureCookies bool
	postLoginPath string
}

// AuthHandlerConfig holds dependencies for NewAuthHandler.
type AuthHandlerConfig struct {
	Users  UserStore
	Tokens *auth.TokenService
	Gate   *auth.Gate
	// Google is nil when OAuth is not configured.
	Google        *auth.GoogleProvider
	Logger        *slog.Logger
	SecureCookies bool
	// PostLoginPath is where the OAuth callback redirects after issuing
	// a session. Defaults to "/".
	PostLoginPath string
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(cfg AuthHandlerConfig) *AuthHandler {
	path := cfg.PostLoginPath
	if path == "" {
		path = "/"
	}
	return &AuthHandler{
		users:         cfg.Users,
		tokens:        cfg.Tokens,
		gate:          cfg.Gate,
		google:        cfg.Google,
		logger:        cfg.Logger,
		secureCookies: cfg.SecureCookies,
		postLoginPath: path,
	}
}

// Signup handles POST /auth/signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req dto.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	email := normalizeEmail(req.Email)

	fields := map[string]string{}
	if _, err := mail.ParseAddress(email); err != nil {
		fields["email"] = "email is invalid"
	}
	if len(req.Password) < minPasswordLen {
		fields["password"] = "password must be at least 8 characters"
	}
	if len(fields) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, dto.ErrorResponse{
			Error:  "Validation failed",
			Code:   "VALIDATION_FAILED",
			Fields: fields,
		})
		return
	}

	if err := h.gate.CheckDomain(email); err != nil {
		h.logger.Warn("signup rejected",
			"reason", "domain_not_allowed",
			"request_id", middleware.GetRequestID(r.Context()),
		)
		writeError(w, http.StatusForbidden, "DOMAIN_NOT_ALLOWED", "Email domain is not allowed")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.internalError(w, err)
		return
	}

	user := &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
		Role:         h.gate.ResolveRole(email),
		CreatedAt:    time.Now().UTC(),
	}
	if err := h.users.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			writeError(w, http.StatusConflict, "EMAIL_EXISTS", "An account with this email already exists")
			return
		}
		h.internalError(w, err)
		return
	}

	h.logger.Info("user_signed_up",
		"user_id", user.ID,
		"role", string(user.Role),
	)

	h.issueSession(w, user, http.StatusCreated)
}

// Signin handles POST /auth/signin.
func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req dto.SigninRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	email := normalizeEmail(req.Email)

	user, err := h.users.GetUserByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			h.writeCredentialsError(w, r)
			return
		}
		h.internalError(w, err)
		return
	}

	// Accounts created through OAuth have no password.
	if user.PasswordHash == "" {
		h.writeCredentialsError(w, r)
		return
	}

	match, err := auth.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		h.internalError(w, err)
		return
	}
	if !match {
		h.writeCredentialsError(w, r)
		return
	}

	h.logger.Info("user_signed_in", "user_id", user.ID)

	h.issueSession(w, user, http.StatusOK)
}

// GoogleLogin handles GET /auth/google/login. It stores the CSRF state
// in a short-lived cookie and redirects to Google's consent page.
func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	if h.google == nil {
		writeError(w, http.StatusServiceUnavailable, "OAUTH_DISABLED", "Google sign-in is not configured")
		return
	}

	state, err := auth.NewState()
	if err != nil {
		h.internalError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/auth/google",
		MaxAge:   int(oauthStateTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.google.AuthURL(state), http.StatusFound)
}

// GoogleCallback handles GET /auth/google/callback. An email outside
// the allowed domain gets no session: the cookies are cleared and the
// request is rejected.
func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	if h.google == nil {
		writeError(w, http.StatusServiceUnavailable, "OAUTH_DISABLED", "Google sign-in is not configured")
		return
	}

	stateCookie, err := r.Cookie(oauthStateCookie)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != r.URL.Query().Get("state") {
		h.logger.Warn("oauth callback rejected",
			"reason", "state_mismatch",
			"request_id", middleware.GetRequestID(r.Context()),
		)
		writeError(w, http.StatusBadRequest, "OAUTH_STATE_MISMATCH", "OAuth state validation failed")
		return
	}
	h.clearCookie(w, oauthStateCookie, "/auth/google")

	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "OAUTH_CODE_MISSING", "Authorization code is missing")
		return
	}

	googleUser, err := h.google.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Warn("oauth exchange failed",
			"error", err.Error(),
			"request_id", middleware.GetRequestID(r.Context()),
		)
		writeError(w, http.StatusBadGateway, "OAUTH_EXCHANGE_FAILED", "Could not complete Google sign-in")
		return
	}

	email := normalizeEmail(googleUser.Email)
	if err := h.gate.CheckDomain(email); err != nil {
		// No session for outside accounts; also drop any session a
		// previous identity left behind in this browser.
		h.clearCookie(w, middleware.SessionCookieName, "/")
		h.logger.Warn("oauth sign-in rejected",
			"reason", "domain_not_allowed",
			"request_id", middleware.GetRequestID(r.Context()),
		)
		writeError(w, http.StatusForbidden, "DOMAIN_NOT_ALLOWED", "Email domain is not allowed")
		return
	}

	user, err := h.users.GetOrCreateUser(r.Context(), &model.User{
		ID:        uuid.New().String(),
		Email:     email,
		Role:      h.gate.ResolveRole(email),
		AvatarURL: googleUser.Picture,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		h.internalError(w, err)
		return
	}

	token, err := h.tokens.Generate(user)
	if err != nil {
		h.internalError(w, err)
		return
	}
	h.setSessionCookie(w, token)

	h.logger.Info("user_signed_in", "user_id", user.ID, "provider", "google")

	http.Redirect(w, r, h.postLoginPath, http.StatusFound)
}

// Signout handles POST /auth/signout. Sessions are stateless JWTs, so
// signing out clears the cookie; the token itself lapses at its expiry.
func (h *AuthHandler) Signout(w http.ResponseWriter, r *http.Request) {
	h.clearCookie(w, middleware.SessionCookieName, "/")
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /auth/me. Must be mounted behind SessionAuth.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())
	if identity == nil {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or missing session")
		return
	}

	user, err := h.users.GetUserByID(r.Context(), identity.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Token outlived the account.
			h.clearCookie(w, middleware.SessionCookieName, "/")
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or missing session")
			return
		}
		h.internalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToUserResponse(user))
}

// issueSession generates a token, sets the session cookie, and writes
// the session response.
func (h *AuthHandler) issueSession(w http.ResponseWriter, user *model.User, status int) {
	token, err := h.tokens.Generate(user)
	if err != nil {
		h.internalError(w, err)
		return
	}
	h.setSessionCookie(w, token)

	writeJSON(w, status, dto.SessionResponse{
		Token: token,
		User:  *dto.ToUserResponse(user),
	})
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.tokens.TTL().Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearCookie(w http.ResponseWriter, name, path string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     path,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// writeCredentialsError writes a 401 with a single message for every
// credential failure to prevent account enumeration.
func (h *AuthHandler) writeCredentialsError(w http.ResponseWriter, r *http.Request) {
	h.logger.Warn("sign-in rejected",
		"reason", "invalid_credentials",
		"request_id", middleware.GetRequestID(r.Context()),
	)
	writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
}

func (h *AuthHandler) internalError(w http.ResponseWriter, err error) {
	h.logger.Error("internal_error", "error", err)
	writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
