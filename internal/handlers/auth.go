package handlers

import (
	"context"
	"encoding/base64"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"designcamp/internal/middleware"
	"designcamp/internal/models"
	"designcamp/internal/session"
	"designcamp/internal/store"
	"designcamp/internal/validate"
)

// totpIssuer labels the account in authenticator apps.
const totpIssuer = "Design Camp"

// UserRepo is the account persistence used by Auth. *store.UserStore
// satisfies it.
type UserRepo interface {
	Create(ctx context.Context, email, password, name string, role models.Role) (*models.User, *models.Profile, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	CheckPassword(user *models.User, password string) bool
	SetTOTPSecret(ctx context.Context, userID uuid.UUID, secret string) error
	EnableTOTP(ctx context.Context, userID uuid.UUID) error
}

// SessionStore manages cookie sessions. *session.Store satisfies it.
type SessionStore interface {
	Create(ctx context.Context, w http.ResponseWriter, data *session.Data) (string, error)
	Update(ctx context.Context, r *http.Request, data *session.Data) error
	Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error
}

// TokenIssuer signs bearer tokens. *token.Service satisfies it.
type TokenIssuer interface {
	Issue(userID uuid.UUID, email, role string) (string, error)
	TTL() time.Duration
}

// Auth groups the account and 2FA handlers.
type Auth struct {
	users    UserRepo
	sessions SessionStore
	tokens   TokenIssuer
}

// NewAuth creates a new Auth handler group.
func NewAuth(users UserRepo, sessions SessionStore, tokens TokenIssuer) *Auth {
	return &Auth{users: users, sessions: sessions, tokens: tokens}
}

type signupRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type verifyRequest struct {
	Code string `json:"code" validate:"required,len=6,numeric"`
}

// accountView is the public shape of the signed-in user.
type accountView struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	TOTPEnabled  bool      `json:"totp_enabled"`
	ProfileImage *string   `json:"profile_image"`
}

type authResponse struct {
	User        accountView `json:"user"`
	AccessToken string      `json:"access_token,omitempty"`
	TokenType   string      `json:"token_type,omitempty"`
	ExpiresIn   int         `json:"expires_in,omitempty"`
	// TwoFactor tells admins which 2FA step comes next: "setup" or "verify".
	TwoFactor string `json:"two_factor,omitempty"`
}

func newAccountView(u *models.User, p *models.Profile) accountView {
	v := accountView{
		ID:          u.ID,
		Email:       u.Email,
		Name:        p.DisplayName(),
		Role:        string(u.Role),
		TOTPEnabled: u.TOTPEnabled,
	}
	if p != nil {
		v.ProfileImage = p.ProfileImage
	}
	return v
}

// Signup creates a camper account and signs it in.
func (a *Auth) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validate.Struct(req); err != nil {
		writeValidation(w, err)
		return
	}

	user, profile, err := a.users.Create(r.Context(), req.Email, req.Password, req.Name, models.RoleCamper)
	if store.IsUniqueViolation(err) {
		writeError(w, http.StatusConflict, "This email is already registered. Try logging in instead.")
		return
	}
	if err != nil {
		serverError(w, "signup failed", err)
		return
	}

	slog.Info("camper signed up", "user_id", user.ID)
	a.signIn(w, r, http.StatusCreated, user, profile)
}

// Login checks credentials and opens a session.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validate.Struct(req); err != nil {
		writeValidation(w, err)
		return
	}

	user, err := a.users.FindByEmail(r.Context(), req.Email)
	if err != nil {
		serverError(w, "login lookup failed", err)
		return
	}
	if user == nil || !a.users.CheckPassword(user, req.Password) {
		writeError(w, http.StatusUnauthorized, "Invalid email or password.")
		return
	}

	profile, err := a.users.FindProfile(r.Context(), user.ID)
	if err != nil {
		slog.Warn("profile lookup failed", "user_id", user.ID, "error", err)
	}
	a.signIn(w, r, http.StatusOK, user, profile)
}

// signIn opens a cookie session, issues a bearer token and writes the
// account. Admins start with 2FA pending.
func (a *Auth) signIn(w http.ResponseWriter, r *http.Request, status int, user *models.User, profile *models.Profile) {
	view := newAccountView(user, profile)

	_, err := a.sessions.Create(r.Context(), w, &session.Data{
		UserID:    user.ID,
		Email:     user.Email,
		Name:      view.Name,
		Role:      string(user.Role),
		TwoFADone: false,
	})
	if err != nil {
		serverError(w, "session create failed", err)
		return
	}

	resp := authResponse{User: view}
	if a.tokens != nil {
		tok, err := a.tokens.Issue(user.ID, user.Email, string(user.Role))
		if err != nil {
			serverError(w, "token issue failed", err)
			return
		}
		resp.AccessToken = tok
		resp.TokenType = "Bearer"
		resp.ExpiresIn = int(a.tokens.TTL().Seconds())
	}
	if user.IsAdmin() {
		resp.TwoFactor = "verify"
		if user.Needs2FASetup() {
			resp.TwoFactor = "setup"
		}
	}

	writeJSON(w, status, resp)
}

// Logout destroys the session.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Warn("session destroy failed", "error", err)
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "signed_out"})
}

// Me returns the signed-in account.
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	user, err := a.users.FindByID(r.Context(), sess.UserID)
	if err != nil {
		serverError(w, "me lookup failed", err)
		return
	}
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	profile, err := a.users.FindProfile(r.Context(), user.ID)
	if err != nil {
		slog.Warn("profile lookup failed", "user_id", user.ID, "error", err)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user":        newAccountView(user, profile),
		"two_fa_done": sess.TwoFADone,
	})
}

// TwoFASetup generates a TOTP secret for an admin and returns it with a
// QR code to scan.
func (a *Auth) TwoFASetup(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if !sess.IsAdmin() {
		writeError(w, http.StatusForbidden, "Two-factor authentication is only available to admins.")
		return
	}

	user, err := a.users.FindByID(r.Context(), sess.UserID)
	if err != nil || user == nil {
		serverError(w, "user lookup for 2fa failed", err)
		return
	}
	if user.TOTPEnabled {
		writeError(w, http.StatusConflict, "Two-factor authentication is already enabled.")
		return
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: user.Email,
	})
	if err != nil {
		serverError(w, "totp generate failed", err)
		return
	}
	if err := a.users.SetTOTPSecret(r.Context(), user.ID, key.Secret()); err != nil {
		serverError(w, "save totp secret failed", err)
		return
	}

	qrPNG, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		serverError(w, "qr code generation failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"secret":      key.Secret(),
		"otpauth_url": key.URL(),
		"qr_code":     "data:image/png;base64," + base64.StdEncoding.EncodeToString(qrPNG),
	})
}

// TwoFAVerify validates a TOTP code, enables 2FA on first use and marks
// the session as verified.
func (a *Auth) TwoFAVerify(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	if _, err := r.Cookie(session.CookieName); err != nil {
		writeError(w, http.StatusBadRequest, "Two-factor verification needs a browser session.")
		return
	}

	var req verifyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Code = strings.TrimSpace(req.Code)
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid code. Please try again.")
		return
	}

	user, err := a.users.FindByID(r.Context(), sess.UserID)
	if err != nil || user == nil {
		serverError(w, "user lookup for 2fa failed", err)
		return
	}
	if user.TOTPSecret == nil {
		writeError(w, http.StatusConflict, "Set up two-factor authentication first.")
		return
	}
	if !totp.Validate(req.Code, *user.TOTPSecret) {
		writeError(w, http.StatusUnauthorized, "Invalid code. Please try again.")
		return
	}

	if !user.TOTPEnabled {
		if err := a.users.EnableTOTP(r.Context(), user.ID); err != nil {
			serverError(w, "enable totp failed", err)
			return
		}
	}

	updated := *sess
	updated.TwoFADone = true
	if err := a.sessions.Update(r.Context(), r, &updated); err != nil {
		serverError(w, "session update failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"two_fa_done": true})
}
