package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/heartmarshall/transcribe-dashboard/internal/domain"
	"github.com/heartmarshall/transcribe-dashboard/internal/service/auth"
	"github.com/heartmarshall/transcribe-dashboard/internal/transport/router"
	"github.com/heartmarshall/transcribe-dashboard/pkg/ctxutil"
)

// authService defines the minimal interface needed by AuthHandler.
type authService interface {
	Register(ctx context.Context, input auth.RegisterInput) (*auth.Result, error)
	Login(ctx context.Context, input auth.LoginInput) (*auth.Result, error)
	Logout(ctx context.Context) error
}

// CookieOptions controls the session cookie.
type CookieOptions struct {
	Name   string
	Secure bool
	TTL    time.Duration
}

// AuthHandler serves auth REST endpoints and the login/signup form posts.
type AuthHandler struct {
	svc    authService
	cookie CookieOptions
	log    *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(svc authService, cookie CookieOptions, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, cookie: cookie, log: logger.With("handler", "auth")}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type authResponse struct {
	Token     string          `json:"token"`
	SessionID string          `json:"sessionId"`
	Account   accountResponse `json:"account"`
}

type accountResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type sessionResponse struct {
	Authenticated bool   `json:"authenticated"`
	AccountID     string `json:"accountId,omitempty"`
}

// Signup handles POST /api/auth/signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		invalidBody(w)
		return
	}

	result, err := h.svc.Register(r.Context(), auth.RegisterInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	h.setCookie(w, result.Token)
	writeJSON(w, http.StatusCreated, toAuthResponse(result))
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		invalidBody(w)
		return
	}

	result, err := h.svc.Login(r.Context(), auth.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	h.setCookie(w, result.Token)
	writeJSON(w, http.StatusOK, toAuthResponse(result))
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Logout(r.Context()); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	h.clearCookie(w)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Session handles GET /api/auth/session.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	resp := sessionResponse{Authenticated: ctxutil.IsAuthenticated(r.Context())}
	if id, ok := ctxutil.AccountIDFromCtx(r.Context()); ok {
		resp.AccountID = id.String()
	}
	writeJSON(w, http.StatusOK, resp)
}

// LoginForm handles POST /login from the login page.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.formError(w, r, "/login", "invalid form")
		return
	}

	result, err := h.svc.Login(r.Context(), auth.LoginInput{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	})
	if err != nil {
		h.formError(w, r, "/login", formMessage(h.log, r, err))
		return
	}

	h.setCookie(w, result.Token)
	http.Redirect(w, r, router.SafeRedirect(r.PostFormValue("redirect"), "/dashboard"), http.StatusSeeOther)
}

// SignupForm handles POST /signup from the signup page.
func (h *AuthHandler) SignupForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.formError(w, r, "/signup", "invalid form")
		return
	}

	result, err := h.svc.Register(r.Context(), auth.RegisterInput{
		Email:    r.PostFormValue("email"),
		Name:     r.PostFormValue("name"),
		Password: r.PostFormValue("password"),
	})
	if err != nil {
		h.formError(w, r, "/signup", formMessage(h.log, r, err))
		return
	}

	h.setCookie(w, result.Token)
	http.Redirect(w, r, router.SafeRedirect(r.PostFormValue("redirect"), "/dashboard"), http.StatusSeeOther)
}

// formError sends the browser back to the form with a message, keeping the
// captured redirect target.
func (h *AuthHandler) formError(w http.ResponseWriter, r *http.Request, page, message string) {
	q := url.Values{}
	q.Set("error", message)
	if target := router.SafeRedirect(r.PostFormValue("redirect"), ""); target != "" {
		q.Set("redirect", target)
	}
	http.Redirect(w, r, page+"?"+q.Encode(), http.StatusSeeOther)
}

func formMessage(log *slog.Logger, r *http.Request, err error) string {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return err.Error()
	case errors.Is(err, domain.ErrUnauthorized):
		return "invalid email or password"
	case errors.Is(err, domain.ErrAlreadyExists):
		return "an account with this email already exists"
	default:
		log.ErrorContext(r.Context(), "form auth failed", slog.String("error", err.Error()))
		return "something went wrong, try again"
	}
}

func (h *AuthHandler) setCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cookie.TTL.Seconds()),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func toAuthResponse(result *auth.Result) authResponse {
	return authResponse{
		Token:     result.Token,
		SessionID: result.SessionID,
		Account: accountResponse{
			ID:    result.Account.ID.String(),
			Email: result.Account.Email,
			Name:  result.Account.Name,
		},
	}
}

// LogoutForm handles POST /logout from the page header.
func (h *AuthHandler) LogoutForm(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Logout(r.Context()); err != nil && !errors.Is(err, domain.ErrUnauthorized) {
		h.log.ErrorContext(r.Context(), "form logout failed", slog.String("error", err.Error()))
	}

	h.clearCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
