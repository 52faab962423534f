package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/dom/blog-platform/internal/api/middleware"
	"github.com/dom/blog-platform/internal/api/response"
	"github.com/dom/blog-platform/internal/config"
	"github.com/dom/blog-platform/internal/domain"
	"github.com/dom/blog-platform/internal/service"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

const (
	RefreshCookieName = "refreshToken"
	refreshCookiePath = "/api/v1/auth"

	msgMissingCredentials = "Please provide email and password"
)

type AuthHandler struct {
	authService *service.AuthService
	cfg         *config.Config
	resp        *response.Responder
}

func NewAuthHandler(authService *service.AuthService, cfg *config.Config, resp *response.Responder) *AuthHandler {
	return &AuthHandler{authService: authService, cfg: cfg, resp: resp}
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, validation.Length(1, 50), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 0)),
		validation.Field(&r.Role, validation.In(string(domain.RoleAdmin), string(domain.RoleUser))),
	)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

type AuthUserResponse struct {
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Role     domain.Role `json:"role"`
}

type AuthResponse struct {
	Status string `json:"status"`
	Token  string `json:"token"`
	Data   struct {
		User AuthUserResponse `json:"user"`
	} `json:"data"`
}

type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.resp.Error(w, r, err)
		return
	}
	req.Role = strings.ToLower(strings.TrimSpace(req.Role))
	if err := validated(req); err != nil {
		h.resp.Error(w, r, err)
		return
	}

	result, err := h.authService.Register(r.Context(), service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Role:     domain.Role(req.Role),
	})
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	h.setRefreshCookie(w, result.RefreshToken, result.RefreshExpiresAt)
	response.JSON(w, http.StatusCreated, authResponse(result))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.resp.Error(w, r, err)
		return
	}
	if req.Email == "" || req.Password == "" {
		h.resp.Fail(w, r, domain.KindValidation, msgMissingCredentials)
		return
	}
	if err := validated(req); err != nil {
		h.resp.Error(w, r, err)
		return
	}

	result, err := h.authService.Login(r.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	h.setRefreshCookie(w, result.RefreshToken, result.RefreshExpiresAt)
	response.JSON(w, http.StatusOK, authResponse(result))
}

func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var token string
	if cookie, err := r.Cookie(RefreshCookieName); err == nil {
		token = cookie.Value
	}

	accessToken, err := h.authService.Refresh(r.Context(), token)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, RefreshResponse{AccessToken: accessToken})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	var token string
	if cookie, err := r.Cookie(RefreshCookieName); err == nil {
		token = cookie.Value
	}

	if err := h.authService.Logout(r.Context(), userID, token); err != nil {
		h.resp.Error(w, r, err)
		return
	}

	http.SetCookie(w, h.refreshCookie("", -1))
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) setRefreshCookie(w http.ResponseWriter, token string, expiresAt time.Time) {
	cookie := h.refreshCookie(token, int(h.cfg.RefreshTokenTTL.Seconds()))
	cookie.Expires = expiresAt
	http.SetCookie(w, cookie)
}

func (h *AuthHandler) refreshCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     RefreshCookieName,
		Value:    value,
		Path:     refreshCookiePath,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   !h.cfg.IsDevelopment(),
		SameSite: http.SameSiteStrictMode,
	}
}

func authResponse(result *service.AuthResult) AuthResponse {
	resp := AuthResponse{Status: "success", Token: result.AccessToken}
	resp.Data.User = AuthUserResponse{
		Username: result.User.Username,
		Email:    result.User.Email,
		Role:     result.User.Role,
	}
	return resp
}
