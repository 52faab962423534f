package handlers

import (
	"net/http"

	"github.com/dom/blog-platform/internal/api/middleware"
	"github.com/dom/blog-platform/internal/api/response"
	"github.com/dom/blog-platform/internal/config"
	"github.com/dom/blog-platform/internal/domain"
	"github.com/dom/blog-platform/internal/service"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type UserHandler struct {
	userService *service.UserService
	cfg         *config.Config
	resp        *response.Responder
}

func NewUserHandler(userService *service.UserService, cfg *config.Config, resp *response.Responder) *UserHandler {
	return &UserHandler{userService: userService, cfg: cfg, resp: resp}
}

type UpdateUserRequest struct {
	Username    *string             `json:"username"`
	Email       *string             `json:"email"`
	Password    *string             `json:"password"`
	FirstName   *string             `json:"firstName"`
	LastName    *string             `json:"lastName"`
	SocialLinks *domain.SocialLinks `json:"socialLinks"`
}

func (r UpdateUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.NilOrNotEmpty, validation.Length(1, 20)),
		validation.Field(&r.Email, validation.NilOrNotEmpty, validation.Length(1, 50), is.Email),
		validation.Field(&r.Password, validation.NilOrNotEmpty, validation.Length(8, 0)),
		validation.Field(&r.FirstName, validation.Length(0, 20)),
		validation.Field(&r.LastName, validation.Length(0, 20)),
	)
}

func (h *UserHandler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	user, err := h.userService.GetByID(r.Context(), userID)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	response.Success(w, http.StatusOK, map[string]any{"user": user})
}

func (h *UserHandler) UpdateCurrent(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	var req UpdateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.resp.Error(w, r, err)
		return
	}
	if err := validated(req); err != nil {
		h.resp.Error(w, r, err)
		return
	}

	user, err := h.userService.UpdateCurrent(r.Context(), userID, service.UpdateUserInput{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		SocialLinks: req.SocialLinks,
	})
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	response.Success(w, http.StatusOK, map[string]any{"user": user})
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := parsePagination(r, h.cfg.DefaultResLimit, h.cfg.DefaultResOffset)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	users, total, err := h.userService.List(r.Context(), page.Limit, page.Offset)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	response.Success(w, http.StatusOK, map[string]any{
		"total":  total,
		"limit":  page.Limit,
		"offset": page.Offset,
		"users":  users,
	})
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "userId")
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	user, err := h.userService.GetByID(r.Context(), id)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	response.Success(w, http.StatusOK, map[string]any{"user": user})
}
