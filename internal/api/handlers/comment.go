package handlers

import (
	"net/http"

	"github.com/dom/blog-platform/internal/api/middleware"
	"github.com/dom/blog-platform/internal/api/response"
	"github.com/dom/blog-platform/internal/config"
	"github.com/dom/blog-platform/internal/service"
	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation"
)

type CommentHandler struct {
	commentService *service.CommentService
	cfg            *config.Config
	resp           *response.Responder
}

func NewCommentHandler(commentService *service.CommentService, cfg *config.Config, resp *response.Responder) *CommentHandler {
	return &CommentHandler{commentService: commentService, cfg: cfg, resp: resp}
}

type CreateCommentRequest struct {
	Content string `json:"content"`
}

func (r CreateCommentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Content, validation.Required.Error("Content is required"), validation.Length(1, 1000)),
	)
}

func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	blogID, err := uuidParam(r, "blog")
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	var req CreateCommentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.resp.Error(w, r, err)
		return
	}
	if err := validated(req); err != nil {
		h.resp.Error(w, r, err)
		return
	}

	comment, err := h.commentService.Create(r.Context(), userID, blogID, req.Content)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	response.Success(w, http.StatusCreated, map[string]any{"comment": comment})
}

func (h *CommentHandler) ListByBlog(w http.ResponseWriter, r *http.Request) {
	comments, err := h.commentService.ListByBlogSlug(r.Context(), chi.URLParam(r, "blog"))
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	response.Success(w, http.StatusOK, map[string]any{
		"results":  len(comments),
		"comments": comments,
	})
}

func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := parsePagination(r, h.cfg.DefaultResLimit, h.cfg.DefaultResOffset)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	comments, total, err := h.commentService.List(r.Context(), page.Limit, page.Offset)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	response.Success(w, http.StatusOK, map[string]any{
		"total":    total,
		"limit":    page.Limit,
		"offset":   page.Offset,
		"comments": comments,
	})
}

func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	commentID, err := uuidParam(r, "commentId")
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	if err := h.commentService.Delete(r.Context(), userID, commentID); err != nil {
		h.resp.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
