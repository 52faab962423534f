package handlers

import (
	"net/http"

	"github.com/dom/blog-platform/internal/api/middleware"
	"github.com/dom/blog-platform/internal/api/response"
	"github.com/dom/blog-platform/internal/config"
	"github.com/dom/blog-platform/internal/domain"
	"github.com/dom/blog-platform/internal/service"
	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

func parseStatus(s string) (domain.BlogStatus, error) {
	status, err := domain.ParseBlogStatus(s)
	if err != nil {
		return "", domain.NewValidationError("Validation failed", map[string]string{"status": "must be a valid value"})
	}
	return status, nil
}

type BlogHandler struct {
	blogService *service.BlogService
	cfg         *config.Config
	resp        *response.Responder
}

func NewBlogHandler(blogService *service.BlogService, cfg *config.Config, resp *response.Responder) *BlogHandler {
	return &BlogHandler{blogService: blogService, cfg: cfg, resp: resp}
}

type BannerRequest struct {
	PublicID string `json:"publicId"`
	URL      string `json:"url"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

func (b BannerRequest) Validate() error {
	return validation.ValidateStruct(&b,
		validation.Field(&b.URL, validation.Required, is.URL),
		validation.Field(&b.Width, validation.Min(0)),
		validation.Field(&b.Height, validation.Min(0)),
	)
}

func (b *BannerRequest) banner() domain.Banner {
	if b == nil {
		return domain.Banner{}
	}
	return domain.Banner{PublicID: b.PublicID, URL: b.URL, Width: b.Width, Height: b.Height}
}

type CreateBlogRequest struct {
	Title   string         `json:"title"`
	Content string         `json:"content"`
	Banner  *BannerRequest `json:"banner"`
	Status  string         `json:"status"`
}

func (r CreateBlogRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 180)),
		validation.Field(&r.Content, validation.Required),
		validation.Field(&r.Banner),
	)
}

type UpdateBlogRequest struct {
	Title   *string        `json:"title"`
	Content *string        `json:"content"`
	Banner  *BannerRequest `json:"banner"`
	Status  *string        `json:"status"`
}

func (r UpdateBlogRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.NilOrNotEmpty, validation.Length(1, 180)),
		validation.Field(&r.Content, validation.NilOrNotEmpty),
		validation.Field(&r.Banner),
		validation.Field(&r.Status, validation.NilOrNotEmpty),
	)
}

func (h *BlogHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	var req CreateBlogRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.resp.Error(w, r, err)
		return
	}
	if err := validated(req); err != nil {
		h.resp.Error(w, r, err)
		return
	}

	status := domain.BlogStatusDraft
	if req.Status != "" {
		parsed, err := parseStatus(req.Status)
		if err != nil {
			h.resp.Error(w, r, err)
			return
		}
		status = parsed
	}

	blog, err := h.blogService.Create(r.Context(), service.CreateBlogInput{
		AuthorID: userID,
		Title:    req.Title,
		Content:  req.Content,
		Banner:   req.Banner.banner(),
		Status:   status,
	})
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	response.Success(w, http.StatusCreated, map[string]any{"blog": blog})
}

func (h *BlogHandler) List(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, false)
}

func (h *BlogHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, true)
}

func (h *BlogHandler) list(w http.ResponseWriter, r *http.Request, byAuthor bool) {
	viewerID, _ := middleware.GetUserID(r.Context())

	page, err := parsePagination(r, h.cfg.DefaultResLimit, h.cfg.DefaultResOffset)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	input := service.ListBlogsInput{ViewerID: viewerID, Limit: page.Limit, Offset: page.Offset}
	if byAuthor {
		authorID, err := uuidParam(r, "userId")
		if err != nil {
			h.resp.Error(w, r, err)
			return
		}
		input.AuthorID = &authorID
	}

	blogs, total, err := h.blogService.List(r.Context(), input)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	response.Success(w, http.StatusOK, map[string]any{
		"total":  total,
		"limit":  page.Limit,
		"offset": page.Offset,
		"blogs":  blogs,
	})
}

func (h *BlogHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	viewerID, _ := middleware.GetUserID(r.Context())

	blog, err := h.blogService.GetBySlug(r.Context(), viewerID, chi.URLParam(r, "blog"))
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	response.Success(w, http.StatusOK, map[string]any{"blog": blog})
}

func (h *BlogHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	var req UpdateBlogRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.resp.Error(w, r, err)
		return
	}
	if err := validated(req); err != nil {
		h.resp.Error(w, r, err)
		return
	}

	input := service.UpdateBlogInput{Title: req.Title, Content: req.Content}
	if req.Banner != nil {
		banner := req.Banner.banner()
		input.Banner = &banner
	}
	if req.Status != nil {
		status, err := parseStatus(*req.Status)
		if err != nil {
			h.resp.Error(w, r, err)
			return
		}
		input.Status = &status
	}

	blog, err := h.blogService.Update(r.Context(), userID, chi.URLParam(r, "blog"), input)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	response.Success(w, http.StatusOK, map[string]any{"blog": blog})
}

func (h *BlogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	blogID, err := uuidParam(r, "blog")
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	if err := h.blogService.Delete(r.Context(), userID, blogID); err != nil {
		h.resp.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
