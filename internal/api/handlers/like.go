package handlers

import (
	"net/http"

	"github.com/dom/blog-platform/internal/api/middleware"
	"github.com/dom/blog-platform/internal/api/response"
	"github.com/dom/blog-platform/internal/domain"
	"github.com/dom/blog-platform/internal/service"
)

type LikeHandler struct {
	likeService *service.LikeService
	resp        *response.Responder
}

func NewLikeHandler(likeService *service.LikeService, resp *response.Responder) *LikeHandler {
	return &LikeHandler{likeService: likeService, resp: resp}
}

type ToggleLikeRequest struct {
	ResourceType string `json:"resourceType"`
}

type ToggleLikeResponse struct {
	IsLiked      bool                `json:"isLiked"`
	ResourceID   string              `json:"resourceId"`
	ResourceType domain.ResourceType `json:"resourceType"`
	LikesCount   int64               `json:"likesCount"`
}

func (h *LikeHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	resourceID, err := uuidParam(r, "resourceId")
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	var req ToggleLikeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.resp.Error(w, r, err)
		return
	}

	result, err := h.likeService.Toggle(r.Context(), userID, req.ResourceType, resourceID)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	response.Success(w, http.StatusOK, ToggleLikeResponse{
		IsLiked:      result.IsLiked,
		ResourceID:   result.ResourceID.String(),
		ResourceType: result.ResourceType,
		LikesCount:   result.LikesCount,
	})
}
