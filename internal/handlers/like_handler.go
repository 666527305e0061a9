package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pencraft/blog-backend/internal/repositories"
)

// LikeHandler handles HTTP requests related to likes
type LikeHandler struct {
	likeRepository repositories.LikeRepository
	postRepository repositories.PostRepository
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(likeRepo repositories.LikeRepository, postRepo repositories.PostRepository) *LikeHandler {
	return &LikeHandler{
		likeRepository: likeRepo,
		postRepository: postRepo,
	}
}

// ToggleLike flips the current user's like on a post and reports the
// resulting state.
func (h *LikeHandler) ToggleLike(c echo.Context) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	postID := c.Param("id")
	if _, err := h.postRepository.GetPostByID(c.Request().Context(), postID); err != nil {
		return err
	}

	liked, err := h.likeRepository.ToggleLike(postID, principal.ID)
	if err != nil {
		return err
	}

	return respondData(c, http.StatusOK, echo.Map{"liked": liked})
}
