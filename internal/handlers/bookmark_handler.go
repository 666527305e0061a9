package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pencraft/blog-backend/internal/repositories"
)

// BookmarkHandler handles HTTP requests related to bookmarks
type BookmarkHandler struct {
	bookmarkRepository repositories.BookmarkRepository
	postRepository     repositories.PostRepository
}

// NewBookmarkHandler creates a new BookmarkHandler
func NewBookmarkHandler(bookmarkRepo repositories.BookmarkRepository, postRepo repositories.PostRepository) *BookmarkHandler {
	return &BookmarkHandler{
		bookmarkRepository: bookmarkRepo,
		postRepository:     postRepo,
	}
}

// ToggleBookmark flips the current user's bookmark on a post and reports
// the resulting state.
func (h *BookmarkHandler) ToggleBookmark(c echo.Context) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	postID := c.Param("id")
	if _, err := h.postRepository.GetPostByID(c.Request().Context(), postID); err != nil {
		return err
	}

	bookmarked, err := h.bookmarkRepository.ToggleBookmark(postID, principal.ID)
	if err != nil {
		return err
	}

	return respondData(c, http.StatusOK, echo.Map{"bookmarked": bookmarked})
}
