package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pencraft/blog-backend/internal/apperr"
	"github.com/pencraft/blog-backend/internal/middleware"
	"github.com/pencraft/blog-backend/internal/models"
	"github.com/pencraft/blog-backend/internal/repositories"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	commentRepository repositories.CommentRepository
	postRepository    repositories.PostRepository
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentRepo repositories.CommentRepository, postRepo repositories.PostRepository) *CommentHandler {
	return &CommentHandler{
		commentRepository: commentRepo,
		postRepository:    postRepo,
	}
}

// CommentOwner resolves the authoring user of the comment named by :id, for
// the ownership policy.
func CommentOwner(repo repositories.CommentRepository) middleware.OwnerLookup {
	return func(c echo.Context) (string, error) {
		id, err := parseCommentID(c)
		if err != nil {
			return "", err
		}
		comment, err := repo.GetCommentByID(id)
		if err != nil {
			return "", err
		}
		return comment.UserID, nil
	}
}

func parseCommentID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, apperr.Validation("invalid comment ID")
	}
	return uint(id), nil
}

// CreateComment creates a new comment on a post
func (h *CommentHandler) CreateComment(c echo.Context) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	postID := c.Param("id")
	if _, err := h.postRepository.GetPostByID(c.Request().Context(), postID); err != nil {
		return err
	}

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	comment := &models.Comment{
		PostID:     postID,
		UserID:     principal.ID,
		AuthorName: principal.Name,
		Content:    req.Content,
	}
	if err := h.commentRepository.CreateComment(comment); err != nil {
		return err
	}

	return respondMessage(c, http.StatusCreated, "Comment created successfully", comment)
}

// GetCommentsByPostID retrieves all comments for a specific post
func (h *CommentHandler) GetCommentsByPostID(c echo.Context) error {
	postID := c.Param("id")
	if _, err := h.postRepository.GetPostByID(c.Request().Context(), postID); err != nil {
		return err
	}

	comments, err := h.commentRepository.GetCommentsByPostID(postID)
	if err != nil {
		return err
	}

	return respondData(c, http.StatusOK, comments)
}

// UpdateComment updates an existing comment; ownership is enforced by the
// route's ownership middleware.
func (h *CommentHandler) UpdateComment(c echo.Context) error {
	id, err := parseCommentID(c)
	if err != nil {
		return err
	}

	var req models.UpdateCommentRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	comment, err := h.commentRepository.GetCommentByID(id)
	if err != nil {
		return err
	}

	comment.Content = req.Content
	if err := h.commentRepository.UpdateComment(comment); err != nil {
		return err
	}

	return respondMessage(c, http.StatusOK, "Comment updated successfully", comment)
}

// DeleteComment deletes a comment; a repeated delete reports not found.
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	id, err := parseCommentID(c)
	if err != nil {
		return err
	}

	if err := h.commentRepository.DeleteComment(id); err != nil {
		return err
	}

	return respondMessage(c, http.StatusOK, "Comment deleted successfully", nil)
}
