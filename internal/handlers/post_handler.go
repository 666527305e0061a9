package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pencraft/blog-backend/internal/apperr"
	"github.com/pencraft/blog-backend/internal/middleware"
	"github.com/pencraft/blog-backend/internal/models"
	"github.com/pencraft/blog-backend/internal/repositories"
	"github.com/pencraft/blog-backend/pkg/readingtime"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	defaultPageSize = 10
	maxPageSize     = 50
)

// PostHandler handles HTTP requests related to posts and the post catalog
type PostHandler struct {
	postRepository     repositories.PostRepository
	likeRepository     repositories.LikeRepository
	bookmarkRepository repositories.BookmarkRepository
	commentRepository  repositories.CommentRepository
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(
	postRepo repositories.PostRepository,
	likeRepo repositories.LikeRepository,
	bookmarkRepo repositories.BookmarkRepository,
	commentRepo repositories.CommentRepository,
) *PostHandler {
	return &PostHandler{
		postRepository:     postRepo,
		likeRepository:     likeRepo,
		bookmarkRepository: bookmarkRepo,
		commentRepository:  commentRepo,
	}
}

// PostView is a post annotated with its engagement summary and, for
// authenticated requests, the requesting user's own engagement state.
type PostView struct {
	models.Post
	Engagement     models.EngagementSummary `json:"engagement"`
	UserEngagement *models.UserEngagement   `json:"user_engagement,omitempty"`
}

// PostOwner resolves the authoring user of the post named by :id, for the
// ownership policy.
func PostOwner(repo repositories.PostRepository) middleware.OwnerLookup {
	return func(c echo.Context) (string, error) {
		post, err := repo.GetPostByID(c.Request().Context(), c.Param("id"))
		if err != nil {
			return "", err
		}
		return post.AuthorID, nil
	}
}

func requirePrincipal(c echo.Context) (*models.Principal, error) {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		return nil, apperr.Unauthenticated("authentication required")
	}
	return principal, nil
}

// CreatePost creates a new post authored by the current principal
func (h *PostHandler) CreatePost(c echo.Context) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post := &models.Post{
		Title:         req.Title,
		Content:       *req.Content,
		Excerpt:       req.Excerpt,
		Tags:          req.Tags,
		Status:        req.Status,
		FeaturedImage: req.FeaturedImage,
		AuthorID:      principal.ID,
		Author:        principal.Name,
		ReadingTime:   readingtime.FromDocument(req.Content),
	}
	if post.Status == models.StatusPublished {
		now := time.Now()
		post.PublishedAt = &now
	}

	if err := h.postRepository.CreatePost(c.Request().Context(), post); err != nil {
		return err
	}

	return respondMessage(c, http.StatusCreated, "Post created successfully", post)
}

// GetPost is the single-post read path: it atomically counts the view and
// returns the post annotated with engagement state.
func (h *PostHandler) GetPost(c echo.Context) error {
	post, err := h.postRepository.GetPostAndCountView(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	view, err := h.buildPostView(c, post)
	if err != nil {
		return err
	}
	return respondData(c, http.StatusOK, view)
}

// buildPostView assembles a single post's engagement summary by counting
// the authoritative record sets.
func (h *PostHandler) buildPostView(c echo.Context, post *models.Post) (*PostView, error) {
	postID := post.ID.Hex()

	likes, err := h.likeRepository.CountByPostID(postID)
	if err != nil {
		return nil, err
	}
	bookmarks, err := h.bookmarkRepository.CountByPostID(postID)
	if err != nil {
		return nil, err
	}
	comments, err := h.commentRepository.CountByPostID(postID)
	if err != nil {
		return nil, err
	}

	view := &PostView{
		Post: *post,
		Engagement: models.EngagementSummary{
			Likes:     likes,
			Bookmarks: bookmarks,
			Comments:  comments,
			Views:     post.Views,
		},
	}

	if principal, ok := middleware.PrincipalFrom(c); ok {
		hasLiked, err := h.likeRepository.HasUserLikedPost(postID, principal.ID)
		if err != nil {
			return nil, err
		}
		hasBookmarked, err := h.bookmarkRepository.HasUserBookmarkedPost(postID, principal.ID)
		if err != nil {
			return nil, err
		}
		view.UserEngagement = &models.UserEngagement{HasLiked: hasLiked, HasBookmarked: hasBookmarked}
	}

	return view, nil
}

// ListPosts returns a filtered, paginated catalog page annotated with
// engagement summaries and the current user's like/bookmark state.
func (h *PostHandler) ListPosts(c echo.Context) error {
	page, limit, err := parsePagination(c)
	if err != nil {
		return err
	}

	status := c.QueryParam("status")
	if status == "" {
		status = models.StatusPublished
	}
	if status != models.StatusDraft && status != models.StatusPublished {
		return apperr.Validation("status must be draft or published")
	}

	filter := repositories.PostFilter{
		Status: status,
		Tag:    c.QueryParam("tag"),
	}

	principal, hasPrincipal := middleware.PrincipalFrom(c)

	// The mine/liked/bookmarked filters are scoped to the current user. An
	// anonymous request or a user with no matching records gets an empty
	// page, never an unfiltered one.
	switch scope := c.QueryParam("filter"); scope {
	case "":
	case "mine":
		if !hasPrincipal {
			return respondPage(c, http.StatusOK, []PostView{}, newPagination(page, limit, 0))
		}
		filter.AuthorID = principal.ID
	case "liked", "bookmarked":
		if !hasPrincipal {
			return respondPage(c, http.StatusOK, []PostView{}, newPagination(page, limit, 0))
		}
		var ids []string
		if scope == "liked" {
			ids, err = h.likeRepository.AllLikedPostIDs(principal.ID)
		} else {
			ids, err = h.bookmarkRepository.AllBookmarkedPostIDs(principal.ID)
		}
		if err != nil {
			return err
		}
		filter.IDs = toObjectIDs(ids)
		if len(filter.IDs) == 0 {
			return respondPage(c, http.StatusOK, []PostView{}, newPagination(page, limit, 0))
		}
	default:
		return apperr.Validation("filter must be mine, liked or bookmarked")
	}

	skip := int64((page - 1) * limit)
	posts, total, err := h.postRepository.ListPosts(c.Request().Context(), filter, skip, int64(limit))
	if err != nil {
		return err
	}

	views, err := h.annotatePage(posts, principal)
	if err != nil {
		return err
	}

	return respondPage(c, http.StatusOK, views, newPagination(page, limit, total))
}

// annotatePage attaches engagement summaries to one page of posts using one
// grouped query per record type and one membership query per toggle type,
// instead of per-post round trips.
func (h *PostHandler) annotatePage(posts []models.Post, principal *models.Principal) ([]PostView, error) {
	postIDs := make([]string, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID.Hex()
	}

	likeCounts, err := h.likeRepository.CountsByPostIDs(postIDs)
	if err != nil {
		return nil, err
	}
	bookmarkCounts, err := h.bookmarkRepository.CountsByPostIDs(postIDs)
	if err != nil {
		return nil, err
	}
	commentCounts, err := h.commentRepository.CountsByPostIDs(postIDs)
	if err != nil {
		return nil, err
	}

	var likedMap, bookmarkedMap map[string]bool
	if principal != nil {
		likedMap, err = h.likeRepository.LikedPostIDs(principal.ID, postIDs)
		if err != nil {
			return nil, err
		}
		bookmarkedMap, err = h.bookmarkRepository.BookmarkedPostIDs(principal.ID, postIDs)
		if err != nil {
			return nil, err
		}
	}

	views := make([]PostView, len(posts))
	for i, p := range posts {
		pid := postIDs[i]
		views[i] = PostView{
			Post: p,
			Engagement: models.EngagementSummary{
				Likes:     likeCounts[pid],
				Bookmarks: bookmarkCounts[pid],
				Comments:  commentCounts[pid],
				Views:     p.Views,
			},
		}
		if principal != nil {
			views[i].UserEngagement = &models.UserEngagement{
				HasLiked:      likedMap[pid],
				HasBookmarked: bookmarkedMap[pid],
			}
		}
	}
	return views, nil
}

// UpdatePost applies a partial update; ownership is enforced by the route's
// ownership middleware.
func (h *PostHandler) UpdatePost(c echo.Context) error {
	var req models.UpdatePostRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post, err := h.postRepository.GetPostByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	if req.Title != nil {
		post.Title = *req.Title
	}
	if req.Content != nil {
		post.Content = *req.Content
		post.ReadingTime = readingtime.FromDocument(req.Content)
	}
	if req.Excerpt != nil {
		post.Excerpt = *req.Excerpt
	}
	if req.Tags != nil {
		post.Tags = *req.Tags
	}
	if req.FeaturedImage != nil {
		post.FeaturedImage = *req.FeaturedImage
	}
	if req.Status != nil {
		post.Status = *req.Status
		// publishedAt is stamped exactly once, on the first transition to
		// published, and never re-stamped afterwards.
		if post.Status == models.StatusPublished && post.PublishedAt == nil {
			now := time.Now()
			post.PublishedAt = &now
		}
	}

	if err := h.postRepository.UpdatePost(c.Request().Context(), c.Param("id"), post); err != nil {
		return err
	}

	return respondMessage(c, http.StatusOK, "Post updated successfully", post)
}

// DeletePost removes a post; ownership is enforced by the route's ownership
// middleware.
func (h *PostHandler) DeletePost(c echo.Context) error {
	if err := h.postRepository.DeletePost(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "Post deleted successfully", nil)
}

func parsePagination(c echo.Context) (page, limit int, err error) {
	page, limit = 1, defaultPageSize

	if raw := c.QueryParam("page"); raw != "" {
		page, err = strconv.Atoi(raw)
		if err != nil || page < 1 {
			return 0, 0, apperr.Validation("page must be a positive integer")
		}
	}
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return 0, 0, apperr.Validation("limit must be a positive integer")
		}
		if limit > maxPageSize {
			limit = maxPageSize
		}
	}
	return page, limit, nil
}

func toObjectIDs(ids []string) []primitive.ObjectID {
	objIDs := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		objID, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		objIDs = append(objIDs, objID)
	}
	return objIDs
}
