package handlers

import (
	"context"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pencraft/blog-backend/internal/apperr"
	"github.com/pencraft/blog-backend/internal/middleware"
	"github.com/pencraft/blog-backend/internal/models"
	"github.com/pencraft/blog-backend/internal/repositories"
	"github.com/pencraft/blog-backend/validators"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newHandlerContext(method, target, body string, principal *models.Principal) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = validators.NewValidator()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if principal != nil {
		middleware.SetPrincipal(c, principal)
	}
	return c, rec
}

// fakePostRepo keeps posts in a map and records the last listing query so
// tests can assert on the filter the handler built.
type fakePostRepo struct {
	posts map[string]*models.Post

	listPosts  []models.Post
	listTotal  int64
	lastFilter repositories.PostFilter
	lastSkip   int64
	lastLimit  int64
	listCalls  int
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[string]*models.Post)}
}

func (r *fakePostRepo) CreatePost(_ context.Context, post *models.Post) error {
	if post.ID.IsZero() {
		post.ID = primitive.NewObjectID()
	}
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	stored := *post
	r.posts[post.ID.Hex()] = &stored
	return nil
}

func (r *fakePostRepo) GetPostByID(_ context.Context, id string) (*models.Post, error) {
	post, ok := r.posts[id]
	if !ok {
		return nil, apperr.NotFound("post not found")
	}
	copied := *post
	return &copied, nil
}

func (r *fakePostRepo) GetPostAndCountView(ctx context.Context, id string) (*models.Post, error) {
	post, ok := r.posts[id]
	if !ok {
		return nil, apperr.NotFound("post not found")
	}
	post.Views++
	copied := *post
	return &copied, nil
}

func (r *fakePostRepo) ListPosts(_ context.Context, filter repositories.PostFilter, skip, limit int64) ([]models.Post, int64, error) {
	r.lastFilter = filter
	r.lastSkip = skip
	r.lastLimit = limit
	r.listCalls++
	return r.listPosts, r.listTotal, nil
}

func (r *fakePostRepo) UpdatePost(_ context.Context, id string, post *models.Post) error {
	if _, ok := r.posts[id]; !ok {
		return apperr.NotFound("post not found")
	}
	stored := *post
	r.posts[id] = &stored
	return nil
}

func (r *fakePostRepo) DeletePost(_ context.Context, id string) error {
	if _, ok := r.posts[id]; !ok {
		return apperr.NotFound("post not found")
	}
	delete(r.posts, id)
	return nil
}

// toggleSet is the membership model behind the like and bookmark fakes:
// one set of user ids per post.
type toggleSet struct {
	members map[string]map[string]bool
}

func newToggleSet() toggleSet {
	return toggleSet{members: make(map[string]map[string]bool)}
}

func (s toggleSet) toggle(postID, userID string) bool {
	set, ok := s.members[postID]
	if !ok {
		set = make(map[string]bool)
		s.members[postID] = set
	}
	if set[userID] {
		delete(set, userID)
		return false
	}
	set[userID] = true
	return true
}

func (s toggleSet) count(postID string) int64 {
	return int64(len(s.members[postID]))
}

func (s toggleSet) counts(postIDs []string) map[string]int64 {
	counts := make(map[string]int64)
	for _, id := range postIDs {
		if n := s.count(id); n > 0 {
			counts[id] = n
		}
	}
	return counts
}

func (s toggleSet) has(postID, userID string) bool {
	return s.members[postID][userID]
}

func (s toggleSet) membership(userID string, postIDs []string) map[string]bool {
	m := make(map[string]bool)
	for _, id := range postIDs {
		if s.has(id, userID) {
			m[id] = true
		}
	}
	return m
}

func (s toggleSet) all(userID string) []string {
	var ids []string
	for postID, set := range s.members {
		if set[userID] {
			ids = append(ids, postID)
		}
	}
	return ids
}

type fakeLikeRepo struct{ set toggleSet }

func newFakeLikeRepo() *fakeLikeRepo { return &fakeLikeRepo{set: newToggleSet()} }

func (r *fakeLikeRepo) ToggleLike(postID, userID string) (bool, error) {
	return r.set.toggle(postID, userID), nil
}
func (r *fakeLikeRepo) CountByPostID(postID string) (int64, error) { return r.set.count(postID), nil }
func (r *fakeLikeRepo) CountsByPostIDs(postIDs []string) (map[string]int64, error) {
	return r.set.counts(postIDs), nil
}
func (r *fakeLikeRepo) HasUserLikedPost(postID, userID string) (bool, error) {
	return r.set.has(postID, userID), nil
}
func (r *fakeLikeRepo) LikedPostIDs(userID string, postIDs []string) (map[string]bool, error) {
	return r.set.membership(userID, postIDs), nil
}
func (r *fakeLikeRepo) AllLikedPostIDs(userID string) ([]string, error) {
	return r.set.all(userID), nil
}

type fakeBookmarkRepo struct{ set toggleSet }

func newFakeBookmarkRepo() *fakeBookmarkRepo { return &fakeBookmarkRepo{set: newToggleSet()} }

func (r *fakeBookmarkRepo) ToggleBookmark(postID, userID string) (bool, error) {
	return r.set.toggle(postID, userID), nil
}
func (r *fakeBookmarkRepo) CountByPostID(postID string) (int64, error) {
	return r.set.count(postID), nil
}
func (r *fakeBookmarkRepo) CountsByPostIDs(postIDs []string) (map[string]int64, error) {
	return r.set.counts(postIDs), nil
}
func (r *fakeBookmarkRepo) HasUserBookmarkedPost(postID, userID string) (bool, error) {
	return r.set.has(postID, userID), nil
}
func (r *fakeBookmarkRepo) BookmarkedPostIDs(userID string, postIDs []string) (map[string]bool, error) {
	return r.set.membership(userID, postIDs), nil
}
func (r *fakeBookmarkRepo) AllBookmarkedPostIDs(userID string) ([]string, error) {
	return r.set.all(userID), nil
}

type fakeCommentRepo struct {
	comments map[uint]*models.Comment
	nextID   uint
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: make(map[uint]*models.Comment), nextID: 1}
}

func (r *fakeCommentRepo) CreateComment(comment *models.Comment) error {
	comment.ID = r.nextID
	r.nextID++
	comment.CreatedAt = time.Now()
	comment.UpdatedAt = comment.CreatedAt
	stored := *comment
	r.comments[comment.ID] = &stored
	return nil
}

func (r *fakeCommentRepo) GetCommentByID(id uint) (*models.Comment, error) {
	comment, ok := r.comments[id]
	if !ok {
		return nil, apperr.NotFound("comment not found")
	}
	copied := *comment
	return &copied, nil
}

func (r *fakeCommentRepo) GetCommentsByPostID(postID string) ([]models.Comment, error) {
	var out []models.Comment
	for id := r.nextID; id > 0; id-- {
		if c, ok := r.comments[id]; ok && c.PostID == postID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeCommentRepo) UpdateComment(comment *models.Comment) error {
	if _, ok := r.comments[comment.ID]; !ok {
		return apperr.NotFound("comment not found")
	}
	stored := *comment
	r.comments[comment.ID] = &stored
	return nil
}

func (r *fakeCommentRepo) DeleteComment(id uint) error {
	if _, ok := r.comments[id]; !ok {
		return apperr.NotFound("comment not found")
	}
	delete(r.comments, id)
	return nil
}

func (r *fakeCommentRepo) CountByPostID(postID string) (int64, error) {
	var n int64
	for _, c := range r.comments {
		if c.PostID == postID {
			n++
		}
	}
	return n, nil
}

func (r *fakeCommentRepo) CountsByPostIDs(postIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, id := range postIDs {
		n, _ := r.CountByPostID(id)
		if n > 0 {
			counts[id] = n
		}
	}
	return counts, nil
}
