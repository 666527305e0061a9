package router

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/pencraft/blog-backend/internal/apperr"
	"github.com/pencraft/blog-backend/internal/handlers"
	"github.com/pencraft/blog-backend/internal/middleware"
	"github.com/pencraft/blog-backend/internal/models"
	"github.com/pencraft/blog-backend/internal/repositories"
	"github.com/pencraft/blog-backend/pkg/config"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// editorRoles may modify any post or comment regardless of ownership.
var editorRoles = []string{"admin", "editor"}

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo, cfg *config.Config) {
	e.Use(eMiddleware.RequestLoggerWithConfig(eMiddleware.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v eMiddleware.RequestLoggerValues) error {
			log.Info().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Err(v.Error).
				Msg("request")
			return nil
		},
	}))
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORSWithConfig(eMiddleware.CORSConfig{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowCredentials: true,
	}))
	e.HTTPErrorHandler = HTTPErrorHandler
}

// HTTPErrorHandler maps the error taxonomy to stable statuses and the
// uniform response envelope. Internal failures are logged in full but never
// leak store detail to the caller.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := "Internal server error"

	var ae *apperr.Error
	var he *echo.HTTPError
	switch {
	case errors.As(err, &ae):
		status = ae.HTTPStatus()
		if ae.Kind != apperr.KindInternal {
			message = ae.Message
		}
	case errors.As(err, &he):
		status = he.Code
		message = fmt.Sprintf("%v", he.Message)
	}

	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("uri", c.Request().RequestURI).Msg("request failed")
	}

	if jsonErr := c.JSON(status, echo.Map{"success": false, "error": message}); jsonErr != nil {
		log.Error().Err(jsonErr).Msg("failed to write error response")
	}
}

// SetupRoutes configures all application routes and injects dependencies.
// The Firebase verifier is only consulted when AUTH_MODE=firebase.
func SetupRoutes(e *echo.Echo, pgdb *gorm.DB, mgClient *mongo.Client, cfg *config.Config, verifier middleware.TokenVerifier) {
	err := pgdb.AutoMigrate(
		&models.Like{},
		&models.Bookmark{},
		&models.Comment{},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to auto migrate models")
	}
	log.Info().Msg("PostgreSQL auto-migrations completed")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	postRepo := repositories.NewMongoPostRepository(mgClient.Database("blog"))
	likeRepo := repositories.NewPostgresLikeRepository(pgdb)
	bookmarkRepo := repositories.NewPostgresBookmarkRepository(pgdb)
	commentRepo := repositories.NewPostgresCommentRepository(pgdb)

	// --- Session resolution ---
	var authRequired, authOptional echo.MiddlewareFunc
	if cfg.AuthMode == config.AuthModeFirebase {
		authRequired = middleware.FirebaseAuth(verifier, middleware.AuthRequired)
		authOptional = middleware.FirebaseAuth(verifier, middleware.AuthOptional)
		log.Info().Msg("Using Firebase session resolution")
	} else {
		resolver := middleware.NewSessionResolver(cfg.AuthServiceURL, cfg.AuthTimeout)
		authRequired = resolver.Middleware(middleware.AuthRequired)
		authOptional = resolver.Middleware(middleware.AuthOptional)
		log.Info().Str("authority", cfg.AuthServiceURL).Msg("Using session-service resolution")
	}

	// --- Handlers ---
	postHandler := handlers.NewPostHandler(postRepo, likeRepo, bookmarkRepo, commentRepo)
	likeHandler := handlers.NewLikeHandler(likeRepo, postRepo)
	bookmarkHandler := handlers.NewBookmarkHandler(bookmarkRepo, postRepo)
	commentHandler := handlers.NewCommentHandler(commentRepo, postRepo)

	ownPost := middleware.RequireOwnership(editorRoles, handlers.PostOwner(postRepo))
	ownComment := middleware.RequireOwnership(editorRoles, handlers.CommentOwner(commentRepo))

	api := e.Group("/api/v1")

	// Catalog and single-post reads are public; a session is resolved when
	// present so responses can carry per-user engagement state.
	api.GET("/posts", postHandler.ListPosts, authOptional)
	api.GET("/posts/:id", postHandler.GetPost, authOptional)

	api.POST("/posts", postHandler.CreatePost, authRequired)
	api.PUT("/posts/:id", postHandler.UpdatePost, authRequired, ownPost)
	api.DELETE("/posts/:id", postHandler.DeletePost, authRequired, ownPost)

	api.POST("/posts/:id/like", likeHandler.ToggleLike, authRequired)
	api.POST("/posts/:id/bookmark", bookmarkHandler.ToggleBookmark, authRequired)

	api.GET("/posts/:id/comments", commentHandler.GetCommentsByPostID)
	api.POST("/posts/:id/comments", commentHandler.CreateComment, authRequired)
	api.PUT("/comments/:id", commentHandler.UpdateComment, authRequired, ownComment)
	api.DELETE("/comments/:id", commentHandler.DeleteComment, authRequired, ownComment)

	log.Info().Msg("All routes configured")
}
