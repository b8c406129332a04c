package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"marketplace/docs"
	"marketplace/internal/config"
	apperrors "marketplace/internal/errors"
	"marketplace/internal/handler"
	"marketplace/internal/middleware"
)

// uploadBodyLimit leaves room for multipart framing around a 5 MiB image.
const uploadBodyLimit = "6M"

// Handlers groups everything Register mounts.
type Handlers struct {
	Auth    *handler.AuthHandler
	Listing *handler.ListingHandler
	Comment *handler.CommentHandler
	User    *handler.UserHandler
	Image   *handler.ImageHandler
}

// Register wires routes and middleware.
func Register(e *echo.Echo, cfg *config.Config, log *zap.Logger, authenticator middleware.Authenticator, h Handlers) {
	e.HTTPErrorHandler = ErrorHandler(log)
	e.Validator = NewValidator()

	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(echomw.BodyLimit(uploadBodyLimit))

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")
	requireAuth := middleware.RequireAuth(authenticator)
	ownsListing := middleware.RequireOwnership(handler.ListingContextKey, h.Listing.ResolveListing, apperrors.ErrListingNotFound)

	// Auth
	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/refresh", h.Auth.Refresh)
	api.POST("/auth/logout", h.Auth.Logout, requireAuth)
	api.GET("/auth/me", h.Auth.Me, requireAuth)

	// Listings
	api.GET("/listings", h.Listing.List)
	api.POST("/listings", h.Listing.Create, requireAuth)
	api.GET("/listings/price-range", h.Listing.ByPriceRange)
	api.GET("/listings/category/:category", h.Listing.ByCategory)
	api.GET("/listings/:id", h.Listing.Show)
	api.PUT("/listings/:id", h.Listing.Update, requireAuth, ownsListing)
	api.DELETE("/listings/:id", h.Listing.Delete, requireAuth, ownsListing)

	// Comments
	api.GET("/listings/:id/comments", h.Comment.List)
	api.POST("/listings/:id/comments", h.Comment.Create, requireAuth)
	api.DELETE("/comments/:id", h.Comment.Delete, requireAuth)

	// Users
	api.GET("/users", h.User.ListUsers)
	api.GET("/users/:id", h.User.GetUser)
	api.GET("/users/:id/listings", h.Listing.ByOwner)

	// Images
	api.POST("/upload-image", h.Image.Upload)
}
