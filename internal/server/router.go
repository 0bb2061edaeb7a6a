// Package server wires repositories, services and handlers into the HTTP router.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"foodgram/internal/config"
	"foodgram/internal/middleware"
	"foodgram/internal/modules/catalog"
	"foodgram/internal/modules/recipe"
	"foodgram/internal/modules/subscription"
	"foodgram/internal/modules/user"
	"foodgram/internal/pkg/response"
	"foodgram/internal/pkg/shortcode"
	"foodgram/internal/repository"
	"foodgram/internal/storage"
)

type Deps struct {
	Config *config.Config
	DB     *gorm.DB
	Images storage.Store
	Tokens middleware.TokenValidator
}

func NewRouter(d Deps) (*gin.Engine, error) {
	cfg := d.Config

	codes, err := shortcode.New(cfg.ShortCodeLength, cfg.ShortCodeAlphabet, cfg.ShortCodeMaxAttempts)
	if err != nil {
		return nil, err
	}

	// repositories
	userRepo := repository.NewUserRepository(d.DB)
	tagRepo := repository.NewTagRepository(d.DB)
	ingredientRepo := repository.NewIngredientRepository(d.DB)
	recipeRepo := repository.NewRecipeRepository(d.DB)
	favoriteRepo := repository.NewFavoriteRepository(d.DB)
	cartRepo := repository.NewShoppingCartRepository(d.DB)
	subscriptionRepo := repository.NewSubscriptionRepository(d.DB)

	// services
	userService := user.NewService(userRepo, subscriptionRepo, d.Images)
	catalogService := catalog.NewService(tagRepo, ingredientRepo)
	recipeService, err := recipe.NewService(recipe.Deps{
		Recipes:       recipeRepo,
		Tags:          tagRepo,
		Ingredients:   ingredientRepo,
		Favorites:     favoriteRepo,
		Cart:          cartRepo,
		Subscriptions: subscriptionRepo,
		Images:        d.Images,
		Codes:         codes,
		LinkBaseURL:   cfg.PublicBaseURL + "/api",
		CacheSize:     cfg.ShortCodeCacheSize,
	})
	if err != nil {
		return nil, err
	}
	subscriptionService := subscription.NewService(subscriptionRepo, userRepo, recipeRepo)

	// handlers
	userHandler := user.NewHandler(userService, cfg.DefaultPageSize)
	catalogHandler := catalog.NewHandler(catalogService)
	recipeHandler := recipe.NewHandler(recipeService, cfg.DefaultPageSize)
	subscriptionHandler := subscription.NewHandler(subscriptionService, cfg.DefaultPageSize)

	r := gin.New()
	r.Use(
		middleware.Recovery(),
		middleware.RequestLogger(),
		middleware.CORS(cfg.CORSAllowedOrigins),
		middleware.Metrics(),
	)

	r.GET("/healthz", healthz(d.DB))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if local, ok := d.Images.(*storage.LocalStore); ok {
		r.Static(local.URLBase(), local.BaseDir())
	}

	api := r.Group("/api")
	api.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
	{
		public := api.Group("")
		public.Use(middleware.OptionalAuth(d.Tokens))

		protected := api.Group("")
		protected.Use(middleware.JWTAuth(d.Tokens), middleware.ActiveUser(userRepo))

		catalogHandler.RegisterRoutes(public)
		userHandler.RegisterRoutes(public, protected)
		subscriptionHandler.RegisterRoutes(protected)
		recipeHandler.RegisterRoutes(public, protected)
	}

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Route not found")
	})

	return r, nil
}

func healthz(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			response.Error(c, http.StatusServiceUnavailable, "UNAVAILABLE", fmt.Sprintf("database: %v", err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
