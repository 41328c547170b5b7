package server

import (
	"log"

	"github.com/konmin123/TopBlogPosts/internal/auth"
	"github.com/konmin123/TopBlogPosts/internal/config"
	"github.com/konmin123/TopBlogPosts/internal/media"
	"github.com/konmin123/TopBlogPosts/internal/posts"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App   *fiber.App
	Cfg   config.Config
	DB    *pgxpool.Pool
	Redis *redis.Client
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client) *Server {
	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	s := &Server{
		App:   app,
		Cfg:   cfg,
		DB:    db,
		Redis: redisClient,
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	authSvc := auth.NewService(s.Cfg.SessionSecret, s.DB, s.Redis)
	s.App.Use(auth.LoadUser(authSvc))
	auth.RegisterRoutes(s.App.Group("/auth"), authSvc)

	store, err := media.NewMinioStore(s.Cfg)
	if err != nil {
		log.Printf("media store unavailable: %v", err)
	}
	mediaSvc := media.NewService(s.DB, store, media.PublicURL(s.Cfg))

	posts.RegisterRoutes(s.App, posts.NewService(s.DB), mediaSvc, s.Cfg.PostsPerPage, auth.RequireUser())
}
