package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"notetaker/config"
	"notetaker/handler"
	"notetaker/middleware"
	"notetaker/repository"
	"notetaker/services"
	"notetaker/usecase"
	"notetaker/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo"
)

type app struct {
	cfg          config.Config
	mongoClient  *mongo.Client
	notesService *usecase.NoteService
	userService  *usecase.UserService
	sessionRepo  middleware.SessionRepository
	sessionCache *services.SessionCache
	blacklist    *services.RedisTokenBlacklist
	tokens       *services.TokenManager
}

func setupRouter(a *app) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.RequestTracingMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.RequestSizeLimiter(a.cfg.Server.MaxRequestSize))
	router.Use(middleware.SessionMiddleware(a.sessionRepo, a.sessionCache, a.cfg.Session))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	public := router.Group("/api")
	{
		public.GET("/health", func(c *gin.Context) {
			handler.HealthHandler(c, a.mongoClient)
		})

		auth := public.Group("/auth")
		{
			auth.POST("/register", func(c *gin.Context) {
				handler.RegistrationHandler(c, a.userService, a.tokens)
			})
			auth.POST("/login", func(c *gin.Context) {
				handler.LoginHandler(c, a.userService, a.sessionRepo, a.sessionCache, a.tokens, a.cfg.Session)
			})
		}
	}

	protected := router.Group("/api")
	var blacklist middleware.TokenBlacklist
	if a.blacklist != nil {
		blacklist = a.blacklist
	}
	protected.Use(middleware.AuthMiddleware(a.tokens, blacklist))
	{
		user := protected.Group("/user")
		{
			user.GET("/profile", func(c *gin.Context) {
				handler.GetProfileHandler(c, a.userService)
			})
			user.POST("/change-password", func(c *gin.Context) {
				handler.ChangePasswordHandler(c, a.userService)
			})
			user.POST("/logout", func(c *gin.Context) {
				var revoker handler.TokenRevoker
				if a.blacklist != nil {
					revoker = a.blacklist
				}
				handler.LogoutHandler(c, a.sessionRepo, a.sessionCache, revoker, a.tokens)
			})
			user.DELETE("/delete", func(c *gin.Context) {
				handler.DeleteUserHandler(c, a.userService, a.notesService, a.sessionRepo)
			})
			user.POST("/2fa/enable", func(c *gin.Context) {
				handler.Enable2FAHandler(c, a.userService)
			})
			user.POST("/2fa/verify", func(c *gin.Context) {
				handler.Verify2FAHandler(c, a.userService)
			})
		}

		sessions := protected.Group("/sessions")
		{
			sessions.GET("/active", func(c *gin.Context) {
				handler.GetActiveSessionsHandler(c, a.sessionRepo)
			})
			sessions.POST("/logout-all", func(c *gin.Context) {
				handler.LogoutAllHandler(c, a.sessionRepo, a.sessionCache)
			})
		}

		notes := protected.Group("/notes")
		{
			notes.GET("", func(c *gin.Context) {
				handler.GetUserNotesHandler(c, a.notesService)
			})
			notes.POST("", func(c *gin.Context) {
				handler.CreateNoteHandler(c, a.notesService)
			})
			notes.POST("/suggest-tags", func(c *gin.Context) {
				handler.SuggestTagsHandler(c, a.notesService)
			})
			notes.GET("/:id", func(c *gin.Context) {
				handler.GetNoteHandler(c, a.notesService)
			})
			notes.PUT("/:id", func(c *gin.Context) {
				handler.UpdateNoteHandler(c, a.notesService)
			})
			notes.DELETE("/:id", func(c *gin.Context) {
				handler.DeleteNoteHandler(c, a.notesService)
			})
			notes.POST("/:id/tags/generate", func(c *gin.Context) {
				handler.GenerateNoteTagsHandler(c, a.notesService)
			})
		}
	}

	return router
}

func main() {
	if err := godotenv.Load(); err != nil && os.Getenv("GO_ENV") != "test" {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg := config.Load()
	if cfg.JWT.SecretKey == "" {
		log.Fatal("JWT_SECRET_KEY is not set")
	}

	utils.InitValidator()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	mongoClient, err := repository.Connect(ctx, cfg.Database)
	cancel()
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(shutdownCtx); err != nil {
			log.Printf("mongo disconnect: %v", err)
		}
	}()

	a := &app{
		cfg:         cfg,
		mongoClient: mongoClient,
		tokens:      services.NewTokenManager(cfg.JWT),
		sessionRepo: repository.NewSessionRepo(mongoClient, cfg.Database.DatabaseName),
	}

	noteRepo := repository.NewNoteRepo(mongoClient, cfg.Database.DatabaseName)
	userRepo := repository.NewUserRepo(mongoClient, cfg.Database.DatabaseName)

	var suggester usecase.TagSuggester
	if cfg.OpenAI.APIKey != "" {
		suggester = services.NewOpenAISuggester(cfg.OpenAI)
	} else {
		log.Println("OPENAI_API_KEY not set, tag suggestions disabled")
	}

	a.notesService = usecase.NewNoteService(noteRepo, suggester)
	a.userService = usecase.NewUserService(userRepo)

	// Redis is optional: without it sessions hit Mongo on every request and
	// revoked tokens stay valid until they expire.
	if cache, err := services.NewSessionCache(cfg.Redis.URL); err != nil {
		log.Printf("session cache disabled: %v", err)
	} else {
		a.sessionCache = cache
		defer cache.Close()
	}
	if blacklist, err := services.NewTokenBlacklist(cfg.Redis.URL); err != nil {
		log.Printf("token blacklist disabled: %v", err)
	} else {
		a.blacklist = blacklist
		defer blacklist.Close()
	}

	router := setupRouter(a)

	serverAddr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server starting on %s", serverAddr)
	if err := router.Run(serverAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
