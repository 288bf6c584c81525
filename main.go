package main

import (
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/bradavice/roleplay_backend/controllers"
	"github.com/bradavice/roleplay_backend/database"
	"github.com/bradavice/roleplay_backend/docs"
	"github.com/bradavice/roleplay_backend/metrics"
	"github.com/bradavice/roleplay_backend/middleware"
	"github.com/bradavice/roleplay_backend/websocket"
)

// @title           Roleplay Chat API
// @version         1.0
// @description     API Server for the roleplay chat platform
// @host            localhost:8080
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found, using system environment variables")
	}

	initLogger()

	// Initialize database
	database.Connect()
	database.Migrate()

	// Set up Swagger info
	docs.SwaggerInfo.Title = "Roleplay Chat API"
	docs.SwaggerInfo.Description = "API Server for the roleplay chat platform"
	docs.SwaggerInfo.Version = "1.0"
	docs.SwaggerInfo.Host = "localhost:" + os.Getenv("PORT")
	if docs.SwaggerInfo.Host == "localhost:" {
		docs.SwaggerInfo.Host = "localhost:8080"
	}
	docs.SwaggerInfo.BasePath = "/"
	docs.SwaggerInfo.Schemes = []string{"http"}

	router := setupRouter()

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Info().Str("port", port).Msg("server running")
	if err := router.Run(":" + port); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}

func initLogger() {
	zerolog.TimeFieldFormat = time.RFC3339
	if os.Getenv("APP_ENV") == "dev" {
		cw := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		log.Logger = zerolog.New(cw).With().Timestamp().Logger()
		return
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}

func setupRouter() *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept", "Authorization", "Cache-Control", "X-Requested-With"},
		ExposeHeaders:   []string{"Content-Disposition"},
		MaxAge:          12 * time.Hour,
	}))
	router.Use(metrics.GinMiddleware())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Authentication routes
	auth := router.Group("/api")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", middleware.RateLimit(1, 5), controllers.Login)
	}

	// Protected routes
	api := router.Group("/api")
	api.Use(middleware.JWTAuth())
	{
		// Directory routes
		api.GET("/users", controllers.GetUsers)
		api.GET("/users/:id", controllers.GetUser)
		api.GET("/characters", controllers.GetMyCharacters)
		api.POST("/characters", controllers.CreateCharacter)
		api.GET("/characters/:id", controllers.GetCharacter)
		api.PUT("/characters/:id", controllers.UpdateCharacter)
		api.POST("/characters/:id/activate", controllers.ActivateCharacter)

		// Room and category routes
		api.GET("/chat/categories", controllers.GetCategories)
		api.GET("/chat/rooms", controllers.GetChatRooms)
		api.POST("/chat/rooms/:id/verify-password", middleware.RateLimit(1, 5), controllers.VerifyRoomPassword)

		// Message routes
		api.GET("/chat/rooms/:id/messages", controllers.GetRoomMessages)
		api.POST("/chat/messages", controllers.CreateMessage)
		api.PUT("/chat/messages/:id/character", controllers.ReattributeMessage)
		api.GET("/chat/rooms/:id/export", controllers.ExportRoom)

		// Game data routes
		api.GET("/spells", controllers.GetSpells)
		api.GET("/wand-components", controllers.GetWandComponents)
	}

	// Admin routes
	admin := router.Group("/api")
	admin.Use(middleware.JWTAuth(), middleware.AdminOnly())
	{
		admin.POST("/chat/rooms", controllers.CreateChatRoom)
		admin.PUT("/chat/rooms/:id", controllers.UpdateChatRoom)
		admin.POST("/chat/categories", controllers.CreateCategory)
		admin.PUT("/chat/categories/:id", controllers.UpdateCategory)

		admin.POST("/chat/rooms/:id/archive", controllers.ArchiveRoom)
		admin.DELETE("/admin/rooms/:id/clear", controllers.ClearRoom)
		admin.GET("/admin/rooms/:id/archive-dates", controllers.GetArchiveDates)
		admin.GET("/admin/rooms/:id/archived/:date", controllers.GetArchivedMessages)

		admin.GET("/admin/users", controllers.GetAllUsers)
		admin.POST("/admin/users/:id/ban", controllers.BanUser)
		admin.POST("/admin/users/:id/unban", controllers.UnbanUser)
		admin.POST("/admin/users/:id/narrator", controllers.SetNarrator)
		admin.POST("/admin/characters/:id/kill", controllers.KillCharacter)
		admin.POST("/admin/characters/:id/revive", controllers.ReviveCharacter)

		admin.GET("/admin/invites", controllers.GetInviteCodes)
		admin.POST("/admin/invites", controllers.CreateInviteCodes)

		admin.POST("/admin/spells", controllers.CreateSpell)
		admin.PUT("/admin/spells/:id", controllers.UpdateSpell)
		admin.DELETE("/admin/spells/:id", controllers.DeleteSpell)
		admin.PUT("/admin/wand-components/:id", controllers.UpdateWandComponent)
		admin.POST("/admin/wand-components/normalize", controllers.NormalizeWandComponents)
	}

	// WebSocket route
	router.GET("/ws", websocket.HandleConnection)

	return router
}
