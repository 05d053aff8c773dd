package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/polkiloo/campusorder/internal/server/http/handlers"
	"github.com/polkiloo/campusorder/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.OrderingFacade, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	authHandler := handlers.NewAuthHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade)
	campusHandler := handlers.NewCampusHandler(facade)
	scheduleHandler := handlers.NewScheduleHandler(facade)

	api := engine.Group("/api")
	user := api.Group("/user")
	user.POST("/register", authHandler.Register)
	user.POST("/login", authHandler.Login)

	userAuth := user.Group("")
	userAuth.Use(middleware.AuthRequired(facade))
	userAuth.PUT("/campus-credentials", authHandler.SetCampusCredentials)
	userAuth.POST("/orders", orderHandler.Place)
	userAuth.GET("/orders", orderHandler.List)
	userAuth.GET("/menu/:location", campusHandler.Menu)
	userAuth.GET("/locations", campusHandler.Locations)
	userAuth.POST("/scheduled-orders", scheduleHandler.Create)
	userAuth.GET("/scheduled-orders", scheduleHandler.List)
	userAuth.DELETE("/scheduled-orders/:id", scheduleHandler.Cancel)

	return engine
}
