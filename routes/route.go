package route

import (
	"ImgAltText/config/environment"
	"ImgAltText/controllers"
	"ImgAltText/handlers"
	"ImgAltText/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter builds the runtime engine: alt text routes, the observer script
// and the build output as static files.
func NewRouter(cfg environment.Config, altTextController *controllers.AltTextController, logger *zap.Logger) *gin.Engine {
	if cfg.Server.Mode == environment.ModeProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.AccessLog(logger))
	r.Use(middleware.ErrorHandlerMiddleware())

	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET"},
		AllowHeaders:  []string{"Content-Type"},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
	}))

	RegisterRoutes(r, altTextController)

	if cfg.Server.StaticDir != "" {
		r.Use(static.Serve("/", static.LocalFile(cfg.Server.StaticDir, false)))
	}
	return r
}

// RegisterRoutes initializes all routes
func RegisterRoutes(router *gin.Engine, altTextController *controllers.AltTextController) {
	handlers.RegisterAltTextRoutes(router, altTextController)
}
