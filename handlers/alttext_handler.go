package handlers

import (
	"ImgAltText/controllers"

	"github.com/gin-gonic/gin"
)

// RegisterAltTextRoutes sets up the runtime alt text routes
func RegisterAltTextRoutes(router gin.IRoutes, altTextController *controllers.AltTextController) {
	router.GET("/alttext", altTextController.GetAltText)
	router.GET("/observer.js", altTextController.GetObserverScript)
}
