package controllers

import (
	"net/http"

	"ImgAltText/models"
	"ImgAltText/observer"
	"ImgAltText/services"
	"ImgAltText/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AltTextController struct {
	AltTextService *services.AltTextService
	logger         *zap.Logger
}

func NewAltTextController(altTextService *services.AltTextService, logger *zap.Logger) *AltTextController {
	return &AltTextController{
		AltTextService: altTextService,
		logger:         logger,
	}
}

// GetAltText answers GET /alttext?file=<name> with a plain text caption.
func (h *AltTextController) GetAltText(ctx *gin.Context) {
	var req models.AltTextRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		utils.ErrorResponse(ctx, http.StatusBadRequest, "Invalid request format")
		return
	}

	altText, err := h.AltTextService.Describe(ctx.Request.Context(), req.File)
	if err != nil {
		h.logger.Error("failed to describe image", zap.String("file", req.File), zap.Error(err))
		_ = ctx.Error(utils.WrapError(err))
		ctx.Abort()
		return
	}

	utils.TextResponse(ctx, http.StatusOK, altText)
}

// GetObserverScript serves the browser side observer.
func (h *AltTextController) GetObserverScript(ctx *gin.Context) {
	ctx.Data(http.StatusOK, "text/javascript; charset=utf-8", observer.Script())
}
