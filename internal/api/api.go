package api

import (
	"net/http"

	voiceCallHandler "phone-agent/internal/voicecall/handler"

	"github.com/gin-gonic/gin"
)

type API struct {
	router           *gin.RouterGroup
	voiceCallHandler voiceCallHandler.Handler
}

func New(router *gin.RouterGroup, voiceCallHandler voiceCallHandler.Handler) API {
	return API{
		router:           router,
		voiceCallHandler: voiceCallHandler,
	}
}

func (a *API) RegisterRoutes() {
	a.Health()

	a.router.GET("/test", a.voiceCallHandler.HandleTest)
	a.router.POST("/test", a.voiceCallHandler.HandleTest)
	a.router.POST("/webhook", a.voiceCallHandler.HandleSignatureMiddleware, a.voiceCallHandler.HandleWebhook)
	a.router.GET("/media-stream", a.voiceCallHandler.HandleMediaStream)
}

func (a *API) Health() {
	a.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
}
