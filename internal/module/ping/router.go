package ping

import (
	"ax-dashboard/internal/global/response"

	"github.com/gin-gonic/gin"
)

func (p *ModulePing) InitRouter(r *gin.RouterGroup) {
	r.GET("/ping", Ping)
}

func Ping(c *gin.Context) {
	response.Success(c, "pong")
}
