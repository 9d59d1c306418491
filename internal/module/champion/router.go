package champion

import (
	"github.com/gin-gonic/gin"
)

func (m *ModuleChampion) InitRouter(r *gin.RouterGroup) {
	championGroup := r.Group("/champion")
	{
		// Name-sorted champion list for edit forms
		championGroup.GET("/list", ListChampions)

		// Administrative active flag toggle; never touched by imports
		championGroup.PUT("/active/:id", SetChampionActive)
	}
}
