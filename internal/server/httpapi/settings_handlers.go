package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/biscotto/internal/server/models"
	"github.com/gin-gonic/gin"
)

func (a *API) getHomeSettings(c *gin.Context) {
	s, err := a.settings.GetHome(c.Request.Context())
	if err != nil {
		a.fail(c, err, messages{})
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": s})
}

func (a *API) getAboutSettings(c *gin.Context) {
	s, err := a.settings.GetAbout(c.Request.Context())
	if err != nil {
		a.fail(c, err, messages{})
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": s})
}

func (a *API) updateHomeSettings(c *gin.Context) {
	var patch models.HomeSettingsPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, err)
		return
	}

	s, err := a.settings.UpdateHome(c.Request.Context(), patch)
	if err != nil {
		a.fail(c, err, messages{})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Home settings updated successfully", "settings": s})
}

func (a *API) updateAboutSettings(c *gin.Context) {
	var patch models.AboutSettingsPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, err)
		return
	}

	s, err := a.settings.UpdateAbout(c.Request.Context(), patch)
	if err != nil {
		a.fail(c, err, messages{})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "About settings updated successfully", "settings": s})
}
