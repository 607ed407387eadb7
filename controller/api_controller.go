package controller

import (
	"net/http"

	"github.com/FlorianRuen/profile-stats-backend/config"
	"github.com/FlorianRuen/profile-stats-backend/model"
	"github.com/FlorianRuen/profile-stats-backend/service"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type APIController interface {
	GetProfile(ctx *gin.Context)
	GetLanguages(ctx *gin.Context)
	GetHealth(ctx *gin.Context)
}

type apiController struct {
	githubService service.GithubService
	config        config.Config
}

func NewAPIController(config config.Config, service service.GithubService) APIController {
	return apiController{
		githubService: service,
		config:        config,
	}
}

// RegisterRoutes define all routes served by the controller
func RegisterRoutes(router gin.IRouter, apiController APIController) {
	api := router.Group("")
	{
		api.GET("/health", apiController.GetHealth)
		api.GET("/github", apiController.GetProfile)
		api.GET("/github/languages", apiController.GetLanguages)
	}
}

func (s apiController) GetProfile(c *gin.Context) {
	query, ok := bindProfileQuery(c)
	if !ok {
		return
	}

	// execute the request
	profile, err := s.githubService.FetchProfile(c.Request.Context(), query)
	if err != nil {
		c.JSON(model.NewAPIError(err))
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (s apiController) GetLanguages(c *gin.Context) {
	query, ok := bindProfileQuery(c)
	if !ok {
		return
	}

	languages, err := s.githubService.FetchTopLanguages(c.Request.Context(), query)
	if err != nil {
		c.JSON(model.NewAPIError(err))
		return
	}

	c.JSON(http.StatusOK, languages)
}

func (s apiController) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// bindProfileQuery writes the bad request response itself when the query is invalid
func bindProfileQuery(c *gin.Context) (model.ProfileQuery, bool) {
	var query model.ProfileQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		log.WithError(err).Debug("invalid profile query")
		c.JSON(model.NewAPIError(model.ErrInvalidQuery))
		return model.ProfileQuery{}, false
	}

	return query, true
}
