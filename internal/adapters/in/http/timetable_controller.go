package http

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stwidget/timetable-engine/internal/config"
	"github.com/stwidget/timetable-engine/internal/core/domain"
	"github.com/stwidget/timetable-engine/internal/core/json_types"
	"github.com/stwidget/timetable-engine/internal/core/ports/in"
	"github.com/stwidget/timetable-engine/internal/utils"
)

// TimetableController is the overlay's data feed: status queries for
// highlighting, config CRUD for the edit dialogs, theme tokens for
// styling.
type TimetableController struct {
	scheduleUseCase in.ScheduleUseCase
	configUseCase   in.ConfigUseCase
	cfg             *config.Config
	location        *time.Location
}

func NewTimetableController(
	scheduleUseCase in.ScheduleUseCase,
	configUseCase in.ConfigUseCase,
	cfg *config.Config,
) *TimetableController {
	return &TimetableController{
		scheduleUseCase: scheduleUseCase,
		configUseCase:   configUseCase,
		cfg:             cfg,
		location:        utils.LoadLocation(cfg.App.Timezone),
	}
}

func (c *TimetableController) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1")
	if len(c.cfg.Auth.BasicClients) > 0 {
		api.Use(c.basicAuth())
	}
	{
		api.GET("/status", c.getStatus)
		api.GET("/schedule/:dayId", c.getDaySchedule)

		api.GET("/config", c.getConfig)
		api.PUT("/config", c.putConfig)
		api.POST("/config/reset", c.resetConfig)

		api.GET("/theme", c.getTheme)

		api.GET("/backups", c.listBackups)
		api.POST("/backups", c.createBackup)
		api.POST("/backups/:name/restore", c.restoreBackup)
	}
}

// getStatus defaults to "here and now" in the configured timezone, so
// the overlay can poll without arguments; day/at make it deterministic
// for tests and previews.
func (c *TimetableController) getStatus(ctx *gin.Context) {
	now := time.Now().In(c.location)

	dayID := ctx.Query("day")
	if dayID == "" {
		dayID = utils.DayIDFor(now)
	}

	at := utils.TimeOfDayFor(now)
	if raw := ctx.Query("at"); raw != "" {
		parsed, err := json_types.ParseTimeOfDay(raw)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'at', want HH:MM"})
			return
		}
		at = parsed
	}

	status := c.scheduleUseCase.DayStatus(ctx.Request.Context(), dayID, at)
	ctx.JSON(http.StatusOK, status)
}

func (c *TimetableController) getDaySchedule(ctx *gin.Context) {
	dayID := ctx.Param("dayId")
	windows := c.scheduleUseCase.DaySchedule(ctx.Request.Context(), dayID)
	if windows == nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "unknown day id"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"dayId":   dayID,
		"periods": windows,
	})
}

func (c *TimetableController) getConfig(ctx *gin.Context) {
	cfg := c.configUseCase.Current(ctx.Request.Context())
	ctx.JSON(http.StatusOK, cfg.Serialize())
}

func (c *TimetableController) putConfig(ctx *gin.Context) {
	var raw map[string]any
	if err := ctx.ShouldBindJSON(&raw); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "body must be a JSON object"})
		return
	}

	cfg, err := c.configUseCase.Replace(ctx.Request.Context(), raw)
	if err != nil {
		status, payload := configErrorResponse(err)
		ctx.JSON(status, payload)
		return
	}

	ctx.JSON(http.StatusOK, cfg.Serialize())
}

func (c *TimetableController) resetConfig(ctx *gin.Context) {
	cfg, err := c.configUseCase.Reset(ctx.Request.Context())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, cfg.Serialize())
}

func (c *TimetableController) getTheme(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"tokens": c.configUseCase.ThemeTokens(ctx.Request.Context()),
	})
}

func (c *TimetableController) listBackups(ctx *gin.Context) {
	backups, err := c.configUseCase.ListBackups(ctx.Request.Context())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"backups": backups})
}

type createBackupRequest struct {
	Name string `json:"name"`
}

func (c *TimetableController) createBackup(ctx *gin.Context) {
	var req createBackupRequest
	// Empty body is fine, the store names the backup by timestamp.
	_ = ctx.ShouldBindJSON(&req)

	backup, err := c.configUseCase.CreateBackup(ctx.Request.Context(), req.Name)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusCreated, backup)
}

func (c *TimetableController) restoreBackup(ctx *gin.Context) {
	cfg, err := c.configUseCase.RestoreBackup(ctx.Request.Context(), ctx.Param("name"))
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, cfg.Serialize())
}

func configErrorResponse(err error) (int, gin.H) {
	var formatErr *domain.ConfigFormatError
	var schemaErr *domain.UnsupportedSchemaError
	var validationErr *domain.ValidationError

	switch {
	case errors.As(err, &formatErr):
		return http.StatusBadRequest, gin.H{"error": formatErr.Error()}
	case errors.As(err, &schemaErr):
		return http.StatusUnprocessableEntity, gin.H{"error": schemaErr.Error()}
	case errors.As(err, &validationErr):
		return http.StatusUnprocessableEntity, gin.H{
			"error": validationErr.Error(),
			"field": validationErr.Field,
		}
	default:
		return http.StatusInternalServerError, gin.H{"error": err.Error()}
	}
}

func (c *TimetableController) basicAuth() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		username, password, hasAuth := ctx.Request.BasicAuth()
		if !hasAuth {
			ctx.Header("WWW-Authenticate", "Basic realm=Authorization Required")
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		for _, client := range c.cfg.Auth.BasicClients {
			if subtle.ConstantTimeCompare([]byte(username), []byte(client.Username)) == 1 &&
				subtle.ConstantTimeCompare([]byte(password), []byte(client.Password)) == 1 {
				ctx.Next()
				return
			}
		}

		ctx.Header("WWW-Authenticate", "Basic realm=Authorization Required")
		ctx.AbortWithStatus(http.StatusUnauthorized)
	}
}
