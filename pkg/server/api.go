package server

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lucasduport/role-menu-bot/pkg/config"
	"github.com/lucasduport/role-menu-bot/pkg/database"
	"github.com/lucasduport/role-menu-bot/pkg/discord"
	"github.com/lucasduport/role-menu-bot/pkg/types"
	"github.com/lucasduport/role-menu-bot/pkg/utils"
)

// StatusAPI exposes bot health and counters over HTTP for monitoring
type StatusAPI struct {
	conf *config.BotConfig
	bot  *discord.Bot
	db   *database.DBManager
}

// NewStatusAPI creates the status API around a running bot
func NewStatusAPI(conf *config.BotConfig, bot *discord.Bot, db *database.DBManager) *StatusAPI {
	return &StatusAPI{conf: conf, bot: bot, db: db}
}

// Serve runs the HTTP listener until the process exits
func (a *StatusAPI) Serve() error {
	utils.InfoLog("Setting up status API endpoints")

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(cors.Default())
	r.Use(gin.Recovery())

	// Keep a panicking handler from taking the bot down with it
	r.Use(func(ctx *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				utils.ErrorLog("API PANIC RECOVERED: %v\nStack trace: %s", err, debug.Stack())
				ctx.AbortWithStatusJSON(http.StatusInternalServerError, types.APIResponse{
					Success: false,
					Error:   fmt.Sprintf("Internal server error: %v", err),
				})
			}
		}()
		ctx.Next()
	})

	r.GET("/health", a.health)

	api := r.Group("/api")
	api.GET("/status", a.status)
	api.GET("/history/stats", a.historyStats)

	utils.InfoLog("Status API listening on port %d", a.conf.APIPort)
	return r.Run(fmt.Sprintf(":%d", a.conf.APIPort))
}

// health is a liveness probe
func (a *StatusAPI) health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, types.APIResponse{Success: true, Message: "ok"})
}

// status returns uptime and pipeline counters
func (a *StatusAPI) status(ctx *gin.Context) {
	if a.bot == nil {
		utils.ErrorLog("Bot is nil in status handler")
		ctx.JSON(http.StatusInternalServerError, types.APIResponse{
			Success: false,
			Error:   "Bot not initialized",
		})
		return
	}
	ctx.JSON(http.StatusOK, types.APIResponse{Success: true, Data: a.bot.Status()})
}

// historyStats returns aggregate numbers from the audit database
func (a *StatusAPI) historyStats(ctx *gin.Context) {
	if a.db == nil {
		ctx.JSON(http.StatusNotFound, types.APIResponse{
			Success: false,
			Error:   "Audit database disabled",
		})
		return
	}
	stats, err := a.db.GetRoleHistoryStats()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, types.APIResponse{
			Success: false,
			Error:   err.Error(),
		})
		return
	}
	ctx.JSON(http.StatusOK, types.APIResponse{Success: true, Data: stats})
}
