package router

import (
	"time"

	"github.com/a810439322/moneyup/internal/config"
	"github.com/a810439322/moneyup/internal/handler"
	"github.com/a810439322/moneyup/internal/middleware"
	"github.com/a810439322/moneyup/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SetupRouter configures the Gin engine and the API route group.
func SetupRouter(cfg *config.Config, s *store.SQLStore, log *logrus.Logger) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(middleware.RequestLogger(log), gin.Recovery())

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.CORS.Origins) == 1 && cfg.CORS.Origins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.CORS.Origins
	}
	r.Use(cors.New(corsCfg))

	// ====== API ======
	api := r.Group("/api")

	assetHandler := handler.NewAssetHandler(s, log)
	api.GET("/assets", assetHandler.ListAssets)
	api.POST("/assets", assetHandler.CreateAsset)
	api.PUT("/assets/:id", assetHandler.UpdateAsset)
	api.DELETE("/assets/:id", assetHandler.DeleteAsset)
	api.GET("/assets/by-tag/:tagId", assetHandler.ListAssetsByTag)

	tagHandler := handler.NewTagHandler(s, log)
	api.GET("/tags", tagHandler.ListTags)
	api.POST("/tags", tagHandler.CreateTag)
	api.PUT("/tags/:id", tagHandler.UpdateTag)
	api.DELETE("/tags/:id", tagHandler.DeleteTag)

	historyHandler := handler.NewHistoryHandler(s, log)
	api.GET("/history", historyHandler.ListHistory)

	systemHandler := handler.NewSystemHandler(s, log)
	api.GET("/statistics", systemHandler.Statistics)
	api.DELETE("/clear", systemHandler.Clear)
	api.GET("/health", systemHandler.Health)

	dataHandler := handler.NewDataHandler(s, log)
	api.GET("/export", dataHandler.Export)
	api.POST("/import", dataHandler.Import)

	sheetHandler := handler.NewSheetHandler(s, log)
	api.GET("/export/csv", sheetHandler.ExportCSV)
	api.GET("/export/xlsx", sheetHandler.ExportXLSX)

	backupHandler := handler.NewBackupHandler(s, log, cfg.Backup.Dir)
	api.POST("/backups", backupHandler.CreateBackup)
	api.GET("/backups", backupHandler.ListBackups)
	api.POST("/backups/:file/restore", backupHandler.RestoreBackup)

	return r
}
