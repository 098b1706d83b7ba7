package http

import (
	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	health := NewHealthController(cfg.Database, cfg.AssetsDir, cfg.Version)
	booksController := NewBooksController(cfg.Books)
	authorsController := NewAuthorsController(cfg.Authors)
	listsController := NewListsController(cfg.Lists)
	exportController := NewExportController(cfg.Exporter, cfg.Backups)
	maintenanceController := NewMaintenanceController(cfg.Maintenance, cfg.TaskQueue)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	api := router.Group("/api")

	// Books
	api.GET("/books", booksController.GetBooks)
	api.GET("/books/recent", booksController.GetRecentlyRead)
	api.POST("/books", booksController.AddBook)
	api.GET("/books/:id", booksController.GetBook)
	api.DELETE("/books/:id", booksController.RemoveBook)
	api.PUT("/books/:id/position", booksController.UpdatePosition)
	api.PUT("/books/:id/percent", booksController.UpdateReadPercent)
	api.PUT("/books/:id/finished", booksController.MarkFinished)
	api.PUT("/books/:id/cover", booksController.UpdateCoverLocal)
	api.PUT("/books/:id/file", booksController.UpdateFilePath)

	// Authors
	api.GET("/authors/:id", authorsController.GetAuthor)

	// Reading lists
	api.GET("/lists", listsController.GetLists)
	api.POST("/lists", listsController.CreateList)
	api.GET("/lists/:id", listsController.GetList)
	api.DELETE("/lists/:id", listsController.DeleteList)
	api.POST("/lists/:id/books", listsController.AddToList)
	api.DELETE("/lists/:id/books/:bookID", listsController.RemoveFromList)

	// Export and maintenance
	api.GET("/export", exportController.Export)
	api.POST("/maintenance/backup", exportController.Backup)
	api.POST("/maintenance/verify-assets", maintenanceController.VerifyAssets)
	api.POST("/maintenance/prune", maintenanceController.PruneOrphans)
	api.GET("/tasks/:id", maintenanceController.GetTaskStatus)

	return router
}
