package echo

import e "github.com/labstack/echo/v4"

func RegisterRoutes(server *e.Echo, bulkHandler *BulkOperationHandler) {
	server.POST("/api/v1/bulk-operations/validate", bulkHandler.Validate)
	server.POST("/api/v1/bulk-operations", bulkHandler.Submit)
	server.GET("/api/v1/bulk-operations", bulkHandler.List)
	server.GET("/api/v1/bulk-operations/supported", bulkHandler.Supported)
	server.GET("/api/v1/bulk-operations/:id", bulkHandler.Get)
	server.POST("/api/v1/bulk-operations/:id/cancel", bulkHandler.Cancel)
}
