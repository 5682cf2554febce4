package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/tanmayk/meritalloc/internal/app/controllers"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	allocationController *controllers.AllocationController,
	groupingController *controllers.GroupingController,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Allocation routes ---
	allocations := v1.Group("/allocations")
	{
		allocations.POST("", allocationController.CreateRun)
		allocations.GET("/:id", allocationController.GetRun)
		allocations.GET("/:id/assignments.csv", allocationController.DownloadAssignments)
		allocations.GET("/:id/preferences.csv", allocationController.DownloadPreferences)
	}

	// --- Grouping routes ---
	groupings := v1.Group("/groupings")
	{
		groupings.POST("", groupingController.CreateRun)
		groupings.GET("/:id", groupingController.GetRun)
		groupings.GET("/:id/groups/:n", groupingController.DownloadUniformGroup)
		groupings.GET("/:id/mixed/:n", groupingController.DownloadMixedGroup)
		groupings.GET("/:id/summary.csv", groupingController.DownloadSummary)
	}
}
