package controllers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tanmayk/meritalloc/internal/app/models"
	"github.com/tanmayk/meritalloc/internal/app/models/dto"
	"github.com/tanmayk/meritalloc/internal/app/services"
	"github.com/tanmayk/meritalloc/internal/core/table"
	"github.com/tanmayk/meritalloc/internal/middleware"
)

// AllocationController handles allocation run operations
type AllocationController struct {
	allocationService services.AllocationService
	maxUploadBytes    int64
}

// NewAllocationController creates a new AllocationController
func NewAllocationController(allocationService services.AllocationService, maxUploadBytes int64) *AllocationController {
	return &AllocationController{
		allocationService: allocationService,
		maxUploadBytes:    maxUploadBytes,
	}
}

// CreateRun runs an allocation over an uploaded CSV dataset
// @Summary Run a faculty allocation
// @Description Uploads a student CSV (Roll, Name, Email, CGPA, one preference column per faculty) and runs the merit-ordered round-robin allocation
// @Tags allocations
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Student dataset (CSV with header row)"
// @Success 201 {object} dto.APIResponse{data=dto.AllocationRunResponse} "Allocation run completed"
// @Failure 400 {object} dto.ErrorResponse "Invalid or missing file"
// @Failure 422 {object} dto.ErrorResponse "Invalid schema or unparseable cells"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /allocations [post]
func (c *AllocationController) CreateRun(ctx *gin.Context) {
	src, err := c.openUpload(ctx)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid or missing file")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}
	defer src.Close()

	run, err := c.allocationService.Run(src)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(c.runResponse(run)))
}

// GetRun returns a run's metadata and preference statistics
// @Summary Get allocation run details
// @Description Retrieves metadata and preference statistics for a finished allocation run
// @Tags allocations
// @Produce json
// @Param id path string true "Run ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=dto.AllocationRunResponse} "Run retrieved"
// @Failure 404 {object} dto.ErrorResponse "Run not found"
// @Router /allocations/{id} [get]
func (c *AllocationController) GetRun(ctx *gin.Context) {
	run, err := c.allocationService.GetRun(ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(c.runResponse(run)))
}

// DownloadAssignments streams the allocation table as CSV
// @Summary Download allocation table
// @Description Streams the `Roll, Name, Email, CGPA, AssignedFaculty` table, CGPA-descending
// @Tags allocations
// @Produce text/csv
// @Param id path string true "Run ID" Format(uuid)
// @Success 200 {string} string "CSV payload"
// @Failure 404 {object} dto.ErrorResponse "Run not found"
// @Router /allocations/{id}/assignments.csv [get]
func (c *AllocationController) DownloadAssignments(ctx *gin.Context) {
	run, err := c.allocationService.GetRun(ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	writeCSV(ctx, "assignments.csv", run.Assignments)
}

// DownloadPreferences streams the preference statistics table as CSV
// @Summary Download preference statistics
// @Description Streams the per-faculty histogram of received preference ranks
// @Tags allocations
// @Produce text/csv
// @Param id path string true "Run ID" Format(uuid)
// @Success 200 {string} string "CSV payload"
// @Failure 404 {object} dto.ErrorResponse "Run not found"
// @Router /allocations/{id}/preferences.csv [get]
func (c *AllocationController) DownloadPreferences(ctx *gin.Context) {
	run, err := c.allocationService.GetRun(ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	writeCSV(ctx, "preferences.csv", run.Preferences)
}

// openUpload fetches the multipart file, capped at the configured size.
func (c *AllocationController) openUpload(ctx *gin.Context) (io.ReadCloser, error) {
	file, err := ctx.FormFile("file")
	if err != nil {
		return nil, err
	}
	if file.Size > c.maxUploadBytes {
		return nil, fmt.Errorf("upload of %d bytes exceeds limit of %d", file.Size, c.maxUploadBytes)
	}
	return file.Open()
}

func (c *AllocationController) runResponse(run *models.AllocationRun) dto.AllocationRunResponse {
	return dto.AllocationRunResponse{
		ID:               run.ID,
		CreatedAt:        run.CreatedAt,
		Students:         run.Students,
		Faculties:        run.Faculties,
		PreferenceCounts: c.allocationService.PreferenceCounts(run),
		AssignmentsURL:   fmt.Sprintf("/api/v1/allocations/%s/assignments.csv", run.ID),
		PreferencesURL:   fmt.Sprintf("/api/v1/allocations/%s/preferences.csv", run.ID),
	}
}

// writeCSV streams a table as a CSV attachment.
func writeCSV(ctx *gin.Context, filename string, t *table.Table) {
	ctx.Header("Content-Type", "text/csv")
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	ctx.Status(http.StatusOK)
	if err := t.WriteCSV(ctx.Writer); err != nil {
		// Headers are already sent; nothing left to do but drop the
		// connection state to gin.
		_ = ctx.Error(err)
	}
}
