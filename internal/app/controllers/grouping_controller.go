package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tanmayk/meritalloc/internal/app/models"
	"github.com/tanmayk/meritalloc/internal/app/models/dto"
	"github.com/tanmayk/meritalloc/internal/app/services"
	"github.com/tanmayk/meritalloc/internal/core/table"
	"github.com/tanmayk/meritalloc/internal/middleware"
)

// GroupingController handles study-group distribution operations
type GroupingController struct {
	groupingService services.GroupingService
	maxUploadBytes  int64
}

// NewGroupingController creates a new GroupingController
func NewGroupingController(groupingService services.GroupingService, maxUploadBytes int64) *GroupingController {
	return &GroupingController{
		groupingService: groupingService,
		maxUploadBytes:  maxUploadBytes,
	}
}

// CreateRun distributes an uploaded dataset into study groups
// @Summary Run a study-group distribution
// @Description Uploads a student CSV and splits it into k groups, both uniformly and branch-mixed
// @Tags groupings
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Student dataset (CSV with header row)"
// @Param groups formData int true "Number of groups" minimum(1)
// @Success 201 {object} dto.APIResponse{data=dto.GroupingRunResponse} "Grouping run completed"
// @Failure 400 {object} dto.ErrorResponse "Invalid file or group count"
// @Failure 422 {object} dto.ErrorResponse "Invalid schema or unparseable cells"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /groupings [post]
func (c *GroupingController) CreateRun(ctx *gin.Context) {
	k, err := strconv.Atoi(ctx.PostForm("groups"))
	if err != nil || k < 1 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Group count must be a positive integer")
		errorDetail = errorDetail.WithField("groups")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	file, err := ctx.FormFile("file")
	if err != nil || file.Size > c.maxUploadBytes {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid or missing file")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}
	src, err := file.Open()
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid or missing file")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}
	defer src.Close()

	run, err := c.groupingService.Run(src, k)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(groupingResponse(run)))
}

// GetRun returns a grouping run's metadata
// @Summary Get grouping run details
// @Description Retrieves metadata for a finished grouping run
// @Tags groupings
// @Produce json
// @Param id path string true "Run ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=dto.GroupingRunResponse} "Run retrieved"
// @Failure 404 {object} dto.ErrorResponse "Run not found"
// @Router /groupings/{id} [get]
func (c *GroupingController) GetRun(ctx *gin.Context) {
	run, err := c.groupingService.GetRun(ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(groupingResponse(run)))
}

// DownloadUniformGroup streams one uniform group's roster as CSV
// @Summary Download a uniform group
// @Tags groupings
// @Produce text/csv
// @Param id path string true "Run ID" Format(uuid)
// @Param n path int true "Group number (1-based)"
// @Success 200 {string} string "CSV payload"
// @Failure 404 {object} dto.ErrorResponse "Run or group not found"
// @Router /groupings/{id}/groups/{n}.csv [get]
func (c *GroupingController) DownloadUniformGroup(ctx *gin.Context) {
	c.downloadGroup(ctx, func(run *models.GroupingRun) []*table.Table { return run.Uniform })
}

// DownloadMixedGroup streams one branch-mixed group's roster as CSV
// @Summary Download a mixed group
// @Tags groupings
// @Produce text/csv
// @Param id path string true "Run ID" Format(uuid)
// @Param n path int true "Group number (1-based)"
// @Success 200 {string} string "CSV payload"
// @Failure 404 {object} dto.ErrorResponse "Run or group not found"
// @Router /groupings/{id}/mixed/{n}.csv [get]
func (c *GroupingController) DownloadMixedGroup(ctx *gin.Context) {
	c.downloadGroup(ctx, func(run *models.GroupingRun) []*table.Table { return run.Mixed })
}

// DownloadSummary streams the per-group branch census as CSV
// @Summary Download the grouping summary
// @Tags groupings
// @Produce text/csv
// @Param id path string true "Run ID" Format(uuid)
// @Success 200 {string} string "CSV payload"
// @Failure 404 {object} dto.ErrorResponse "Run not found"
// @Router /groupings/{id}/summary.csv [get]
func (c *GroupingController) DownloadSummary(ctx *gin.Context) {
	run, err := c.groupingService.GetRun(ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	writeCSV(ctx, "summary.csv", run.Summary)
}

func (c *GroupingController) downloadGroup(ctx *gin.Context, pick func(*models.GroupingRun) []*table.Table) {
	run, err := c.groupingService.GetRun(ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	tables := pick(run)
	n, err := strconv.Atoi(strings.TrimSuffix(ctx.Param("n"), ".csv"))
	if err != nil || n < 1 || n > len(tables) {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeRunNotFound, "Group not found")
		ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(errorDetail))
		return
	}

	writeCSV(ctx, fmt.Sprintf("group_%d.csv", n), tables[n-1])
}

func groupingResponse(run *models.GroupingRun) dto.GroupingRunResponse {
	return dto.GroupingRunResponse{
		ID:           run.ID,
		CreatedAt:    run.CreatedAt,
		GroupCount:   run.GroupCount,
		BranchSizes:  run.BranchSizes,
		InvalidRolls: run.InvalidRolls,
		SummaryURL:   fmt.Sprintf("/api/v1/groupings/%s/summary.csv", run.ID),
	}
}
