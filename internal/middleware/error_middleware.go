package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tanmayk/meritalloc/internal/app/models/dto"
	"github.com/tanmayk/meritalloc/internal/pkg/apperrors"
)

// HandleAPIError maps application errors to HTTP responses. Schema and row
// errors carry their full context (missing columns, offending cells) into
// the response body so the caller can locate and fix the source data.
func HandleAPIError(c *gin.Context, err error) {
	var schemaErr *apperrors.SchemaError
	var rowErrs apperrors.RowErrors

	switch {
	case errors.As(err, &schemaErr):
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeInvalidSchema, "Dataset schema is invalid")
		errorDetail = errorDetail.WithDetails(gin.H{
			"missingColumns": schemaErr.Missing,
			"columnsFound":   schemaErr.Columns,
		})
		c.JSON(http.StatusUnprocessableEntity, dto.NewErrorResponse(errorDetail))

	case errors.As(err, &rowErrs):
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeRowParsing, "Dataset contains unparseable cells")
		errorDetail = errorDetail.WithDetails(gin.H{"cells": rowErrs})
		c.JSON(http.StatusUnprocessableEntity, dto.NewErrorResponse(errorDetail))

	case errors.Is(err, apperrors.ErrEmptyDataset):
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeEmptyDataset, "Dataset has no header row")
		c.JSON(http.StatusUnprocessableEntity, dto.NewErrorResponse(errorDetail))

	case errors.Is(err, apperrors.ErrRunNotFound):
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeRunNotFound, "Run not found")
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(errorDetail))

	case errors.Is(err, apperrors.ErrBadRequest), errors.Is(err, apperrors.ErrValidationFailed):
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, err.Error())
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))

	default:
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(errorDetail))
	}
}
