package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/limaJavier/classscheduler/internal/api/response"
	"github.com/limaJavier/classscheduler/internal/store"
	"github.com/limaJavier/classscheduler/pkg/model"
)

// handleError maps domain errors onto http statuses
func handleError(c *gin.Context, err error) {
	_ = c.Error(err)

	var malformedErr *model.MalformedInputError
	var unknownErr *model.UnknownSelectionError
	switch {
	case errors.As(err, &malformedErr):
		response.MalformedInput(c, malformedErr.Path, malformedErr.Reason, malformedErr.Error())
	case errors.As(err, &unknownErr):
		response.UnprocessableEntity(c, response.CodeUnknownSelection, unknownErr.Error())
	case errors.Is(err, store.ErrDatasetNotFound):
		response.NotFound(c, err.Error())
	default:
		response.InternalError(c, err.Error())
	}
}
