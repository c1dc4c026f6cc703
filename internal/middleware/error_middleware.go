package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/kaddem/internal/app/models/dto"
	"github.com/yigit/kaddem/internal/pkg/apperrors"
	"github.com/yigit/kaddem/internal/pkg/logger"
)

// --- Central Error Handling Middleware/Function ---

// HandleAPIError maps the dashboard error taxonomy onto HTTP responses
func HandleAPIError(c *gin.Context, err error) {
	var (
		validationErr *apperrors.ValidationError
		notFoundErr   *apperrors.NotFoundError
		networkErr    *apperrors.NetworkError
	)

	switch {
	case errors.As(err, &validationErr):
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Validation failed").
			WithDetails(dto.NewFieldErrors(validationErr.Fields))
		if len(validationErr.Fields) == 1 {
			detail = detail.WithField(validationErr.Fields[0].Field)
		}
		c.JSON(http.StatusBadRequest, dto.NewAPIError(detail))
		return
	case errors.Is(err, apperrors.ErrValidationFailed):
		c.JSON(http.StatusBadRequest, dto.NewAPIError(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Validation failed"),
		))
		return
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, dto.NewAPIError(
			dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Resource not found").
				WithDetails(gin.H{"resource": notFoundErr.Resource, "id": notFoundErr.ID}),
		))
		return
	case errors.Is(err, apperrors.ErrResourceNotFound):
		c.JSON(http.StatusNotFound, dto.NewAPIError(
			dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Resource not found"),
		))
		return
	case errors.Is(err, apperrors.ErrBusy):
		c.JSON(http.StatusConflict, dto.NewAPIError(
			dto.NewErrorDetail(dto.ErrorCodeConflict, "The same action is already in progress").
				WithSeverity(dto.ErrorSeverityWarning),
		))
		return
	case errors.As(err, &networkErr):
		detail := dto.NewErrorDetail(dto.ErrorCodeExternalServiceError, "Backend request failed").
			WithDetails(gin.H{"action": networkErr.Action, "status": networkErr.StatusCode})
		c.JSON(http.StatusBadGateway, dto.NewAPIError(detail))
		return
	case errors.Is(err, apperrors.ErrNetworkFailed):
		c.JSON(http.StatusBadGateway, dto.NewAPIError(
			dto.NewErrorDetail(dto.ErrorCodeExternalServiceError, "Backend request failed"),
		))
		return
	default:
		logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Unhandled API error")
		detail := dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error").
			WithSeverity(dto.ErrorSeverityCritical)
		if gin.Mode() != gin.ReleaseMode {
			detail = detail.WithDebugInfo("%v", err)
		}
		c.JSON(http.StatusInternalServerError, dto.NewAPIError(detail))
		return
	}
}
