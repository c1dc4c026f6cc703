package middleware

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yigit/kaddem/internal/app/models/dto"
)

var errPanic = errors.New("panic while handling request")

// BindJSON decodes the request body into obj, answering 400 on malformed
// input. Field rules are checked later by the mutation coordinator so their
// messages stay the same for every consumer.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format")
		errorDetail = errorDetail.WithDetails(err.Error())
		c.JSON(http.StatusBadRequest, dto.NewAPIError(errorDetail))
		return false
	}
	return true
}

// ParamID parses a positive numeric path parameter, answering 400 otherwise
func ParamID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeResourceInvalid, "Invalid "+name).WithField(name)
		c.JSON(http.StatusBadRequest, dto.NewAPIError(errorDetail))
		return 0, false
	}
	return id, true
}
