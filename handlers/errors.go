package handlers

import (
	"errors"
	"io"
	"net/http"

	"medibook/middleware"
	"medibook/services/booking"
	"medibook/services/identity"
	"medibook/services/payment"
	"medibook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// writeError translates service errors into status codes and the
// {"msg","error"} body. Unrecognised errors are logged and reported as 500.
func writeError(c *gin.Context, err error) {
	logger := getLogger(c)

	var (
		inputErr   *booking.InputError
		gatewayErr *payment.GatewayError
	)
	switch {
	case errors.As(err, &inputErr):
		c.AbortWithStatusJSON(http.StatusBadRequest, utils.ErrorResponse{Msg: inputErr.Msg})
	case errors.Is(err, identity.ErrUnauthenticated):
		c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{Msg: "Unauthenticated"})
	case errors.Is(err, booking.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, utils.ErrorResponse{Msg: "Appointment not found"})
	case errors.Is(err, booking.ErrForbidden):
		c.AbortWithStatusJSON(http.StatusForbidden, utils.ErrorResponse{Msg: "Forbidden"})
	case errors.As(err, &gatewayErr):
		utils.JSONError(c, logger, http.StatusBadGateway, "Payment gateway error", gatewayErr.Error())
	default:
		logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, utils.ErrorResponse{Msg: "Internal Server Error"})
	}
}

// callerID reads the uid middleware.FirebaseAuth put on the request context.
func callerID(c *gin.Context) string {
	return middleware.UserIDFromContext(c.Request.Context())
}

// bindJSON decodes the body into obj, treating an empty body as {} so the
// service reports which fields are missing. It writes the 400 itself and
// returns false on malformed JSON.
func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		utils.JSONError(c, getLogger(c), http.StatusBadRequest, "Invalid request body", err.Error())
		return false
	}
	return true
}
