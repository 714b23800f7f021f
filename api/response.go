package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	dErrors "api_sales/pkg/domain-errors"
)

type successResponse struct {
	Data    any    `json:"data"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type errorResponse struct {
	Type   string `json:"type"`
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

func writeSuccess(ctx *gin.Context, status int, message string, data any) {
	ctx.JSON(status, successResponse{Data: data, Status: "success", Message: message})
}

// writeError maps a coded error to its HTTP status and body. Internal
// failures never leak their cause to the client.
func writeError(ctx *gin.Context, logger *zap.Logger, err error) {
	code := dErrors.CodeOf(err)
	var (
		status int
		body   errorResponse
	)
	switch code {
	case dErrors.CodeValidation:
		status, body = http.StatusBadRequest, errorResponse{Type: "ValidationFailure", Error: "Validation failed"}
	case dErrors.CodeInvalidArgument:
		status, body = http.StatusBadRequest, errorResponse{Type: "InvalidArgument", Error: "Invalid argument"}
	case dErrors.CodeDomainRule:
		status, body = http.StatusBadRequest, errorResponse{Type: "DomainRuleViolation", Error: "Business rule violated"}
	case dErrors.CodeNotFound:
		status, body = http.StatusNotFound, errorResponse{Type: "NotFound", Error: "Resource not found"}
	case dErrors.CodeTimeout:
		status, body = http.StatusGatewayTimeout, errorResponse{Type: "Timeout", Error: "Request timed out"}
	default:
		logger.Error("request failed", zap.String("path", ctx.FullPath()), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, errorResponse{
			Type:   "InternalServerError",
			Error:  "Internal server error",
			Detail: "an unexpected error occurred",
		})
		return
	}
	body.Detail = err.Error()
	ctx.JSON(status, body)
}

func badRequest(ctx *gin.Context, detail string) {
	ctx.JSON(http.StatusBadRequest, errorResponse{Type: "ValidationFailure", Error: "Validation failed", Detail: detail})
}
