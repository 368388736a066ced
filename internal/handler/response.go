package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/medibook/clinic-api/pkg/errors"
)

type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// RespondSuccess writes a success envelope with the given status code.
func RespondSuccess(c *gin.Context, code int, data interface{}) {
	c.JSON(code, NewSuccessResponse(data))
}

// RespondError maps any error onto the API taxonomy. Internal causes
// are logged with the request id and never serialized to the caller.
func RespondError(c *gin.Context, err error) {
	appErr := errors.From(err)
	if appErr.Kind == errors.KindInternal {
		log.Error().
			Err(err).
			Str("request_id", c.GetString("request_id")).
			Str("path", c.Request.URL.Path).
			Msg("request failed")
	}
	c.JSON(appErr.StatusCode(), NewErrorResponse(appErr.Message))
}
