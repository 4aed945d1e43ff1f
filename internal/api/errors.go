package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"

	"energy-trading-platform/internal/trade"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type apiError struct {
	Error   string `json:"error"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// writeError maps a core error to its response: validation failures are the
// caller's fault, storage failures are ours and their cause is only logged.
func (h *Handler) writeError(c *gin.Context, where string, err error) {
	var ve *trade.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, apiError{Error: "validation_error", Field: ve.Field, Message: ve.Error()})
		return
	}

	h.logger.Error("internal_error",
		zap.String("where", where),
		zap.String("request_id", c.GetString(requestIDHeader)),
		zap.Error(err),
	)
	_ = c.Error(err)

	code := "internal_server_error"
	if trade.IsStorage(err) {
		code = "storage_error"
	}
	c.JSON(http.StatusInternalServerError, apiError{Error: code, Message: "the trade store could not complete the request"})
}

func notFound(c *gin.Context, msg string) {
	c.JSON(http.StatusNotFound, apiError{Error: "not_found", Message: msg})
}

// bindError turns a JSON decoding failure into a ValidationError. A value of
// the wrong type is reported against its field.
func bindError(err error) *trade.ValidationError {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		kind := "string"
		if typeErr.Type != nil && typeErr.Type.Kind() == reflect.Float64 {
			kind = "number"
		}
		return &trade.ValidationError{Field: typeErr.Field, Reason: "must be a " + kind}
	}
	return &trade.ValidationError{Field: "body", Reason: "must be a JSON trade object"}
}
