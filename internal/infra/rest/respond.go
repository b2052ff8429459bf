package rest

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"sisnompeg_admin/internal/app"
)

type errorBody struct {
	StatusCode int    `json:"statusCode"`
	Error      string `json:"error"`
	Message    string `json:"message"`
}

type mutationBody struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type countBody struct {
	Count int `json:"count"`
}

func statusOf(kind app.Kind) int {
	switch kind {
	case app.KindValidation:
		return http.StatusBadRequest
	case app.KindNotFound:
		return http.StatusNotFound
	case app.KindConflict:
		return http.StatusConflict
	case app.KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	kind := app.KindOf(err)
	status := statusOf(kind)
	msg := err.Error()
	if kind == app.KindUnknown {
		_ = c.Error(err)
		msg = "Terjadi kesalahan pada server"
	}
	c.AbortWithStatusJSON(status, errorBody{StatusCode: status, Error: http.StatusText(status), Message: msg})
}

// bindJSON decodes the request body into dst. Decode and validation failures
// are answered with 400 (413 for oversized bodies) and false is returned.
func bindJSON(c *gin.Context, dst any) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}

	var (
		verrs   validator.ValidationErrors
		tooBig  *http.MaxBytesError
		message = "Format JSON tidak valid"
	)
	switch {
	case errors.As(err, &tooBig):
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, errorBody{
			StatusCode: http.StatusRequestEntityTooLarge,
			Error:      http.StatusText(http.StatusRequestEntityTooLarge),
			Message:    "Ukuran body melebihi batas 10 MB",
		})
		return false
	case errors.As(err, &verrs):
		message = app.ValidationMessage(verrs)
	}
	writeError(c, app.WrapValidation(nil, message))
	return false
}

// structValidator makes gin validate `binding` tags with the service
// validator, so errors name fields by their JSON keys.
type structValidator struct{}

func (structValidator) ValidateStruct(obj any) error {
	if obj == nil {
		return nil
	}
	v := reflect.ValueOf(obj)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil
	}
	return app.Validator().Struct(v.Interface())
}

func (structValidator) Engine() any { return app.Validator() }
