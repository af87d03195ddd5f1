package handlers

import (
	"errors"
	"net/http"

	"github.com/kova98/redditsentiment.api/models"
)

type Handler func(http.ResponseWriter, *http.Request) Result

type Result struct {
	Error   error
	Code    int
	Body    interface{}
	Written bool // the handler already wrote the response
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func BadRequest(message string) Result {
	return Result{
		Code: http.StatusBadRequest,
		Body: ErrorResponse{message},
	}
}

func InternalError(error error, message string) Result {
	return Result{
		Error: errors.Join(errors.New(message), error),
		Code:  http.StatusInternalServerError,
	}
}

func Ok(body interface{}) Result {
	return Result{
		Code: http.StatusOK,
		Body: body,
	}
}

func Unauthorized(message string) Result {
	return Result{
		Code: http.StatusUnauthorized,
		Body: ErrorResponse{message},
	}
}

// Written is returned by handlers that wrote a non-JSON response themselves.
func Written(code int) Result {
	return Result{
		Code:    code,
		Written: true,
	}
}

func Success() Result {
	return Ok(models.SuccessResponse{Success: true})
}

// Failure is a validation failure reported in the body with a 200 status.
func Failure(message string) Result {
	return Ok(models.SuccessResponse{Success: false, Error: message})
}
