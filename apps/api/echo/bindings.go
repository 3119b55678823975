package echoapi

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/vikasdeshmukh63/school-application-dashboard/core"
)

var pageParam = "page"

type (
	LoginRequest struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
	}

	// ListResponse is the envelope of every list endpoint.
	ListResponse struct {
		Items interface{} `json:"items"`
		Count int         `json:"count"`
		Page  int         `json:"page"`
	}

	// MutationResponse is the uniform body of every mutation endpoint,
	// success or failure. Details never leak past the status code.
	MutationResponse struct {
		Success bool `json:"success"`
		Error   bool `json:"error"`
	}
)

func (lr *LoginRequest) Validate() error {
	lr.Username = core.CleanString(lr.Username, true /* lower */)
	return core.Validate.Struct(lr)
}

func intParam(ctx echo.Context, name string) (int, error) {
	n, err := strconv.Atoi(ctx.Param(name))
	if err != nil {
		return 0, errHttpNotFound
	}
	return n, nil
}

// pageNumber binds the page query param; garbage falls back to page 1.
func pageNumber(ctx echo.Context) int {
	val := ctx.QueryParam(pageParam)
	if val == "" {
		return 1
	}
	n, err := strconv.Atoi(val)
	if err != nil || n < 1 {
		return 1
	}
	return n
}
