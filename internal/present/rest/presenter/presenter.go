package presenter

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/KevinOrellana26/acme-dashboard/internal/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

// OK wraps a successful response.
func OK(c echo.Context, payload any) error {
	return c.JSON(http.StatusOK, payload)
}

// SeeOther terminates the handler with a redirect, the success path of
// every mutation.
func SeeOther(c echo.Context, location string) error {
	return c.Redirect(http.StatusSeeOther, location)
}

// MutationFailed returns the structured mutation state to the caller
// for re-rendering the form.
func MutationFailed(c echo.Context, state *domain.State) error {
	return c.JSON(http.StatusUnprocessableEntity, state)
}

func NotFound(c echo.Context, msg string) error {
	fmt.Println("Not found:", msg)
	return c.JSON(http.StatusNotFound, errorResponse{Error: msg})
}

func InternalError(c echo.Context, err error) error {
	fmt.Println("Internal error:", err)
	return c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
}
