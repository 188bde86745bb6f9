// Package service contains the business rules of the Bookhaven server,
// sitting between the HTTP facade and the persistence layer.
package service

import (
	"net/http"

	domainerrors "github.com/bookhavenapp/bookhaven-server/internal/errors"
	"github.com/bookhavenapp/bookhaven-server/internal/store"
)

// translate converts a store error into a coded domain error.
// Anything that is not a *store.Error is an infrastructure fault and is
// returned unchanged so the facade reports it as a server error, never
// as a not-found.
func translate(err error) error {
	if err == nil {
		return nil
	}

	var se *store.Error
	if !domainerrors.As(err, &se) {
		return err
	}

	switch se.Code {
	case http.StatusNotFound:
		return domainerrors.NotFound(se.Message)
	case http.StatusConflict:
		return domainerrors.AlreadyExists(se.Message)
	case http.StatusBadRequest:
		return domainerrors.Validation(se.Message)
	default:
		return err
	}
}
