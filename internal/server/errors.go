package server

import (
	"net/http"

	"github.com/jonathan/job-tracker/internal/errs"
)

// HTTPStatus maps the lifecycle error taxonomy onto response codes.
func HTTPStatus(err error) int {
	switch errs.KindOf(err) {
	case errs.KindValidation:
		return http.StatusBadRequest
	case errs.KindNotFound:
		return http.StatusNotFound
	case errs.KindStorage:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
