package http

import (
	"errors"

	apierrors "athletepulse/internal/errors"
	"athletepulse/internal/services"
)

// mapServiceError converts dashboard service errors to API errors. Unknown
// errors pass through unchanged.
func mapServiceError(err error) error {
	var notFound *services.AthleteNotFoundError
	switch {
	case errors.As(err, &notFound):
		return apierrors.AthleteNotFound(notFound.Athlete, notFound.Suggestions)
	case errors.Is(err, services.ErrDatasetUnavailable):
		return apierrors.ErrDatasetUnavailable
	default:
		return err
	}
}
