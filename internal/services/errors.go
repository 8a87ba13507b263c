package services

import (
	"errors"
	"fmt"
)

// Dashboard service errors
var (
	// ErrDatasetUnavailable is returned before the first successful load.
	ErrDatasetUnavailable = errors.New("athlete dataset not loaded")
	// ErrAthleteNotFound matches every *AthleteNotFoundError.
	ErrAthleteNotFound = errors.New("athlete not found")
)

// AthleteNotFoundError reports an unknown athlete with the closest known names.
type AthleteNotFoundError struct {
	Athlete     string
	Suggestions []string
}

func (e *AthleteNotFoundError) Error() string {
	return fmt.Sprintf("athlete %q not found", e.Athlete)
}

// Is makes errors.Is(err, ErrAthleteNotFound) hold.
func (e *AthleteNotFoundError) Is(target error) bool {
	return target == ErrAthleteNotFound
}
