package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		expected string
	}{
		{
			name:     "without cause",
			err:      NewAppValidationError("metric is required"),
			expected: "[VALIDATION] metric is required",
		},
		{
			name:     "with cause",
			err:      NewIngestError("global", fmt.Errorf("open Global_data.xlsx: no such file")),
			expected: "[INGEST] failed to load global: open Global_data.xlsx: no such file",
		},
		{
			name:     "not found",
			err:      NewNotFoundError("athlete"),
			expected: "[NOT_FOUND] athlete not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := fmt.Errorf("writing report: %w", NewExportError("xlsx", cause))

	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, ErrTypeExport, appErr.Type)
	assert.Equal(t, "xlsx", appErr.Context["format"])
	assert.True(t, errors.Is(err, cause))
}

func TestAppError_WithContext(t *testing.T) {
	err := &AppError{Type: ErrTypeConfig, Message: "bad port"}
	err.WithContext("port", 0).WithContext("field", "server.port")

	assert.Equal(t, 0, err.Context["port"])
	assert.Equal(t, "server.port", err.Context["field"])
}

func TestAthleteNotFound(t *testing.T) {
	err := AthleteNotFound("Alx Smith", nil)

	assert.Equal(t, http.StatusNotFound, err.StatusCode)
	assert.Equal(t, "ATHLETE_NOT_FOUND", err.ErrorCode)
	details, ok := err.Details.(AthleteSuggestions)
	require.True(t, ok)
	assert.Equal(t, "Alx Smith", details.Athlete)
	assert.NotNil(t, details.Suggestions)
	assert.Empty(t, details.Suggestions)
}

func TestErrValidation(t *testing.T) {
	err := ErrValidation("metrics", "unknown metric \"speed\"")

	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, ValidationError{Field: "metrics", Message: "unknown metric \"speed\""}, err.Details)
}
