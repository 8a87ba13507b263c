package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	apierrors "athletepulse/internal/errors"
	"athletepulse/pkg/contracts/domain"
)

// MaxAthleteNameLength bounds the {name} path parameter.
const MaxAthleteNameLength = 200

// QueryParamValidator validates path and query parameters. Failures are
// written through the error handler and reported as false.
type QueryParamValidator struct {
	validator    *validator.Validate
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewQueryParamValidator creates a new query parameter validator
func NewQueryParamValidator(logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *QueryParamValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &QueryParamValidator{
		validator:    v,
		logger:       logger.With(slog.String("component", "query_validator")),
		errorHandler: errorHandler,
	}
}

// ValidateStruct validates a struct and returns validation errors
func (v *QueryParamValidator) ValidateStruct(s interface{}) error {
	err := v.validator.Struct(s)
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apierrors.InvalidRequestWithError(err)
	}
	out := make([]apierrors.ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, apierrors.ValidationError{
			Field:   fe.Field(),
			Message: formatValidationError(fe.Field(), fe),
		})
	}
	return apierrors.NewValidationErrors(out)
}

// ValidateInt validates an integer query parameter
func (v *QueryParamValidator) ValidateInt(w http.ResponseWriter, r *http.Request, param string, min, max int, defaultValue int) (int, bool) {
	value := r.URL.Query().Get(param)
	if value == "" {
		return defaultValue, true
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		v.reject(w, r, param, fmt.Sprintf("%s must be a valid integer", param))
		return 0, false
	}
	if fe := v.check(n, fmt.Sprintf("min=%d,max=%d", min, max)); fe != nil {
		v.reject(w, r, param, fmt.Sprintf("%s must be between %d and %d", param, min, max))
		return 0, false
	}
	return n, true
}

// ValidateEnum validates an enum query parameter
func (v *QueryParamValidator) ValidateEnum(w http.ResponseWriter, r *http.Request, param string, allowed []string, defaultValue string) (string, bool) {
	value := r.URL.Query().Get(param)
	if value == "" {
		return defaultValue, true
	}
	if fe := v.check(value, "oneof="+strings.Join(allowed, " ")); fe != nil {
		v.reject(w, r, param, formatValidationError(param, fe))
		return "", false
	}
	return value, true
}

// ValidateMetrics parses a comma separated metric list. An absent parameter
// yields defaults. Duplicates are dropped.
func (v *QueryParamValidator) ValidateMetrics(w http.ResponseWriter, r *http.Request, param string, defaults []domain.Metric) ([]domain.Metric, bool) {
	value := strings.TrimSpace(r.URL.Query().Get(param))
	if value == "" {
		return append([]domain.Metric(nil), defaults...), true
	}

	var out []domain.Metric
	seen := make(map[domain.Metric]bool)
	for _, part := range strings.Split(value, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		m, err := domain.ParseMetric(part)
		if err != nil {
			v.reject(w, r, param, err.Error())
			return nil, false
		}
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	if len(out) == 0 {
		v.reject(w, r, param, fmt.Sprintf("%s must name at least one metric", param))
		return nil, false
	}
	return out, true
}

// ValidateAthleteName checks the athlete path parameter
func (v *QueryParamValidator) ValidateAthleteName(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	name = strings.TrimSpace(name)
	if fe := v.check(name, fmt.Sprintf("required,max=%d", MaxAthleteNameLength)); fe != nil {
		v.reject(w, r, "name", formatValidationError("name", fe))
		return "", false
	}
	return name, true
}

func (v *QueryParamValidator) check(value interface{}, tag string) validator.FieldError {
	err := v.validator.Var(value, tag)
	if err == nil {
		return nil
	}
	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		return errs[0]
	}
	return nil
}

func (v *QueryParamValidator) reject(w http.ResponseWriter, r *http.Request, param, msg string) {
	v.logger.DebugContext(r.Context(), "parameter rejected",
		slog.String("param", param),
		slog.String("reason", msg),
	)
	v.errorHandler.HandleError(w, r, apierrors.ErrValidation(param, msg))
}

// formatValidationError formats validation error messages
func formatValidationError(field string, err validator.FieldError) string {
	param := err.Param()
	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(param, " ", ", "))
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, param)
	default:
		return fmt.Sprintf("%s failed %s validation", field, err.Tag())
	}
}
