package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/dom/blog-platform/internal/domain"
	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/google/uuid"
)

const (
	maxPageLimit   = 50
	maxRequestBody = 1 << 20
)

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return domain.NewValidationError("Invalid request body", nil)
	}
	return nil
}

// validated runs v.Validate and converts ozzo field errors into a
// validation error keyed by JSON field name.
func validated(v validation.Validatable) error {
	err := v.Validate()
	if err == nil {
		return nil
	}

	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		fields := make(map[string]string, len(fieldErrs))
		for field, ferr := range fieldErrs {
			fields[field] = ferr.Error()
		}
		return domain.NewValidationError("Validation failed", fields)
	}
	return domain.NewValidationError(err.Error(), nil)
}

func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, domain.NewValidationError("Invalid "+name, map[string]string{name: "must be a valid id"})
	}
	return id, nil
}

type pagination struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

func (p pagination) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Limit, validation.Required, validation.Min(1), validation.Max(maxPageLimit)),
		validation.Field(&p.Offset, validation.Min(0)),
	)
}

// parsePagination reads limit and offset from the query string, falling back
// to the configured defaults.
func parsePagination(r *http.Request, defLimit, defOffset int) (pagination, error) {
	p := pagination{Limit: defLimit, Offset: defOffset}
	q := r.URL.Query()

	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return p, domain.NewValidationError("Limit must be a number", map[string]string{"limit": "must be a number"})
		}
		p.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return p, domain.NewValidationError("Offset must be a number", map[string]string{"offset": "must be a number"})
		}
		p.Offset = n
	}

	return p, validated(p)
}
