// Package response writes the JSON envelopes shared by handlers and middleware.
package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dom/blog-platform/internal/domain"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

const msgInternal = "Internal server error"

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindAuthentication:
		return http.StatusUnauthorized
	case domain.KindAuthorization:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// Success wraps data in the success envelope.
func Success(w http.ResponseWriter, status int, data any) {
	JSON(w, status, map[string]any{
		"status": "success",
		"data":   data,
	})
}

// Responder turns errors into JSON error bodies. In development server
// errors carry their underlying cause.
type Responder struct {
	dev bool
	log logrus.FieldLogger
}

func NewResponder(dev bool, log logrus.FieldLogger) *Responder {
	return &Responder{dev: dev, log: log}
}

func (rs *Responder) Error(w http.ResponseWriter, r *http.Request, err error) {
	var de *domain.Error
	kind := domain.KindOf(err)
	status := StatusFor(kind)

	body := map[string]any{
		"status": "fail",
		"code":   kind,
	}

	entry := rs.log.WithFields(logrus.Fields{
		"method":    r.Method,
		"url":       r.URL.RequestURI(),
		"requestId": middleware.GetReqID(r.Context()),
		"status":    status,
	})

	if status == http.StatusInternalServerError {
		body["status"] = "error"
		body["message"] = msgInternal
		if rs.dev {
			body["error"] = err.Error()
		}
		entry.WithError(err).Error("Request failed")
		JSON(w, status, body)
		return
	}

	if errors.As(err, &de) {
		body["message"] = de.Message
		if len(de.Fields) > 0 {
			body["errors"] = de.Fields
		}
	}
	entry.Warn(err.Error())
	JSON(w, status, body)
}

// Fail writes a client error without going through a domain error value.
func (rs *Responder) Fail(w http.ResponseWriter, r *http.Request, kind domain.ErrorKind, message string) {
	rs.Error(w, r, &domain.Error{Kind: kind, Message: message})
}
