package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"

	errs "github.com/matzehuels/waymark/pkg/errors"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Error   bool      `json:"error"`
	Code    errs.Code `json:"code"`
	Message string    `json:"message"`
}

func (s *Server) respondJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.FromContext(r.Context()).Error("encode response", "err", err)
	}
}

// respondError maps err to a status code. Internal errors are logged and
// reported without their cause.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := errs.GetCode(err)
	msg := errs.UserMessage(err)
	if status == http.StatusInternalServerError {
		log.FromContext(r.Context()).Error("request failed", "path", r.URL.Path, "err", err)
		if code == "" {
			code = errs.ErrCodeInternal
		}
		msg = "internal server error"
	}
	s.respondJSON(w, r, status, errorResponse{Error: true, Code: code, Message: msg})
}

func statusFor(err error) int {
	switch code := errs.GetCode(err); {
	case code == errs.ErrCodeUnauthorized, code == errs.ErrCodeSessionExpired, code == errs.ErrCodeSessionNotFound:
		return http.StatusUnauthorized
	case errs.IsValidation(err):
		return http.StatusBadRequest
	case errs.IsNotFound(err):
		return http.StatusNotFound
	case code == errs.ErrCodeConflict:
		return http.StatusConflict
	case code == errs.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

// =============================================================================
// Request Bodies
// =============================================================================

// decode reads a JSON body into v and validates its struct tags.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errs.New(errs.ErrCodeInvalidInput, "request body is empty")
		}
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid request body")
	}
	if err := s.validate.Struct(v); err != nil {
		return validationError(err)
	}
	return nil
}

// validationError converts validator failures into a coded error. The
// code follows the first failing field so clients see the same codes the
// service itself returns.
func validationError(err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid request")
	}
	msgs := make([]string, len(ve))
	for i, fe := range ve {
		msgs[i] = fieldMessage(fe)
	}
	return errs.New(fieldCode(ve[0]), "%s", strings.Join(msgs, "; "))
}

func fieldCode(fe validator.FieldError) errs.Code {
	ns := fe.StructNamespace()
	switch {
	case strings.Contains(ns, ".Steps"):
		return errs.ErrCodeInvalidStep
	case strings.Contains(ns, ".Tags"):
		return errs.ErrCodeInvalidTag
	}
	switch fe.StructField() {
	case "Title":
		return errs.ErrCodeInvalidTitle
	case "Email":
		return errs.ErrCodeInvalidEmail
	case "Password":
		return errs.ErrCodeInvalidPassword
	case "Text":
		return errs.ErrCodeInvalidComment
	}
	return errs.ErrCodeInvalidInput
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must have at least %s items", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s long", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
