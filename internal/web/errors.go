package web

// errors.go renders errors for the web layer. The technical error is logged
// with the request ID; the client only sees the mapped user message, as JSON
// for API routes and as an HTML page otherwise.

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/csvlayout/internal/csvio"
	"github.com/JonMunkholm/csvlayout/internal/logging"
	"github.com/JonMunkholm/csvlayout/internal/service"
	"github.com/JonMunkholm/csvlayout/internal/web/templates"
)

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// statusByCode maps user message codes to HTTP status codes.
var statusByCode = map[string]int{
	"FILE001": http.StatusRequestEntityTooLarge,
	"FILE002": http.StatusUnprocessableEntity,
	"FILE003": http.StatusUnprocessableEntity,
	"FILE004": http.StatusBadRequest,
	"FILE005": http.StatusUnprocessableEntity,
	"FILE006": http.StatusBadRequest,
	"PRF001":  http.StatusNotFound,
	"PRF002":  http.StatusConflict,
	"PRF003":  http.StatusBadRequest,
	"PRF004":  http.StatusBadRequest,
	"SYS001":  http.StatusGatewayTimeout,
	"SYS002":  http.StatusBadRequest,
}

// respondError logs err and writes the mapped user message.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		err = errors.Join(csvio.ErrFileTooLarge, err)
	}

	msg := service.MapError(err)
	status, ok := statusByCode[msg.Code]
	if !ok {
		status = http.StatusInternalServerError
	}

	logger := logging.FromContext(r.Context())
	logArgs := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", msg.Code,
	}
	if status >= 500 {
		logger.Error("request error", logArgs...)
	} else {
		logger.Warn("request error", logArgs...)
	}

	if wantsJSON(r) {
		respondErrorJSON(w, msg, status)
		return
	}
	respondErrorHTML(w, r, msg, status)
}

// badRequest reports a malformed request that never reached the service.
func (s *Server) badRequest(w http.ResponseWriter, r *http.Request, message string) {
	msg := service.UserMessage{Message: message, Code: "REQ001"}
	logging.FromContext(r.Context()).Warn("bad request", "path", r.URL.Path, "error", message)
	if wantsJSON(r) {
		respondErrorJSON(w, msg, http.StatusBadRequest)
		return
	}
	respondErrorHTML(w, r, msg, http.StatusBadRequest)
}

func respondErrorJSON(w http.ResponseWriter, msg service.UserMessage, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}

func respondErrorHTML(w http.ResponseWriter, r *http.Request, msg service.UserMessage, status int) {
	page := templates.Page("エラー", templates.ErrorAlert(msg.Message, msg.Action, msg.Code))
	templ.Handler(page, templ.WithStatus(status)).ServeHTTP(w, r)
}

// wantsJSON checks if the client prefers a JSON response.
func wantsJSON(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		return true
	}
	// Form submits to /api/convert come from the HTML page
	if r.URL.Path == "/api/convert" && strings.Contains(r.Header.Get("Accept"), "text/html") {
		return false
	}
	return strings.HasPrefix(r.URL.Path, "/api/")
}

// writeJSON encodes v as JSON with the given status.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		logging.FromContext(r.Context()).Error("json encode error", "error", err)
	}
}
