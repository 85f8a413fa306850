package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	customError "github.com/segyhp/family-ledger/pkg/errors"
)

type Response struct {
	Success   bool        `json:"success"`
	MessageAr string      `json:"message_ar,omitempty"`
	MessageEn string      `json:"message_en,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

type ErrorResponse struct {
	Success   bool              `json:"success"`
	Code      string            `json:"code"`
	Error     string            `json:"error"`
	MessageAr string            `json:"message_ar"`
	MessageEn string            `json:"message_en"`
	Fields    map[string]string `json:"fields,omitempty"`
	Detail    string            `json:"detail,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// JSON sends a JSON response
func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	write(w, statusCode, Response{
		Success:   statusCode >= 200 && statusCode < 300,
		Data:      data,
		Timestamp: time.Now(),
	})
}

// Success sends a successful JSON response
func Success(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusOK, data)
}

// Message sends a successful response with a bilingual confirmation.
func Message(w http.ResponseWriter, statusCode int, messageAr, messageEn string, data interface{}) {
	write(w, statusCode, Response{
		Success:   true,
		MessageAr: messageAr,
		MessageEn: messageEn,
		Data:      data,
		Timestamp: time.Now(),
	})
}

// Created sends a created JSON response
func Created(w http.ResponseWriter, messageAr, messageEn string, data interface{}) {
	Message(w, http.StatusCreated, messageAr, messageEn, data)
}

// Error sends an error JSON response
func Error(w http.ResponseWriter, statusCode int, code, messageAr, messageEn string) {
	write(w, statusCode, ErrorResponse{
		Success:   false,
		Code:      code,
		Error:     messageEn,
		MessageAr: messageAr,
		MessageEn: messageEn,
		Timestamp: time.Now(),
	})
}

// FromError maps a service error to its HTTP status and bilingual body.
// Internal detail is only included when debug is set.
func FromError(w http.ResponseWriter, err error, debug bool) {
	var be *customError.BusinessError
	if !errors.As(err, &be) {
		be = customError.WrapStoreError(err)
	}

	body := ErrorResponse{
		Success:   false,
		Code:      be.Code,
		Error:     be.MessageEn,
		MessageAr: be.MessageAr,
		MessageEn: be.MessageEn,
		Fields:    be.Fields,
		Timestamp: time.Now(),
	}
	if debug {
		body.Detail = err.Error()
	}

	write(w, StatusOf(be.Code), body)
}

// StatusOf returns the HTTP status used for a business error code.
func StatusOf(code string) int {
	switch code {
	case customError.ErrCodeValidation:
		return http.StatusBadRequest
	case customError.ErrCodeNotFound:
		return http.StatusNotFound
	case customError.ErrCodeConflict:
		return http.StatusConflict
	case customError.ErrCodeInvalidTransition, customError.ErrCodeInsufficientBalance, customError.ErrCodeNotPaid:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// BadRequest sends a 400 bad request response
func BadRequest(w http.ResponseWriter, messageAr, messageEn string) {
	Error(w, http.StatusBadRequest, customError.ErrCodeValidation, messageAr, messageEn)
}

// NotFound sends a 404 not found response
func NotFound(w http.ResponseWriter) {
	Error(w, http.StatusNotFound, customError.ErrCodeNotFound, "المورد المطلوب غير موجود", "Resource not found")
}

// File writes a rendered document as a download.
func File(w http.ResponseWriter, contentType, filename string, content []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `inline; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(content); err != nil {
		zap.L().Warn("write file response failed", zap.String("filename", filename), zap.Error(err))
	}
}

func write(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		zap.L().Error("encode response failed", zap.Error(err))
	}
}

// CORSMiddleware adds CORS headers
func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Accept-Language")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// LoggingMiddleware logs every request with its status and latency.
func LoggingMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Create a response recorder to capture the status code
			recorder := &responseRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(recorder, r)

			logger.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", recorder.statusCode),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}

type responseRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (rec *responseRecorder) WriteHeader(statusCode int) {
	rec.statusCode = statusCode
	rec.ResponseWriter.WriteHeader(statusCode)
}
