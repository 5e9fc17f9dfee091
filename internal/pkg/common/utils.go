package common

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
)

// GenerateUUID 生成 UUID
func GenerateUUID() string {
	return uuid.New().String()
}

// WriteErrorResponse 寫入錯誤響應
func WriteErrorResponse(w http.ResponseWriter, err error) {
	body := ErrorResponse{Code: ErrCodeInternalError, Message: ErrInternalError.Message}

	var ce *CustomError
	var ve *ValidationError
	switch {
	case errors.As(err, &ce):
		body.Code = ce.Code
		body.Message = ce.Message
		if ce.Err != nil {
			body.Details = ce.Err.Error()
		}
	case errors.As(err, &ve):
		body.Code = ErrCodeInvalidRequest
		body.Message = ve.Error()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(StatusOf(err))
	_ = json.NewEncoder(w).Encode(map[string]ErrorResponse{
		"error": body,
	})
}
