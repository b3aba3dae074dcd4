package utils

import (
	"encoding/json"
	"net/http"
)

// Response is the envelope every endpoint answers with. HTTP status
// carries the error class redundantly with the Success flag.
type Response struct {
	Success             bool   `json:"success"`
	Message             string `json:"message"`
	Data                any    `json:"data,omitempty"`
	Token               string `json:"token,omitempty"`
	TotalPage           *int64 `json:"totalPage,omitempty"`
	CurrentAvailability *int   `json:"currentAvailability,omitempty"`
}

func JSONError(w http.ResponseWriter, message string, status int) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Response{Success: false, Message: message})
}

func JSONSuccess(w http.ResponseWriter, status int, resp Response) {
	resp.Success = true
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}
