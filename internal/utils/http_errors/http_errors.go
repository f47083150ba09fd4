package utils

import (
	"encoding/json"
	"net/http"
)

type errorBody struct {
	Code int    `json:"code"`
	Text string `json:"text"`
}

func WriteJSONError(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]errorBody{
		"error": {Code: status, Text: text},
	})
}

// WriteJSON wraps data in the {"data": ...} envelope.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(map[string]any{
		"data": data,
	})
}
