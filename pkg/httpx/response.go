package httpx

import (
	"encoding/json"
	"net/http"
)

// JSONResponse writes data as a JSON-encoded response with the given status code.
func JSONResponse(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

// JSONError writes {"message": msg} with the given status code.
func JSONError(w http.ResponseWriter, code int, msg string) {
	JSONResponse(w, code, map[string]string{"message": msg})
}
