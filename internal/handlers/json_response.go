package handlers

import (
	"encoding/json"
	"mime"
	"net/http"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeFieldError writes the single-field error body clients key on,
// e.g. {"email":"Email not found"}.
func writeFieldError(w http.ResponseWriter, status int, field, message string) {
	writeJSON(w, status, map[string]string{field: message})
}

// decodeBody reads a JSON or urlencoded form body into a fresh T. A body that
// cannot be decoded yields the zero T, so validation reports every field.
func decodeBody[T any](r *http.Request) T {
	var out T
	if r.Body == nil {
		return out
	}

	if isForm(r) {
		if err := r.ParseForm(); err != nil {
			return out
		}
		fields := make(map[string]string, len(r.PostForm))
		for k := range r.PostForm {
			fields[k] = r.PostForm.Get(k)
		}
		raw, err := json.Marshal(fields)
		if err != nil {
			return out
		}
		if err := json.Unmarshal(raw, &out); err != nil {
			var zero T
			return zero
		}
		return out
	}

	if err := json.NewDecoder(r.Body).Decode(&out); err != nil {
		var zero T
		return zero
	}
	return out
}

func isForm(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/x-www-form-urlencoded"
}
