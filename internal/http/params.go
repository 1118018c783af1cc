package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

const maxFormMemory = 32 << 20

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// optionalInt64 parses a query or form value; an empty value yields nil.
func optionalInt64(raw string) (*int64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, true
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, false
	}
	return &value, true
}

func optionalString(r *http.Request, key string) *string {
	if _, ok := r.Form[key]; !ok {
		return nil
	}
	value := r.FormValue(key)
	return &value
}

// parseParams fills r.Form from the query string and a urlencoded or
// multipart body.
func parseParams(r *http.Request) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return r.ParseMultipartForm(maxFormMemory)
	}
	return r.ParseForm()
}

func isJSON(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

func decodeJSON(r *http.Request, dst interface{}) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

// actingUserID resolves the userId parameter, falling back to the bearer
// token's subject when the parameter is absent.
func actingUserID(r *http.Request, raw string) (int64, bool, error) {
	value, ok := optionalInt64(raw)
	if !ok {
		return 0, false, strconv.ErrSyntax
	}
	if value != nil {
		return *value, true, nil
	}
	if id, ok := CurrentUserID(r); ok {
		return id, true, nil
	}
	return 0, false, nil
}
