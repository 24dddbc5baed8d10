package utils

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// Response content types
const (
	ContentTypeJSON    = "application/json"
	ContentTypeMsgpack = "application/msgpack"
)

// WantsMsgpack reports whether the client asked for a msgpack body,
// either with ?format=msgpack or an Accept header
func WantsMsgpack(r *http.Request) bool {
	if strings.EqualFold(r.URL.Query().Get("format"), "msgpack") {
		return true
	}
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, ContentTypeMsgpack) || strings.Contains(accept, "application/x-msgpack")
}

// WriteResponse encodes data as msgpack or JSON depending on the request
func WriteResponse(w http.ResponseWriter, r *http.Request, status int, data interface{}) error {
	if WantsMsgpack(r) {
		body, err := msgpack.Marshal(data)
		if err != nil {
			http.Error(w, "failed to encode response", http.StatusInternalServerError)
			return err
		}
		w.Header().Set("Content-Type", ContentTypeMsgpack)
		w.WriteHeader(status)
		_, err = w.Write(body)
		return err
	}

	w.Header().Set("Content-Type", ContentTypeJSON)
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}
