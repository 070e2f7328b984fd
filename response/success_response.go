package response

import (
	"encoding/json"
	"net/http"
)

type SuccessResponse struct {
	Data       *Data `json:"data"`
	StatusCode int   `json:"-"`
}

type Data struct {
	Status         string   `json:"status,omitempty"`
	Version        string   `json:"version,omitempty"`
	Shortcodes     []string `json:"shortcodes,omitempty"`
	ClearedCookies int      `json:"cleared_cookies,omitempty"`
}

func (r SuccessResponse) Send(w http.ResponseWriter) {
	w.WriteHeader(r.StatusCode)
	json.NewEncoder(w).Encode(r)
}
