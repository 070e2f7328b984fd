package handler

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"event-manager-backend/model"
)

const noMatches = "There are no events matching your search."

// values copies form values, folding "name[]" keys onto "name".
func values(form url.Values) model.Values {
	out := model.Values{}
	for k, vs := range form {
		key := strings.TrimSuffix(k, "[]")
		out[key] = append(out[key], vs...)
	}
	return out
}

// list reads a multi-valued parameter, splitting comma separated entries.
func list(v model.Values, key string) []string {
	var out []string
	for _, raw := range v[key] {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// flag reads the literal "true"/"false" switches of the ajax endpoints.
func flag(v string) model.Tristate {
	switch v {
	case "true":
		return model.Yes
	case "false":
		return model.No
	}
	return model.Unset
}

func absint(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	if n < 0 {
		return -n
	}
	return n
}

func parseForm(r *http.Request, maxMemory int64) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return r.ParseMultipartForm(maxMemory)
	}
	return r.ParseForm()
}
