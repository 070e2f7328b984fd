package response

import (
	"encoding/json"
	"net/http"

	"event-manager-backend/model"
)

// Listings is the answer of get_listings.
type Listings struct {
	HTML                  string `json:"html"`
	FoundEvents           bool   `json:"found_events"`
	FilterValue           string `json:"filter_value"`
	ShowingLinks          string `json:"showing_links"`
	Pagination            string `json:"pagination,omitempty"`
	MaxNumPages           int    `json:"max_num_pages"`
	ShowingAppliedFilters bool   `json:"showing_applied_filters"`
}

// Upcoming is the data of the upcoming listing endpoints.
type Upcoming struct {
	HTML         string `json:"events_html"`
	NoMoreEvents bool   `json:"no_more_events"`
}

// Ajax is the {success, data} envelope of the upcoming and upload endpoints.
type Ajax struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

type ajaxError struct {
	Error string `json:"error"`
}

func AjaxSuccess(data interface{}) Ajax {
	return Ajax{Success: true, Data: data}
}

// AjaxError is {success:false, data:{error}}.
func AjaxError(message string) Ajax {
	return Ajax{Success: false, Data: ajaxError{Error: message}}
}

type Files struct {
	Files []*model.UploadedFile `json:"files"`
}

// QuickCreate builds {code, <kind>: {<kind>_id, <kind>_name}, message}. The entity is left out unless code is 200.
func QuickCreate(kind model.Kind, code int, id int64, name, message string) map[string]interface{} {
	out := map[string]interface{}{
		"code":    code,
		"message": message,
	}
	if code == http.StatusOK {
		out[string(kind)] = map[string]interface{}{
			string(kind) + "_id":   id,
			string(kind) + "_name": name,
		}
	}
	return out
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
