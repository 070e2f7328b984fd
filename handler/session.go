package handler

import (
	"net/http"

	"event-manager-backend/response"
	"event-manager-backend/submission"
)

// Logout expires the resumption cookies of every kind.
func Logout(w http.ResponseWriter, r *http.Request) {
	cookies := submission.ClearCookies()
	for _, ck := range cookies {
		http.SetCookie(w, ck)
	}
	response.SuccessResponse{
		Data:       &response.Data{Status: "logged out", ClearedCookies: len(cookies)},
		StatusCode: http.StatusOK,
	}.Send(w)
}
