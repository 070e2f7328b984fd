package handler

import (
	"errors"
	"net/http"
	"strings"

	c "event-manager-backend/context"
	"event-manager-backend/logger"
	"event-manager-backend/response"
	"event-manager-backend/shortcode"
	"event-manager-backend/upload"

	"github.com/gorilla/mux"
)

// Shortcodes lists the names Shortcode renders.
func Shortcodes(registry *shortcode.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.SuccessResponse{
			Data:       &response.Data{Shortcodes: registry.Names()},
			StatusCode: http.StatusOK,
		}.Send(w)
	}
}

// Shortcode renders one shortcode as an HTML page body. Query parameters are
// its attributes; posted fields and uploaded files feed forms and dashboards.
func Shortcode(registry *shortcode.Registry, uploads upload.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		name := mux.Vars(r)["name"]
		if err := parseForm(r, uploads.MaxSizeBytes); err != nil {
			response.BadRequest("invalid request", err.Error()).Send(ctx, w)
			return
		}

		attrs := shortcode.Attrs{}
		for k := range r.URL.Query() {
			attrs[k] = r.URL.Query().Get(k)
		}
		v := values(r.Form)
		for key, files := range saveParts(r, uploads) {
			key = strings.TrimSuffix(key, "[]")
			for _, f := range files {
				if f.Error != "" {
					response.InvalidData(f.Error).Send(ctx, w)
					return
				}
				v[key] = append(v[key], f.URL)
			}
		}

		out, err := registry.Render(ctx, name, &shortcode.Request{
			Actor:   c.Actor(ctx),
			Attrs:   attrs,
			Values:  v,
			Cookies: r.Cookies(),
			Posted:  r.Method == http.MethodPost,
			URL:     r.URL.Path,
		})
		if errors.Is(err, shortcode.ErrUnknown) {
			response.UnknownShortcode(name).Send(ctx, w)
			return
		}
		if err != nil {
			logger.Errorf(ctx, "shortcode: %s: %v", name, err)
			response.SomethingWrong().Send(ctx, w)
			return
		}

		for _, ck := range out.Cookies {
			http.SetCookie(w, ck)
		}
		if out.Redirect != "" {
			http.Redirect(w, r, out.Redirect, http.StatusSeeOther)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(out.HTML))
	}
}
