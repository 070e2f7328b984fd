package handler

import (
	"net/http"

	"event-manager-backend/auth"
	c "event-manager-backend/context"
	"event-manager-backend/logger"
	"event-manager-backend/model"
	"event-manager-backend/render"
	"event-manager-backend/response"
	"event-manager-backend/submission"
)

// AddEntity creates a dj or local from the popup of the event form.
func AddEntity(kind model.Kind, submit *submission.Controller, nonces *auth.Nonces, renderer *render.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if err := r.ParseForm(); err != nil {
			response.BadRequest("invalid request", err.Error()).Send(ctx, w)
			return
		}

		res := submit.QuickCreate(ctx, kind, c.Actor(ctx),
			r.PostForm.Get("form_data"),
			r.PostForm.Get(kind.DescriptionKey()),
			r.PostForm.Get(submission.NonceField(kind)),
			nonces)

		message, err := renderer.Alert(res.Message, res.Code != http.StatusOK)
		if err != nil {
			logger.Errorf(ctx, "addEntity: %v", err)
			message = res.Message
		}
		logger.Infof(ctx, "addEntity: %s quick create answered %d", kind, res.Code)
		response.JSON(w, http.StatusOK, response.QuickCreate(kind, res.Code, res.ID, res.Name, message))
	}
}
