package handler

import (
	"net/http"
	"sort"
	"time"

	c "event-manager-backend/context"
	"event-manager-backend/logger"
	"event-manager-backend/model"
	"event-manager-backend/response"
	"event-manager-backend/upload"
)

const uploadNotAllowed = "You must be logged in to upload files using this method."

func canUpload(actor *model.Actor) bool {
	if actor.Can(model.CapUploadFiles) || actor.IsAdmin() {
		return true
	}
	for _, kind := range model.Kinds {
		if actor.Can(kind.Capability()) {
			return true
		}
	}
	return false
}

// saveParts stores every file part of the multipart form in key order.
// Parts that fail are reported with their error instead of a URL.
func saveParts(r *http.Request, cfg upload.Config) map[string][]*model.UploadedFile {
	out := map[string][]*model.UploadedFile{}
	if r.MultipartForm == nil {
		return out
	}
	now := time.Now()
	for key, headers := range r.MultipartForm.File {
		for _, h := range headers {
			f, err := upload.Save(h, cfg, now)
			if err != nil {
				logger.Warnf(r.Context(), "saveParts: %s %q: %v", key, h.Filename, err)
				f = &model.UploadedFile{Error: err.Error()}
			}
			out[key] = append(out[key], f)
		}
	}
	return out
}

// UploadFile stores the posted files and answers {files: [...]}.
func UploadFile(cfg upload.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if !canUpload(c.Actor(ctx)) {
			response.JSON(w, http.StatusForbidden, response.AjaxError(uploadNotAllowed))
			return
		}
		if err := r.ParseMultipartForm(cfg.MaxSizeBytes); err != nil {
			response.BadRequest("invalid multipart body", err.Error()).Send(ctx, w)
			return
		}

		saved := saveParts(r, cfg)
		keys := make([]string, 0, len(saved))
		for k := range saved {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		out := response.Files{Files: []*model.UploadedFile{}}
		for _, k := range keys {
			out.Files = append(out.Files, saved[k]...)
		}
		response.JSON(w, http.StatusOK, out)
	}
}
