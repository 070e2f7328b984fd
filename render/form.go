package render

import (
	"context"
	"fmt"
	"strings"

	"event-manager-backend/model"
	"event-manager-backend/submission"
)

// Form renders the current step of a submission or edit form posting to action.
func (r *Renderer) Form(ctx context.Context, f *submission.Form, action string) (string, error) {
	if f.Invalid {
		var b strings.Builder
		for _, e := range f.Errors {
			out, err := r.Alert(e, true)
			if err != nil {
				return "", err
			}
			b.WriteString(out)
		}
		return b.String(), nil
	}
	if f.StepKey() == submission.StepDone {
		return r.exec("done", struct {
			Message string
			ViewURL string
		}{doneMessage(f.Kind, f.Status), f.ViewURL})
	}

	submit := "Submit " + title(f.Kind)
	if f.Edit {
		submit = "Save changes"
	}
	return r.exec("form", struct {
		Action   string
		Kind     model.Kind
		Name     string
		EntityID int64
		Step     int
		Fields   []model.Field
		Errors   []string
		Notice   string
		Submit   string
	}{action, f.Kind, f.Name, f.EntityID, f.Step, f.Fields, f.Errors, f.Notice, submit})
}

func title(k model.Kind) string {
	switch k {
	case model.KindDJ:
		return "DJ"
	case model.KindLocal:
		return "Local"
	}
	return "Event"
}

func doneMessage(kind model.Kind, status model.Status) string {
	switch status {
	case model.StatusPublish:
		return fmt.Sprintf("%s listed successfully.", title(kind))
	case model.StatusPending:
		return fmt.Sprintf("%s submitted successfully. Your listing will be visible once approved.", title(kind))
	}
	return fmt.Sprintf("%s submitted successfully.", title(kind))
}
