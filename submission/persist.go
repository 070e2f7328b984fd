package submission

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"

	"event-manager-backend/logger"
	"event-manager-backend/model"
	"event-manager-backend/option"
	"event-manager-backend/sanitize"
	"event-manager-backend/schema"
	"event-manager-backend/store"
	"event-manager-backend/upload"

	"golang.org/x/crypto/bcrypt"
)

// save writes the post row. A new entity gets a unique key and the resumption cookies.
// An empty status keeps the stored one.
func (c *Controller) save(ctx context.Context, f *Form, values model.Values, status model.Status) error {
	title := sanitize.TextField(html.UnescapeString(values.Get(f.Kind.NameKey())))
	content := sanitize.RichText(html.UnescapeString(values.Get(f.Kind.DescriptionKey())))

	if f.EntityID > 0 {
		p, err := c.store.Entity(ctx, f.Kind, f.EntityID)
		if err != nil {
			return fmt.Errorf("save: %w", err)
		}
		p.Title = title
		p.Content = content
		if status != "" {
			p.Status = status
		}
		if err := c.store.Update(ctx, p); err != nil {
			return fmt.Errorf("save: %w", err)
		}
		f.Status = p.Status
		return nil
	}

	var author int64
	if f.Actor.LoggedIn() {
		author = f.Actor.ID
	}
	p := &model.Post{Type: f.Kind.PostType(), Title: title, Content: content, Status: status, Author: author}
	id, err := c.store.Insert(ctx, p)
	if err != nil {
		return fmt.Errorf("save: %w", err)
	}
	f.EntityID = id
	f.Status = status

	key := c.newKey()
	if err := c.store.SetMeta(ctx, id, store.MetaUniqueKey, key); err != nil {
		return fmt.Errorf("save: storing unique key: %w", err)
	}
	if f.Kind == model.KindEvent {
		for _, k := range []string{store.MetaCancelled, store.MetaFeatured} {
			if err := c.store.SetMeta(ctx, id, k, "0"); err != nil {
				return fmt.Errorf("save: %w", err)
			}
		}
	}
	cookies, err := c.resumeCookies(f.Kind, id, key)
	if err != nil {
		logger.Warnf(ctx, "save: resumption cookies for %s %d: %v", f.Kind, id, err)
		return nil
	}
	f.Cookies = append(f.Cookies, cookies...)
	return nil
}

// persist stores every visible field as metadata or terms and adopts uploaded files.
func (c *Controller) persist(ctx context.Context, f *Form, fields []model.Field, values model.Values) error {
	id := f.EntityID
	dateFormat := c.opts.Get(ctx, option.DateFormat)
	timeFormat := c.opts.Get(ctx, option.TimeFormat)

	var attach []string
	for _, field := range fields {
		if !field.Visibility {
			continue
		}
		key := store.MetaKey(field.Key)
		raw := values[field.Key]
		first := values.Get(field.Key)

		if field.Taxonomy != "" {
			ids := c.termIDs(ctx, field.Taxonomy, values.NonEmpty(field.Key))
			if err := c.store.SetObjectTerms(ctx, id, field.Taxonomy, ids); err != nil {
				return fmt.Errorf("persist: %s terms: %w", field.Key, err)
			}
			continue
		}

		var value string
		switch field.Type {
		case model.FieldDate:
			v, err := schema.ToCanonical(first, dateFormat)
			if err != nil {
				v = strings.TrimSpace(first)
			}
			value = v
		case model.FieldTime:
			v, err := schema.CanonicalTime(first, timeFormat)
			if err != nil {
				v = strings.TrimSpace(first)
			}
			value = v
		case model.FieldFile:
			files := values.NonEmpty(field.Key)
			if field.Key == f.Kind.LogoKey() && len(files) == 0 {
				if err := c.store.SetMeta(ctx, id, store.MetaThumbnail, ""); err != nil {
					return fmt.Errorf("persist: clearing thumbnail: %w", err)
				}
			}
			for i := range files {
				files[i] = strings.TrimSpace(files[i])
			}
			value = strings.Join(files, ",")
			attach = append(attach, files...)
		case model.FieldURL:
			value = sanitize.URL(first)
		case model.FieldEmail:
			value = sanitize.Email(first)
		case model.FieldText:
			value = sanitize.StripTags(html.UnescapeString(first))
			value = strings.TrimSpace(value)
		case model.FieldRichText:
			value = sanitize.RichText(first)
		case model.FieldTextarea:
			value = sanitize.TextArea(first)
		case model.FieldPassword:
			if strings.TrimSpace(first) == "" {
				continue
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(first), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("persist: hashing %s: %w", field.Key, err)
			}
			value = string(hash)
		case model.FieldMultiselect, model.FieldTermMultiselect, model.FieldTermChecklist:
			parts := make([]string, 0, len(raw))
			for _, v := range raw {
				if v = sanitize.TextField(v); v != "" {
					parts = append(parts, v)
				}
			}
			value = strings.Join(parts, ",")
		default:
			value = sanitize.TextField(first)
		}

		switch field.Key {
		case "event_djs":
			value = store.JoinIDs(store.ParseIDs(value))
		case "event_local":
			if n := parseID(value); n > 0 {
				value = strconv.FormatInt(n, 10)
			} else {
				value = ""
			}
		case "event_online":
			if model.ParseTristate(value) == model.Yes {
				value = "yes"
			} else {
				value = "no"
			}
		}

		if err := c.store.SetMeta(ctx, id, key, value); err != nil {
			return fmt.Errorf("persist: %s: %w", field.Key, err)
		}
	}

	if f.Kind == model.KindEvent {
		if err := c.eventDerived(ctx, id); err != nil {
			return err
		}
	}
	if len(attach) > 0 {
		if err := c.adopt(ctx, f, attach); err != nil {
			return err
		}
	}
	return nil
}

// eventDerived sets the free ticket price and the expiry date of an event.
func (c *Controller) eventDerived(ctx context.Context, id int64) error {
	if c.store.Meta(ctx, id, "_event_ticket_options") == model.TicketFree {
		if err := c.store.DeleteMeta(ctx, id, "_event_ticket_price"); err != nil {
			return fmt.Errorf("eventDerived: %w", err)
		}
	}
	expires := c.store.Meta(ctx, id, "_event_end_date")
	if expires == "" {
		expires = c.store.Meta(ctx, id, "_event_start_date")
	}
	if err := c.store.SetMeta(ctx, id, "_event_expires", expires); err != nil {
		return fmt.Errorf("eventDerived: %w", err)
	}
	return nil
}

// termIDs resolves ids or slugs of a taxonomy, dropping unknown terms.
func (c *Controller) termIDs(ctx context.Context, taxonomy string, values []string) []int64 {
	ids := make([]int64, 0, len(values))
	for _, v := range values {
		t, err := c.store.ResolveTerm(ctx, taxonomy, strings.TrimSpace(v))
		if err != nil || t == nil {
			continue
		}
		ids = append(ids, t.ID)
	}
	return ids
}

// adopt turns file URLs that are not attached yet into attachments of the entity.
// The first adopted image becomes the thumbnail.
func (c *Controller) adopt(ctx context.Context, f *Form, urls []string) error {
	existing, err := c.store.Attachments(ctx, f.EntityID)
	if err != nil {
		return fmt.Errorf("adopt: %w", err)
	}
	attached := make(map[string]bool, len(existing))
	for _, a := range existing {
		attached[a.GUID] = true
	}

	thumbnail := false
	for _, u := range urls {
		if attached[u] || isNumeric(u) {
			continue
		}
		a, ok := c.attachment(f, u)
		if !ok || attached[a.GUID] {
			continue
		}
		if _, err := c.store.Insert(ctx, a); err != nil {
			return fmt.Errorf("adopt: %w", err)
		}
		attached[a.GUID] = true
		if !thumbnail && upload.IsImage(a.MimeType) {
			if err := c.store.SetMeta(ctx, f.EntityID, store.MetaThumbnail, strconv.FormatInt(a.ID, 10)); err != nil {
				return fmt.Errorf("adopt: %w", err)
			}
			thumbnail = true
		}
	}
	return nil
}

// attachment builds the attachment row of a remote file. Only http(s) URLs
// without parent directory segments are accepted.
func (c *Controller) attachment(f *Form, raw string) (*model.Post, bool) {
	u, err := url.Parse(sanitize.URL(raw))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, false
	}
	if strings.Contains(u.Path, "../") {
		return nil, false
	}
	clean := fmt.Sprintf("%s://%s%s", u.Scheme, u.Host, u.Path)
	var author int64
	if f.Actor.LoggedIn() {
		author = f.Actor.ID
	}
	name := strings.TrimSuffix(path.Base(u.Path), path.Ext(u.Path))
	return &model.Post{
		Type:     model.PostTypeAttachment,
		Title:    name,
		Status:   model.StatusInherit,
		Parent:   f.EntityID,
		Author:   author,
		GUID:     clean,
		MimeType: upload.TypeByExtension(u.Path),
	}, true
}

// Cookie names of the resumption pair.
func CookieID(kind model.Kind) string {
	return "wp-event-manager-submitting-" + string(kind) + "-id"
}

func CookieKey(kind model.Kind) string {
	return "wp-event-manager-submitting-" + string(kind) + "-key"
}

func (c *Controller) resumeCookies(kind model.Kind, id int64, key string) ([]*http.Cookie, error) {
	sealed, err := c.sealer.Seal(key)
	if err != nil {
		return nil, fmt.Errorf("resumeCookies: %w", err)
	}
	return []*http.Cookie{
		{Name: CookieID(kind), Value: strconv.FormatInt(id, 10), Path: "/", HttpOnly: true},
		{Name: CookieKey(kind), Value: sealed, Path: "/", HttpOnly: true},
	}, nil
}

// fromCookies returns the id of a preview entity whose stored key matches the cookie pair.
func (c *Controller) fromCookies(ctx context.Context, kind model.Kind, cookies []*http.Cookie) int64 {
	var rawID, sealed string
	for _, ck := range cookies {
		switch ck.Name {
		case CookieID(kind):
			rawID = ck.Value
		case CookieKey(kind):
			sealed = ck.Value
		}
	}
	id := parseID(rawID)
	if id <= 0 || sealed == "" {
		return 0
	}
	key, err := c.sealer.Open(sealed)
	if err != nil || key == "" {
		logger.Debugf(ctx, "fromCookies: unreadable %s key: %v", kind, err)
		return 0
	}
	p, err := c.store.Entity(ctx, kind, id)
	if err != nil || p.Status != model.StatusPreview {
		return 0
	}
	if c.store.Meta(ctx, id, store.MetaUniqueKey) != key {
		return 0
	}
	return id
}

// ClearCookies expires the resumption pairs of every kind.
func ClearCookies() []*http.Cookie {
	var out []*http.Cookie
	for _, kind := range model.Kinds {
		for _, name := range []string{CookieID(kind), CookieKey(kind)} {
			out = append(out, &http.Cookie{Name: name, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
		}
	}
	return out
}

func isNumeric(s string) bool {
	_, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return err == nil
}
