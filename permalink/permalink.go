package permalink

import (
	"fmt"
	"net/url"
	"strings"
)

// Links builds public URLs of posts and pages under the site URL.
type Links struct {
	base string
}

func New(siteURL string) *Links {
	return &Links{base: strings.TrimRight(siteURL, "/")}
}

func (l *Links) Home() string {
	return l.base + "/"
}

func (l *Links) Post(id int64) string {
	return fmt.Sprintf("%s/?p=%d", l.base, id)
}

func (l *Links) Page(id int64) string {
	return fmt.Sprintf("%s/?page_id=%d", l.base, id)
}

// With adds query arguments to link, replacing existing ones.
func With(link string, args map[string]string) string {
	u, err := url.Parse(link)
	if err != nil {
		return link
	}
	q := u.Query()
	for k, v := range args {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// Feed is the RSS link of the event listing filtered like the current search.
func (l *Links) Feed(args map[string]string) string {
	full := map[string]string{"feed": "event_feed"}
	for k, v := range args {
		if v != "" {
			full[k] = v
		}
	}
	return With(l.Home(), full)
}
