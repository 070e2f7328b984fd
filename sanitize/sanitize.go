package sanitize

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
)

var (
	whitespace  = regexp.MustCompile(`[\s\p{Zs}]+`)
	octets      = regexp.MustCompile(`%[a-fA-F0-9]{2}`)
	slugInvalid = regexp.MustCompile(`[^a-z0-9]+`)
	emailChars  = regexp.MustCompile(`[^a-zA-Z0-9!#$%&'*+/=?^_\x60{|}~.@-]`)
	schemeLike  = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*:`)
)

// StripTags returns the text of s with every tag removed. Script and style
// contents are dropped, not kept as text.
func StripTags(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<body>" + s + "</body>"))
	if err != nil {
		return s
	}
	doc.Find("script, style").Remove()
	return doc.Find("body").Text()
}

// TextField strips markup, octets and line breaks and collapses whitespace.
func TextField(s string) string {
	s = StripTags(s)
	s = octets.ReplaceAllString(s, "")
	s = whitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// TextArea is TextField keeping line breaks.
func TextArea(s string) string {
	lines := strings.Split(strings.ReplaceAll(StripTags(s), "\r\n", "\n"), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(whitespace.ReplaceAllString(l, " "))
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

var unsafeAttrs = []string{"onclick", "onload", "onerror", "onmouseover", "onfocus", "onblur", "onchange", "onsubmit"}

// RichText keeps formatting markup but removes active content.
func RichText(s string) string {
	if !strings.Contains(s, "<") {
		return strings.TrimSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<body>" + s + "</body>"))
	if err != nil {
		return TextArea(s)
	}
	doc.Find("script, style, iframe, object, embed, form").Remove()
	doc.Find("*").Each(func(_ int, sel *goquery.Selection) {
		for _, a := range unsafeAttrs {
			sel.RemoveAttr(a)
		}
		for _, a := range []string{"href", "src"} {
			if v, ok := sel.Attr(a); ok && strings.HasPrefix(strings.ToLower(strings.TrimSpace(v)), "javascript:") {
				sel.RemoveAttr(a)
			}
		}
	})
	out, err := doc.Find("body").Html()
	if err != nil {
		return TextArea(s)
	}
	return strings.TrimSpace(out)
}

// Email lowercases the domain and drops characters not allowed in an address.
func Email(s string) string {
	s = emailChars.ReplaceAllString(strings.TrimSpace(s), "")
	at := strings.LastIndex(s, "@")
	if at <= 0 {
		return ""
	}
	return s[:at] + "@" + strings.ToLower(s[at+1:])
}

var allowedSchemes = map[string]bool{"http": true, "https": true, "mailto": true, "ftp": true, "tel": true}

// URL canonicalises a link. A missing scheme means http; unknown schemes give "".
func URL(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	if !schemeLike.MatchString(s) && !strings.HasPrefix(s, "/") && !strings.HasPrefix(s, "#") && !strings.HasPrefix(s, "?") {
		s = "http://" + s
	}
	u, err := url.Parse(s)
	if err != nil {
		return ""
	}
	if u.Scheme != "" && !allowedSchemes[strings.ToLower(u.Scheme)] {
		return ""
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	return u.String()
}

// Slug is a lowercase dash separated form of s.
func Slug(s string) string {
	s = strings.ToLower(TextField(s))
	s = slugInvalid.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Key keeps lowercase alphanumerics, dashes and underscores.
func Key(s string) string {
	return strings.Map(func(r rune) rune {
		r = unicode.ToLower(r)
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return -1
	}, s)
}
