package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripTags(t *testing.T) {
	assert.Equal(t, "Hello world", StripTags("<b>Hello</b> <i>world</i>"))
	assert.Equal(t, "ab", StripTags("a<script>alert(1)</script>b"))
	assert.Equal(t, "Tom & Jerry", StripTags("Tom &amp; Jerry"))
	assert.Equal(t, "plain", StripTags("plain"))
}

func TestTextField(t *testing.T) {
	assert.Equal(t, "Techno night Berlin", TextField("  <p>Techno\n night</p>\t Berlin "))
	assert.Equal(t, "ab", TextField("a%20b"))
}

func TestTextArea(t *testing.T) {
	assert.Equal(t, "line one\nline two", TextArea("line   one \r\n <b>line</b> two"))
}

func TestRichText(t *testing.T) {
	out := RichText(`<p onclick="x()">Hi <a href="javascript:alert(1)">there</a></p><script>bad()</script>`)
	assert.Equal(t, `<p>Hi <a>there</a></p>`, out)
}

func TestEmail(t *testing.T) {
	assert.Equal(t, "Ana@example.com", Email(" Ana@EXAMPLE.com "))
	assert.Equal(t, "", Email("no-at-sign"))
	assert.Equal(t, "ab@c.de", Email("a b@c.de"))
}

func TestURL(t *testing.T) {
	assert.Equal(t, "http://example.com/path", URL("Example.COM/path"))
	assert.Equal(t, "https://example.com/a?b=1", URL(" https://example.com/a?b=1 "))
	assert.Equal(t, "", URL("javascript:alert(1)"))
	assert.Equal(t, "", URL(""))
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "deep-house", Slug("Deep House"))
	assert.Equal(t, "drum-bass", Slug("  Drum & Bass! "))
	assert.Equal(t, "event_dj-1", Key("Event_DJ-1!"))
}
