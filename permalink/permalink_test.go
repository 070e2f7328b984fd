package permalink

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLinks(t *testing.T) {
	l := New("https://example.com/")

	assert.Equal(t, "https://example.com/?p=7", l.Post(7))
	assert.Equal(t, "https://example.com/?page_id=3", l.Page(3))
	assert.Equal(t, "https://example.com/?action=edit&event_id=7&page_id=3", With(l.Page(3), map[string]string{"action": "edit", "event_id": "7"}))
	assert.Equal(t, "https://example.com/?feed=event_feed&search_location=Berlin", l.Feed(map[string]string{"search_location": "Berlin", "search_keywords": ""}))
}
