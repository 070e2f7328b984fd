package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPHPToGoLayout(t *testing.T) {
	assert.Equal(t, "02/01/2006", PHPToGoLayout("d/m/Y"))
	assert.Equal(t, "2006-01-02", PHPToGoLayout("Y-m-d"))
	assert.Equal(t, "January 2, 2006", PHPToGoLayout("F j, Y"))
	assert.Equal(t, "15:04", PHPToGoLayout("H:i"))
	assert.Equal(t, "3:04 pm", PHPToGoLayout("g:i a"))
	assert.Equal(t, "2 of January", PHPToGoLayout(`j \o\f F`))
}

func TestDateRoundTrip(t *testing.T) {
	iso, err := ToCanonical("25/12/2025", "d/m/Y")
	require.Nil(t, err, "expected err to be nil")
	assert.Equal(t, "2025-12-25", iso)
	assert.Equal(t, "25/12/2025", ToPresentation(iso, "d/m/Y"))

	iso, err = ToCanonical("2025-12-25", "d/m/Y")
	require.Nil(t, err, "expected err to be nil")
	assert.Equal(t, "2025-12-25", iso)

	iso, err = ToCanonical("", "d/m/Y")
	require.Nil(t, err, "expected err to be nil")
	assert.Equal(t, "", iso)

	_, err = ToCanonical("tomorrow-ish", "d/m/Y")
	assert.NotNil(t, err)
	assert.Equal(t, "soon", ToPresentation("soon", "d/m/Y"))
}

func TestTimes(t *testing.T) {
	v, err := CanonicalTime("9:30 pm", "g:i a")
	require.Nil(t, err, "expected err to be nil")
	assert.Equal(t, "21:30", v)

	v, err = CanonicalTime("21:30:00", "")
	require.Nil(t, err, "expected err to be nil")
	assert.Equal(t, "21:30", v)

	assert.Equal(t, "9:30 pm", PresentTime("21:30", "g:i a"))
	_, err = CanonicalTime("late", "H:i")
	assert.NotNil(t, err)
}
