package codec

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealerRoundTrip(t *testing.T) {
	s, err := NewSealer([]byte("0123456789abcdef0123456789abcdef"))
	require.Nil(t, err, "expected err to be nil")

	sealed, err := s.Seal("wpem-key")
	require.Nil(t, err)
	assert.NotEqual(t, "wpem-key", sealed)

	opened, err := s.Open(sealed)
	require.Nil(t, err)
	assert.Equal(t, "wpem-key", opened)
}

func TestSealerRejectsGarbage(t *testing.T) {
	s, err := NewSealer([]byte("0123456789abcdef"))
	require.Nil(t, err)

	_, err = s.Open("not base64 !!")
	assert.NotNil(t, err)

	_, err = s.Open("c2hvcnQ=")
	assert.NotNil(t, err)
}

func TestSealerWithoutKeyIsPassThrough(t *testing.T) {
	s, err := NewSealer(nil)
	require.Nil(t, err)

	sealed, err := s.Seal("k")
	require.Nil(t, err)
	assert.Equal(t, "k", sealed)
}

func TestNewSealerRejectsBadKey(t *testing.T) {
	_, err := NewSealer([]byte("short"))
	assert.NotNil(t, err)
}

func TestSealerDetectsTampering(t *testing.T) {
	s, err := NewSealer([]byte("0123456789abcdef"))
	require.Nil(t, err, "expected err to be nil")
	sealed, err := s.Seal("wpem-key")
	require.Nil(t, err, "expected err to be nil")

	raw, err := base64.RawURLEncoding.DecodeString(sealed)
	require.Nil(t, err, "expected err to be nil")
	raw[len(raw)-1] ^= 0x01
	_, err = s.Open(base64.RawURLEncoding.EncodeToString(raw))
	assert.NotNil(t, err)

	other, err := NewSealer([]byte("fedcba9876543210"))
	require.Nil(t, err, "expected err to be nil")
	_, err = other.Open(sealed)
	assert.NotNil(t, err)
}
