package hash

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSum_HelloWorld(t *testing.T) {
	h := Sum([]byte("hello world"))
	require.Equal(t, "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9", h.String())
}

func TestSum_Deterministic(t *testing.T) {
	a := Sum([]byte("same payload"))
	b := Sum([]byte("same payload"))
	require.Equal(t, a, b)
}

func TestParse_RoundTrip(t *testing.T) {
	h := Sum([]byte("round trip me"))
	parsed, err := Parse(h.String())
	require.NoError(t, err)
	require.Equal(t, h, parsed)
}

func TestParse_WrongLength(t *testing.T) {
	_, err := Parse("deadbeef")
	require.ErrorContains(t, err, "not a valid hash")
}

func TestParse_NotHex(t *testing.T) {
	_, err := Parse(string(make([]byte, 64)))
	require.Error(t, err)
}

func TestLess_Lexicographic(t *testing.T) {
	a := Hash{0x00, 0x01}
	b := Hash{0x00, 0x02}
	require.True(t, a.Less(b))
	require.False(t, b.Less(a))
	require.False(t, a.Less(a))
}
