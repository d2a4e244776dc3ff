package hashid

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCodec(t *testing.T) *Codec {
	t.Helper()
	c, err := New("test-salt", DefaultMinLength)
	require.NoError(t, err)
	return c
}

func TestNew_EmptySalt(t *testing.T) {
	_, err := New("", DefaultMinLength)
	assert.Error(t, err)
}

func TestRoundTrip(t *testing.T) {
	c := newTestCodec(t)

	for _, id := range []int64{0, 1, 2, 42, 1000, 123456789, math.MaxInt32, 1 << 40} {
		encoded := c.Encode(id)
		require.NotEmpty(t, encoded)
		assert.GreaterOrEqual(t, len(encoded), DefaultMinLength)

		decoded, ok := c.Decode(encoded)
		assert.True(t, ok, "decode(%q)", encoded)
		assert.Equal(t, id, decoded)
	}
}

func TestEncode_NotSequential(t *testing.T) {
	c := newTestCodec(t)
	a, b := c.Encode(1), c.Encode(2)
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a[:len(a)-1], b[:len(b)-1], "adjacent ids should not share a prefix")
}

func TestEncode_Negative(t *testing.T) {
	assert.Equal(t, "", newTestCodec(t).Encode(-1))
}

func TestDecode_Garbage(t *testing.T) {
	c := newTestCodec(t)

	inputs := []string{
		"",
		"x",
		"not-a-hashid",
		"!!!!!!!!!!",
		"../../etc/passwd",
		"😀😀😀😀😀😀😀😀😀😀",
		"0000000000",
		c.Encode(5) + "a",
	}
	for _, in := range inputs {
		id, ok := c.Decode(in)
		assert.False(t, ok, "Decode(%q) should fail", in)
		assert.Zero(t, id)
	}
}

func TestDecode_DifferentSalt(t *testing.T) {
	a := newTestCodec(t)
	b, err := New("other-salt", DefaultMinLength)
	require.NoError(t, err)

	_, ok := b.Decode(a.Encode(77))
	assert.False(t, ok)
}

func TestDecode_MultiValue(t *testing.T) {
	c := newTestCodec(t)
	multi, err := c.h.EncodeInt64([]int64{1, 2})
	require.NoError(t, err)

	_, ok := c.Decode(multi)
	assert.False(t, ok)
}
