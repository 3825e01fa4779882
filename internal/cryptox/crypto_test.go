package cryptox

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	Alias   string `json:"alias"`
	Balance int64  `json:"balance"`
}

func testKey(t *testing.T) []byte {
	t.Helper()
	return DeriveKey([]byte("device-secret"), bytes.Repeat([]byte{7}, SaltSize))
}

func TestDeriveKey_Deterministic(t *testing.T) {
	salt := bytes.Repeat([]byte{1}, SaltSize)
	a := DeriveKey([]byte("pw"), salt)
	b := DeriveKey([]byte("pw"), salt)
	c := DeriveKey([]byte("pw2"), salt)

	assert.Len(t, a, KeySize)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestSealOpen_RoundTrip(t *testing.T) {
	key := testKey(t)
	in := record{Alias: "juan.123", Balance: 1000}

	sealed, err := Seal(in, key)
	require.NoError(t, err)
	assert.NotContains(t, string(sealed), "juan.123")

	var out record
	require.NoError(t, Open(sealed, key, &out))
	assert.Equal(t, in, out)
}

func TestSeal_FreshNonceEachTime(t *testing.T) {
	key := testKey(t)
	a, err := Seal(record{Alias: "x"}, key)
	require.NoError(t, err)
	b, err := Seal(record{Alias: "x"}, key)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestOpen_WrongKey(t *testing.T) {
	sealed, err := Seal(record{Alias: "x"}, testKey(t))
	require.NoError(t, err)

	other := DeriveKey([]byte("other"), bytes.Repeat([]byte{7}, SaltSize))
	var out record
	require.ErrorIs(t, Open(sealed, other, &out), ErrMalformed)
}

func TestOpen_Truncated(t *testing.T) {
	var out record
	require.ErrorIs(t, Open([]byte{1, 2}, testKey(t), &out), ErrMalformed)
}

func TestSeal_BadKeyLength(t *testing.T) {
	_, err := Seal(record{}, []byte("short"))
	require.Error(t, err)
}
