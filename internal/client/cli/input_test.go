package cli

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/dmitrijs2005/gophwallet/internal/client/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rdr(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func stubTerminal(t *testing.T, terminal bool, code []byte, err error) {
	t.Helper()
	origTerm, origRead := isTerminal, readPassword
	isTerminal = func(int) bool { return terminal }
	readPassword = func(int) ([]byte, error) { return code, err }
	t.Cleanup(func() {
		isTerminal = origTerm
		readPassword = origRead
	})
}

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("hello world\n"), "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
	assert.Equal(t, "Name?\n> ", out.String())
}

func TestGetSimpleTextEOF(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("lastline"), "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "lastline", got)

	_, err = GetSimpleText(rdr(""), "Name?", &out)
	require.Error(t, err)
}

func TestGetCode_Terminal(t *testing.T) {
	stubTerminal(t, true, []byte(" 123456 "), nil)
	var out bytes.Buffer
	got, err := GetCode(rdr(""), &out)
	require.NoError(t, err)
	assert.Equal(t, "123456", got)
}

func TestGetCode_TerminalError(t *testing.T) {
	stubTerminal(t, true, nil, errors.New("boom"))
	var out bytes.Buffer
	_, err := GetCode(rdr(""), &out)
	require.Error(t, err)
}

func TestGetCode_Piped(t *testing.T) {
	stubTerminal(t, false, nil, errors.New("must not be called"))
	var out bytes.Buffer
	got, err := GetCode(rdr("654321\n"), &out)
	require.NoError(t, err)
	assert.Equal(t, "654321", got)
}

func TestGetAmount(t *testing.T) {
	var out bytes.Buffer
	n, err := GetAmount(rdr("1,200\n"), "Amount", &out)
	require.NoError(t, err)
	assert.Equal(t, int64(1200), n)

	_, err = GetAmount(rdr("12.5\n"), "Amount", &out)
	require.ErrorIs(t, err, client.ErrValidation)
}
