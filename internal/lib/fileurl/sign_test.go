package fileurl

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, raw string) (id, expires, sig string) {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(u.Path, ExportPath))
	return strings.TrimPrefix(u.Path, ExportPath), u.Query().Get("expires"), u.Query().Get("sig")
}

func TestSignAndVerify(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	id, expires, sig := parse(t, signAt("abc", "secret", now.Add(time.Minute)))
	assert.Equal(t, "abc", id)

	assert.True(t, verifyAt(id, expires, sig, "secret", now))
	assert.False(t, verifyAt(id, expires, sig, "other", now))
	assert.False(t, verifyAt("abd", expires, sig, "secret", now))
	assert.False(t, verifyAt(id, expires, sig, "secret", now.Add(2*time.Minute)))
	assert.False(t, verifyAt(id, "nope", sig, "secret", now))
}

func TestSignURL(t *testing.T) {
	id, expires, sig := parse(t, SignURL("abc", "secret", time.Hour))
	assert.True(t, Verify(id, expires, sig, "secret"))
}
