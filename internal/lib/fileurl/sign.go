// Package fileurl signs and verifies expiring download links for assessment exports.
package fileurl

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"
)

// ExportPath is the route prefix served without bearer authentication.
const ExportPath = "/api/v1/files/assessments/"

// SignURL returns a relative export URL carrying an expiry and an HMAC-SHA256
// signature over "{id}:{expiresUnix}".
func SignURL(id, secret string, ttl time.Duration) string {
	return signAt(id, secret, time.Now().Add(ttl))
}

func signAt(id, secret string, expiresAt time.Time) string {
	expires := expiresAt.Unix()
	return fmt.Sprintf("%s%s?expires=%d&sig=%s", ExportPath, id, expires, computeHMAC(id, expires, secret))
}

// Verify checks the signature and that the link has not expired.
func Verify(id, expires, sig, secret string) bool {
	return verifyAt(id, expires, sig, secret, time.Now())
}

func verifyAt(id, expires, sig, secret string, now time.Time) bool {
	exp, err := strconv.ParseInt(expires, 10, 64)
	if err != nil {
		return false
	}
	if now.Unix() > exp {
		return false
	}
	expected := computeHMAC(id, exp, secret)
	return hmac.Equal([]byte(sig), []byte(expected))
}

func computeHMAC(id string, expires int64, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(fmt.Sprintf("%s:%d", id, expires)))
	return hex.EncodeToString(mac.Sum(nil))
}
