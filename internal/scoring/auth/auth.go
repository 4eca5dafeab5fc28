// Package auth validates the caller-supplied token against a digest derived
// from shared secrets. Admin tokens rotate hourly and do not depend on
// client-submitted data; regular tokens are derived from the account and
// login fields.
package auth

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"time"

	"scorum/internal/scoring/models"
)

const (
	salt      = "Otus"
	adminSalt = "42"

	hourLayout = "2006010215"
)

// Check recomputes the expected token for the request and compares it with
// the submitted one. It never reports which part of the computation failed.
func Check(req *models.MethodRequest) bool {
	var digest string
	if req.IsAdmin() {
		digest = sha512Hex(time.Now().Format(hourLayout) + adminSalt)
	} else {
		digest = sha512Hex(req.Account + req.Login + salt)
	}
	return subtle.ConstantTimeCompare([]byte(digest), []byte(req.Token)) == 1
}

func sha512Hex(s string) string {
	sum := sha512.Sum512([]byte(s))
	return hex.EncodeToString(sum[:])
}

// AdminToken returns the currently valid admin token. Exported for tests and
// operational tooling; it is exactly what Check expects for the admin login.
func AdminToken(now time.Time) string {
	return sha512Hex(now.Format(hourLayout) + adminSalt)
}

// UserToken returns the valid token for a non-admin account/login pair.
func UserToken(account, login string) string {
	return sha512Hex(account + login + salt)
}
