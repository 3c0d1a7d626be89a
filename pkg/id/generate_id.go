// Package id issues the public identifiers attached to loans and deposits.
package id

import (
	"crypto/rand"
	"encoding/hex"
)

// NewID32 returns 32 lowercase hex characters (16 random bytes), the
// format the API exposes as loanId and depositId.
func NewID32() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
