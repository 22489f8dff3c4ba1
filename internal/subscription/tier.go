// Package subscription implements the free/pro tier, the monthly question
// ledger, and admission decisions for sessions and features.
package subscription

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"
)

// Tier is a subscription level.
type Tier string

const (
	TierFree Tier = "free"
	TierPro  Tier = "pro"
)

// DefaultProKeyHash is the hex SHA-256 of the stock pro activation key.
const DefaultProKeyHash = "2a5abf58caebb752ee2d12eaef3e7256a1dbc3cf59e3a7c0c3e8e3cc2f9a8c4b"

// ParseTier maps a stored value to a tier. Anything but "pro" is free.
func ParseTier(s string) Tier {
	if Tier(s) == TierPro {
		return TierPro
	}
	return TierFree
}

// HashKey returns the hex SHA-256 of the trimmed activation key.
func HashKey(key string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(key)))
	return hex.EncodeToString(sum[:])
}

// keyMatches compares the key's hash to want in constant time.
func keyMatches(key, want string) bool {
	got := HashKey(key)
	want = strings.ToLower(strings.TrimSpace(want))
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}
