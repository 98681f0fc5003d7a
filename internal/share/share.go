// Package share encodes opaque favourites-sharing tokens. A token is the
// sharing user's id, base64url encoded so it survives being pasted into a
// URL path.
package share

import (
	"encoding/base64"
	"fmt"
)

// EncodeToken builds the share token for a user id.
func EncodeToken(userID string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(userID))
}

// DecodeToken recovers the user id from a share token.
func DecodeToken(token string) (string, error) {
	b, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return "", fmt.Errorf("invalid share token: %w", err)
	}
	if len(b) == 0 {
		return "", fmt.Errorf("empty share token")
	}
	return string(b), nil
}
