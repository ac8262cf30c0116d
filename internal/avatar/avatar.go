// ABOUTME: Gravatar URL derivation for newly registered identities
// ABOUTME: MD5 of the normalized email, 200px, PG-rated, mystery-man fallback

package avatar

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
)

// URL returns the Gravatar URL for an email address. The digest is MD5
// of the trimmed, lowercased email as the Gravatar format requires.
func URL(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	sum := md5.Sum([]byte(normalized))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%s?s=200&r=pg&d=mm",
		hex.EncodeToString(sum[:]))
}
