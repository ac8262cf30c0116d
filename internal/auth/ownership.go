// ABOUTME: Ownership policy deciding whether an identity may mutate a resource
// ABOUTME: Pure string-id equality over canonical identity ids

package auth

import "strings"

// Authorize reports whether the acting identity may mutate a resource
// recorded as owned by ownerID. Ids are compared in canonical trimmed
// form; an empty actor never authorizes.
func Authorize(actorID, ownerID string) bool {
	actor := strings.TrimSpace(actorID)
	owner := strings.TrimSpace(ownerID)
	return actor != "" && actor == owner
}
