// ABOUTME: Tests for Gravatar URL derivation
// ABOUTME: Checks normalization and the fixed query parameters

package avatar

import (
	"strings"
	"testing"
)

func TestURL_Normalization(t *testing.T) {
	// Case and surrounding whitespace must not change the digest
	base := URL("a@x.com")
	if URL(" A@X.COM ") != base {
		t.Error("URL() is not normalizing email case/whitespace")
	}
}

func TestURL_Shape(t *testing.T) {
	url := URL("a@x.com")

	if !strings.HasPrefix(url, "https://www.gravatar.com/avatar/") {
		t.Errorf("unexpected prefix: %s", url)
	}
	for _, param := range []string{"s=200", "r=pg", "d=mm"} {
		if !strings.Contains(url, param) {
			t.Errorf("URL missing %s: %s", param, url)
		}
	}
}

func TestURL_DistinctEmails(t *testing.T) {
	if URL("a@x.com") == URL("b@x.com") {
		t.Error("different emails produced the same avatar URL")
	}
}
