package fingerprint

import (
	"crypto/md5"
	"encoding/hex"
	"net/url"
	"strings"

	"CryptoScanner/internal/domain"
)

// Content derives the dedup key from an item's title and link. Identical
// (title, link) pairs always produce the same fingerprint; absent fields
// count as empty strings.
func Content(item domain.Item) string {
	return digest(item.Title + "|" + item.Link)
}

// URL derives a second dedup key from the link alone, so syndicated copies
// of one story from different sources collapse to a single fingerprint.
// Returns false when the item carries no link.
func URL(item domain.Item) (string, bool) {
	if item.Link == "" {
		return "", false
	}
	return digest(Normalize(item.Link)), true
}

// Normalize reduces a URL to scheme, host, and path: query string, fragment,
// and trailing slash are stripped. Unparseable input is returned unchanged so
// it still hashes deterministically.
func Normalize(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	u.RawQuery = ""
	u.Fragment = ""
	u.RawFragment = ""
	u.Path = strings.TrimSuffix(u.Path, "/")

	return u.String()
}

func digest(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}
