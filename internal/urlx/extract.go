// Package urlx contains URL and domain helpers shared across subsystems.
package urlx

import (
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// ExtractDomain normalizes a user-supplied URL or bare domain into its
// registrable domain (eTLD+1), e.g. "https://sub.example.co.uk/path" becomes
// "example.co.uk". Inputs that yield no usable host are returned unchanged,
// so callers can treat the result as best effort. The function is idempotent:
// feeding its output back in returns the same value.
func ExtractDomain(raw string) string {
	host := hostOf(raw)
	if host == "" {
		return raw
	}
	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return raw
	}
	return domain
}

// hostOf pulls the lowercased hostname out of raw, tolerating inputs
// without a scheme ("example.com/path").
func hostOf(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err == nil && u.Host != "" {
		return strings.ToLower(strings.TrimSuffix(u.Hostname(), "."))
	}
	// Bare domains parse as a path; retry with a scheme prefixed.
	u, err = url.Parse("https://" + raw)
	if err != nil || u.Host == "" {
		return ""
	}
	return strings.ToLower(strings.TrimSuffix(u.Hostname(), "."))
}
