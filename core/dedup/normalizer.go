// ABOUTME: URL canonicalization for identity comparison between search results
// ABOUTME: Pure functions, never error - unparseable input degrades to lower-cased passthrough

package dedup

import (
	"net/url"
	"strings"
)

// NormalizeURL canonicalizes a URL string for identity comparison.
// Two URLs are exact duplicates iff their normalized forms are byte-equal.
// Scheme-less input - including this function's own output when the
// scheme is stripped - is parsed against an assumed https scheme, so
// normalization is idempotent: normalizing a normalized form returns it
// unchanged. It never fails: input that cannot be parsed even with an
// assumed scheme is returned lower-cased as a last resort. Fragments
// are always dropped.
func NormalizeURL(raw string, opts Options) string {
	trimmed := strings.TrimSpace(raw)

	u, err := url.Parse(trimmed)
	if err == nil && u.Scheme == "" {
		if u.Host != "" {
			// Protocol-relative form, e.g. //example.com/x
			u.Scheme = "https"
		} else {
			u, err = url.Parse("https://" + trimmed)
		}
	}
	if err != nil || u.Scheme == "" || u.Host == "" {
		return strings.ToLower(raw)
	}

	host := strings.ToLower(u.Hostname())
	if opts.IgnoreWww {
		host = strings.TrimPrefix(host, "www.")
	}
	if opts.TreatSubdomainsAsSame {
		host = registrableDomain(host)
	}

	path := u.EscapedPath()
	if opts.IgnoreTrailingSlash {
		// Root "/" normalizes to empty, "/a/" to "/a"
		path = strings.TrimSuffix(path, "/")
	}
	if opts.IgnoreCaseInPath {
		path = strings.ToLower(path)
	}

	var b strings.Builder
	if !opts.IgnoreProtocol {
		b.WriteString(strings.ToLower(u.Scheme))
		b.WriteString("://")
	}
	b.WriteString(host)
	b.WriteString(path)

	if !opts.IgnoreQueryParams && u.RawQuery != "" {
		// Values.Encode serializes keys in sorted order, so ?b=2&a=1
		// and ?a=1&b=2 normalize identically
		if q := u.Query().Encode(); q != "" {
			b.WriteString("?")
			b.WriteString(q)
		}
	}

	return b.String()
}

// Hostname extracts the lower-cased hostname from a URL.
// Returns false when no hostname can be established, which callers treat
// as "no domain-scoped match possible" rather than an error.
func Hostname(raw string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return "", false
	}
	return strings.ToLower(u.Hostname()), true
}

// SameDomain reports whether two hostnames should be considered the same
// site for title matching: exact match, www-stripped match, or - when
// subdomain unification is on - equal registrable domains.
func SameDomain(a, b string, opts Options) bool {
	if a == "" || b == "" {
		return false
	}
	if a == b {
		return true
	}

	sa := strings.TrimPrefix(a, "www.")
	sb := strings.TrimPrefix(b, "www.")
	if sa == sb {
		return true
	}

	if opts.TreatSubdomainsAsSame {
		return registrableDomain(sa) == registrableDomain(sb)
	}

	return false
}

// registrableDomain collapses a hostname to its last two labels.
// Known limitation: without a public-suffix list this mishandles
// multi-label TLDs such as co.uk.
func registrableDomain(host string) string {
	labels := strings.Split(host, ".")
	if len(labels) <= 2 {
		return host
	}
	return strings.Join(labels[len(labels)-2:], ".")
}
