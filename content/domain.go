package content

import (
	nurl "net/url"
	"strings"
)

// HasRootDomain reports whether rawURL's host is root or a subdomain of it.
// For example http://a.b.c/foo has the root domain b.c.
func HasRootDomain(rawURL string, root string) bool {
	if rawURL == "" || root == "" {
		return false
	}

	if strings.HasPrefix(rawURL, "//") {
		rawURL = "http:" + rawURL
	}

	u, err := nurl.ParseRequestURI(rawURL)
	if err != nil {
		return false
	}

	host := u.Hostname()
	return host == root || strings.HasSuffix(host, "."+root)
}
