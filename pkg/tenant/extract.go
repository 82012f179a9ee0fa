package tenant

import (
	"net"
	"strings"
)

// ExtractSubdomain parses a raw Host header value into a tenant label.
// The port is stripped and the host lowercased; IP literals and hosts with
// fewer than three labels (bare domain.tld) yield no subdomain. Malformed
// input is not an error, it simply yields "".
func ExtractSubdomain(host string) string {
	if host == "" {
		return ""
	}

	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.ToLower(strings.TrimSuffix(strings.TrimPrefix(host, "["), "]"))

	if net.ParseIP(host) != nil {
		return ""
	}

	var labels []string
	for _, l := range strings.Split(host, ".") {
		if l != "" {
			labels = append(labels, l)
		}
	}
	if len(labels) < 3 {
		return ""
	}
	return labels[0]
}
