package repository

import (
	"net/url"
	"regexp"
	"strings"
)

var driveTokenPattern = regexp.MustCompile(`[-\w]{25,}`)

var driveHosts = []string{"drive.google.com", "docs.google.com"}

const driveContentURL = "https://lh3.googleusercontent.com/d/"

// DirectMediaLink turns a Drive share link into an embeddable content URL.
// Anything else is returned as is.
func DirectMediaLink(link string) string {
	clean := strings.TrimSpace(link)
	u, err := url.Parse(clean)
	if err == nil && u.Host == "" {
		// Links pasted into the sheet often lack a scheme.
		u, err = url.Parse("https://" + clean)
	}
	if err != nil || !isDriveHost(u.Hostname()) {
		return link
	}
	token := driveTokenPattern.FindString(u.EscapedPath() + "?" + u.RawQuery)
	if token == "" {
		return link
	}
	return driveContentURL + token
}

func isDriveHost(host string) bool {
	host = strings.ToLower(host)
	for _, h := range driveHosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}
