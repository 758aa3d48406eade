package utils

import (
	"net/url"
	"strings"

	"golang.org/x/net/idna"
)

// NormalizeInviteURL lowercases and punycodes the host of an invite
// link so lookalike unicode domains compare equal to their ASCII form.
// A missing scheme is assumed to be https.
func NormalizeInviteURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	host := strings.ToLower(parsed.Hostname())
	if asciiHost, err := idna.ToASCII(host); err == nil {
		host = asciiHost
	}
	parsed.Host = host
	parsed.Fragment = ""
	parsed.User = nil

	return parsed.String(), nil
}

// ValidInviteLink reports whether link points at a Discord server
// invite: discord.gg/<code> or discord.com/invite/<code>.
func ValidInviteLink(link string) bool {
	normalized, err := NormalizeInviteURL(link)
	if err != nil {
		return false
	}
	parsed, err := url.Parse(normalized)
	if err != nil {
		return false
	}

	code := ""
	switch parsed.Hostname() {
	case "discord.gg":
		code = strings.Trim(parsed.Path, "/")
	case "discord.com", "www.discord.com":
		path := strings.Trim(parsed.Path, "/")
		if rest, ok := strings.CutPrefix(path, "invite/"); ok {
			code = rest
		}
	}
	return code != "" && !strings.Contains(code, "/")
}
