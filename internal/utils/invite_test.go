package utils

import (
	"strings"
	"testing"
)

func TestValidInviteLink(t *testing.T) {
	valid := []string{
		"https://discord.gg/example",
		"discord.gg/example",
		"https://discord.com/invite/example",
		"https://DISCORD.GG/Example",
	}
	for _, link := range valid {
		if !ValidInviteLink(link) {
			t.Fatalf("expected %q to be valid", link)
		}
	}

	invalid := []string{
		"",
		"https://example.com/discord.gg/fake",
		"https://discord.com/channels/123/456",
		"https://discord.gg/",
		"not a url at all %%%",
	}
	for _, link := range invalid {
		if ValidInviteLink(link) {
			t.Fatalf("expected %q to be invalid", link)
		}
	}
}

func TestNormalizeInviteURLPunycode(t *testing.T) {
	normalized, err := NormalizeInviteURL("https://dïscord.gg/example")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if !strings.Contains(normalized, "xn--") || strings.Contains(normalized, "ï") {
		t.Fatalf("expected punycoded host, got %q", normalized)
	}
}

func TestNormalizeInviteURLAddsScheme(t *testing.T) {
	normalized, err := NormalizeInviteURL("discord.gg/example")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if normalized != "https://discord.gg/example" {
		t.Fatalf("unexpected normalization: %q", normalized)
	}
}
