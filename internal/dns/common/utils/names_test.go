package utils

import (
	"testing"
)

func TestCanonicalDNSName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "already canonical",
			input:    "example.com",
			expected: "example.com",
		},
		{
			name:     "uppercase",
			input:    "WWW.Example.COM",
			expected: "www.example.com",
		},
		{
			name:     "trailing dot",
			input:    "example.com.",
			expected: "example.com",
		},
		{
			name:     "multiple trailing dots",
			input:    "example.com..",
			expected: "example.com",
		},
		{
			name:     "surrounding whitespace",
			input:    "  example.com  ",
			expected: "example.com",
		},
		{
			name:     "root",
			input:    ".",
			expected: "",
		},
		{
			name:     "empty",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanonicalDNSName(tt.input)
			if got != tt.expected {
				t.Errorf("CanonicalDNSName(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestGetApexDomain(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple domain",
			input:    "example.com",
			expected: "example.com",
		},
		{
			name:     "subdomain",
			input:    "www.example.com",
			expected: "example.com",
		},
		{
			name:     "deep subdomain with trailing dot",
			input:    "api.service.example.com.",
			expected: "example.com",
		},
		{
			name:     "multi-label public suffix",
			input:    "www.example.co.uk",
			expected: "example.co.uk",
		},
		{
			name:     "private registry suffix",
			input:    "subdomain.user.github.io",
			expected: "user.github.io",
		},
		{
			name:     "single label fallback",
			input:    "localhost",
			expected: "localhost",
		},
		{
			name:     "mixed case normalized first",
			input:    "WWW.Example.COM",
			expected: "example.com",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetApexDomain(tt.input)
			if got != tt.expected {
				t.Errorf("GetApexDomain(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
