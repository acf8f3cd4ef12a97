package redis

import (
	"testing"
)

func TestKeyBuilder_Environment_Prefixes(t *testing.T) {
	tests := []struct {
		name           string
		environment    string
		expectedPrefix string
	}{
		{
			name:           "Production environment should use prod prefix",
			environment:    "production",
			expectedPrefix: "prod",
		},
		{
			name:           "Development environment should use staging prefix",
			environment:    "development",
			expectedPrefix: "staging",
		},
		{
			name:           "Staging environment should use staging prefix",
			environment:    "staging",
			expectedPrefix: "staging",
		},
		{
			name:           "Unknown environment should default to prod prefix",
			environment:    "unknown",
			expectedPrefix: "prod",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kb := NewKeyBuilder(tt.environment)
			want := tt.expectedPrefix + ":ratelimit:response:abc"
			if got := kb.KeyResponseRateLimit("abc"); got != want {
				t.Errorf("NewKeyBuilder(%s).KeyResponseRateLimit() = %s, want %s",
					tt.environment, got, want)
			}
		})
	}
}

func TestKeyBuilder_KeyResponseRateLimit(t *testing.T) {
	kb := NewKeyBuilder("production")

	got := kb.KeyResponseRateLimit("0123456789abcdef")
	want := "prod:ratelimit:response:0123456789abcdef"
	if got != want {
		t.Errorf("KeyResponseRateLimit() = %s, want %s", got, want)
	}
}
