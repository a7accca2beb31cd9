package config

import (
	"errors"
	"fmt"
	"strings"
)

// AuthMode represents the authentication mode for the application.
type AuthMode string

const (
	// AuthModeOAuth uses OAuth/OIDC for authentication.
	AuthModeOAuth AuthMode = "oauth"
	// AuthModeMock uses mock/dev authentication (for development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "oauth", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: oauth, mock)", v)
	}
}

// OAuthConfig contains OAuth/OIDC configuration.
type OAuthConfig struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	RedirectURL  string `env:"REDIRECT_URL"  envDefault:"http://localhost:8080/auth/callback"`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email"`
	DiscoveryURL string `env:"DISCOVERY_URL"`
}

// DevAuthConfig controls mock/dev authentication identity.
// Used when AUTH_MODE=mock for development and testing.
type DevAuthConfig struct {
	UserID string `env:"USER_ID" envDefault:"dev-user"`
	Email  string `env:"EMAIL"   envDefault:"dev@campus.test"`
	Name   string `env:"NAME"    envDefault:"Dev User"`
}

// SessionConfig groups session lifetime settings.
type SessionConfig struct {
	// KeyPrefix namespaces session keys and change-event channels in Redis.
	KeyPrefix string `env:"KEY_PREFIX" envDefault:"session:"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which authentication provider to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"oauth"`

	// OAuth configuration (used when Mode=oauth).
	OAuth OAuthConfig `envPrefix:"OAUTH_"`

	// DevAuth configuration (used when Mode=mock).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`

	// Session configuration.
	Session SessionConfig `envPrefix:"SESSION_"`

	// AllowedEmailDomains restricts sign-in to institutional addresses.
	// Empty means any domain is accepted (development only).
	AllowedEmailDomains []string `env:"ALLOWED_EMAIL_DOMAINS" envSeparator:";"`
}

// Sanitize normalizes the allow-list (lowercase, trimmed, no empties).
func (a *AuthConfig) Sanitize() {
	cleaned := a.AllowedEmailDomains[:0]
	for _, d := range a.AllowedEmailDomains {
		d = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(d, "@")))
		if d != "" {
			cleaned = append(cleaned, d)
		}
	}
	a.AllowedEmailDomains = cleaned
	if a.Session.KeyPrefix == "" {
		a.Session.KeyPrefix = "session:"
	}
}

// Validate enforces that the configured mode is fully specified.
// Missing identity-backend settings are a startup error, not a silent no-op.
func (a *AuthConfig) Validate() error {
	if a.Mode != AuthModeOAuth {
		return nil
	}
	var missing []string
	if a.OAuth.DiscoveryURL == "" {
		missing = append(missing, "OAUTH_DISCOVERY_URL")
	}
	if a.OAuth.ClientID == "" {
		missing = append(missing, "OAUTH_CLIENT_ID")
	}
	if a.OAuth.ClientSecret == "" {
		missing = append(missing, "OAUTH_CLIENT_SECRET")
	}
	if len(missing) > 0 {
		return errors.New("auth mode oauth requires " + strings.Join(missing, ", "))
	}
	return nil
}

// PrimaryEmailDomain returns the first allow-listed domain, used as the
// account-chooser hint during sign-in. Empty when no allow-list is set.
func (a *AuthConfig) PrimaryEmailDomain() string {
	if len(a.AllowedEmailDomains) == 0 {
		return ""
	}
	return a.AllowedEmailDomains[0]
}
