package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ErrMissingStoreCredentials is returned when the datastore is required but
// its URL or access key is not configured.
var ErrMissingStoreCredentials = errors.New("missing store credentials")

// Config carries every environment-sourced setting, read once at startup and
// passed to each component constructor.
type Config struct {
	SourceURL   string
	UserAgent   string
	HTTPTimeout time.Duration

	Collection string
	KeyColumn  string
	StoreURL   string
	StoreKey   string

	MailAPIKey     string
	MailBaseURL    string
	SenderEmail    string
	RecipientEmail string

	SnapshotFile string

	LogLevel  string
	LogFormat string
}

// Load reads configuration from the environment. Recognized variables carry
// the SCHEDWATCH_ prefix; the operational secrets also bind to the flat names
// deployment env files traditionally use (SUPABASE_URL, SUPABASE_KEY,
// SENDGRID_API_KEY, SENDER_EMAIL, RECIPIENT_EMAIL).
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SCHEDWATCH")
	v.AutomaticEnv()

	v.SetDefault("source_url", "")
	v.SetDefault("user_agent", "")
	v.SetDefault("http_timeout", "30s")
	v.SetDefault("collection", "nursing_schedule")
	v.SetDefault("key_column", "")
	v.SetDefault("mail_base_url", "")
	// No default: a snapshot file is an explicit opt-out of the shared store.
	v.SetDefault("snapshot_file", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")

	for key, aliases := range map[string][]string{
		"store_url":       {"SUPABASE_URL"},
		"store_key":       {"SUPABASE_KEY"},
		"mail_api_key":    {"SENDGRID_API_KEY"},
		"sender_email":    {"SENDER_EMAIL"},
		"recipient_email": {"RECIPIENT_EMAIL"},
	} {
		if err := v.BindEnv(append([]string{key}, aliases...)...); err != nil {
			return nil, fmt.Errorf("binding %s: %w", key, err)
		}
	}

	timeout := v.GetDuration("http_timeout")
	if timeout <= 0 {
		return nil, fmt.Errorf("invalid http_timeout: %q", v.GetString("http_timeout"))
	}

	return &Config{
		SourceURL:      v.GetString("source_url"),
		UserAgent:      v.GetString("user_agent"),
		HTTPTimeout:    timeout,
		Collection:     v.GetString("collection"),
		KeyColumn:      v.GetString("key_column"),
		StoreURL:       v.GetString("store_url"),
		StoreKey:       v.GetString("store_key"),
		MailAPIKey:     v.GetString("mail_api_key"),
		MailBaseURL:    v.GetString("mail_base_url"),
		SenderEmail:    v.GetString("sender_email"),
		RecipientEmail: v.GetString("recipient_email"),
		SnapshotFile:   v.GetString("snapshot_file"),
		LogLevel:       v.GetString("log_level"),
		LogFormat:      v.GetString("log_format"),
	}, nil
}

// RequireStoreCredentials returns ErrMissingStoreCredentials naming every
// absent variable, or nil when the datastore is fully configured.
func (c *Config) RequireStoreCredentials() error {
	var missing []string
	if c.StoreURL == "" {
		missing = append(missing, "SUPABASE_URL")
	}
	if c.StoreKey == "" {
		missing = append(missing, "SUPABASE_KEY")
	}
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s not set", ErrMissingStoreCredentials, strings.Join(missing, ", "))
}
