package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
)

var profileValidator = validator.New()

func validateProfile(p Profile) error {
	err := profileValidator.Struct(p)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		switch fe.Tag() {
		case "required":
			return fmt.Errorf("profile %s is required", strings.ToLower(fe.Field()))
		case "url":
			return fmt.Errorf("profile base URL %q is not a valid URL", p.BaseURL)
		}
	}
	return fmt.Errorf("invalid profile: %w", err)
}

// Overrides are values given on the command line. Empty fields do not override.
type Overrides struct {
	Profile        string
	BaseURL        string
	BackofficePath string
	Culture        string
	Segment        string
}

// ClientConfig contains resolved API client settings.
type ClientConfig struct {
	ProfileName    string
	BaseURL        string
	BackofficePath string
	Username       string
	Password       string
	Culture        string
	Segment        string
}

// HasCredentials reports whether a login can be attempted without prompting.
func (c ClientConfig) HasCredentials() bool {
	return c.Username != "" && c.Password != ""
}

// ResolveClientConfig merges, lowest to highest precedence: the stored profile,
// BO_* environment variables and command-line overrides.
//
// A missing profile is not an error when the environment supplies BO_BASE_URL.
func ResolveClientConfig(o Overrides) (ClientConfig, error) {
	name := firstNonBlank(o.Profile, os.Getenv("BO_PROFILE"))
	if name == "" {
		current, err := CurrentProfile()
		if err != nil {
			return ClientConfig{}, err
		}
		name = current
	}

	cfg := ClientConfig{ProfileName: name}
	p, err := LoadProfile(name)
	switch {
	case err == nil:
		cfg.BaseURL = p.BaseURL
		cfg.BackofficePath = p.BackofficePath
		cfg.Username = p.Username
		cfg.Password = p.Password
		cfg.Culture = p.Culture
		cfg.Segment = p.Segment
	case errors.Is(err, ErrNotConfigured):
	default:
		return ClientConfig{}, err
	}

	cfg.BaseURL = firstNonBlank(o.BaseURL, os.Getenv("BO_BASE_URL"), cfg.BaseURL)
	cfg.BackofficePath = firstNonBlank(o.BackofficePath, os.Getenv("BO_BACKOFFICE_PATH"), cfg.BackofficePath)
	cfg.Username = firstNonBlank(os.Getenv("BO_USERNAME"), cfg.Username)
	if pw, ok := os.LookupEnv("BO_PASSWORD"); ok && pw != "" {
		cfg.Password = pw
	}
	cfg.Culture = firstNonBlank(o.Culture, os.Getenv("BO_CULTURE"), cfg.Culture)
	cfg.Segment = firstNonBlank(o.Segment, cfg.Segment)
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")

	if cfg.BaseURL == "" {
		return ClientConfig{}, ErrNotConfigured
	}
	return cfg, nil
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
