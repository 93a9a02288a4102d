package endpoint

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Purpose separates the auth backend from the games backend
type Purpose string

const (
	PurposeAuth  Purpose = "auth"
	PurposeGames Purpose = "games"
)

// Environment selects which endpoint table applies
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"
)

// Endpoint names, in development priority order
const (
	NamePrimary           = "primary"
	NameLANAlternate      = "lan-alternate"
	NameEmulatorAlternate = "emulator-alternate"
	NameProduction        = "production"
)

// ErrInvalidEnvironment is returned for an environment other than development/production
var ErrInvalidEnvironment = errors.New("environment must be 'development' or 'production'")

// Descriptor is one candidate base URL the client may contact
type Descriptor struct {
	Name    string  `json:"name"`
	BaseURL string  `json:"base_url"`
	Purpose Purpose `json:"purpose"`
}

// URL joins the base URL and an API path
func (d Descriptor) URL(path string) string {
	if path == "" {
		return d.BaseURL
	}
	return strings.TrimSuffix(d.BaseURL, "/") + "/" + strings.TrimPrefix(path, "/")
}

func (d Descriptor) String() string {
	return fmt.Sprintf("%s(%s)", d.Name, d.BaseURL)
}

// Set holds the candidate base URLs for one purpose
type Set struct {
	Primary           string `mapstructure:"primary"`
	LANAlternate      string `mapstructure:"lan"`
	EmulatorAlternate string `mapstructure:"emulator"`
	Production        string `mapstructure:"production"`
}

// Config is the static endpoint table, fixed for the process lifetime
type Config struct {
	Environment Environment `mapstructure:"environment"`
	Auth        Set         `mapstructure:"auth"`
	Games       Set         `mapstructure:"games"`
}

// DefaultConfig returns the built-in endpoint table for env
func DefaultConfig(env Environment) Config {
	return Config{
		Environment: env,
		Auth: Set{
			Primary:           "http://localhost:5000/api/auth",
			LANAlternate:      "http://192.168.1.100:5000/api/auth",
			EmulatorAlternate: "http://10.0.2.2:5000/api/auth",
			Production:        "https://api.gamehub.vn/api/auth",
		},
		Games: Set{
			Primary:           "http://localhost:5000/api",
			LANAlternate:      "http://192.168.1.100:5000/api",
			EmulatorAlternate: "http://10.0.2.2:5000/api",
			Production:        "https://api.gamehub.vn/api",
		},
	}
}

// List returns the candidate endpoints for purpose in priority order.
// Development yields primary, LAN alternate, emulator alternate (skipping
// unset alternates); production yields exactly one endpoint.
func (c Config) List(purpose Purpose) []Descriptor {
	set := c.set(purpose)

	if c.Environment == EnvProduction {
		return []Descriptor{{Name: NameProduction, BaseURL: set.Production, Purpose: purpose}}
	}

	candidates := []Descriptor{
		{Name: NamePrimary, BaseURL: set.Primary, Purpose: purpose},
		{Name: NameLANAlternate, BaseURL: set.LANAlternate, Purpose: purpose},
		{Name: NameEmulatorAlternate, BaseURL: set.EmulatorAlternate, Purpose: purpose},
	}

	list := make([]Descriptor, 0, len(candidates))
	for _, d := range candidates {
		if d.BaseURL == "" {
			continue
		}
		list = append(list, d)
	}
	return list
}

// Validate checks the environment and every configured base URL
func (c Config) Validate() error {
	if c.Environment != EnvDevelopment && c.Environment != EnvProduction {
		return ErrInvalidEnvironment
	}

	for _, purpose := range []Purpose{PurposeAuth, PurposeGames} {
		set := c.set(purpose)
		if c.Environment == EnvProduction && set.Production == "" {
			return fmt.Errorf("%s: production base URL is required", purpose)
		}
		if c.Environment == EnvDevelopment && set.Primary == "" {
			return fmt.Errorf("%s: primary base URL is required", purpose)
		}
		for _, raw := range []string{set.Primary, set.LANAlternate, set.EmulatorAlternate, set.Production} {
			if raw == "" {
				continue
			}
			if err := validateBaseURL(raw); err != nil {
				return fmt.Errorf("%s: %w", purpose, err)
			}
		}
	}
	return nil
}

func (c Config) set(purpose Purpose) Set {
	if purpose == PurposeAuth {
		return c.Auth
	}
	return c.Games
}

func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid base URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid base URL %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid base URL %q: missing host", raw)
	}
	return nil
}

// ParseEnvironment converts a flag or env value into an Environment
func ParseEnvironment(s string) (Environment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "dev", "development":
		return EnvDevelopment, nil
	case "prod", "production":
		return EnvProduction, nil
	default:
		return "", ErrInvalidEnvironment
	}
}
