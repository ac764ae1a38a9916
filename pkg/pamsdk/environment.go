package pamsdk

import (
	"fmt"
	"net/url"
	"strings"
)

// Well-known environment names. Any other name is accepted as a custom target.
const (
	EnvStaging    = "staging"
	EnvProduction = "production"
	EnvLocal      = "local"
)

// Environment selects the PAM deployment a Client talks to.
type Environment struct {
	Name    string
	BaseURL string
}

// NewEnvironment validates baseURL and returns the environment with any
// trailing slash removed.
func NewEnvironment(name, baseURL string) (Environment, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return Environment{}, fmt.Errorf("invalid base url for %q: %w", name, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Environment{}, fmt.Errorf("invalid base url for %q: scheme must be http or https", name)
	}
	if u.Host == "" {
		return Environment{}, fmt.Errorf("invalid base url for %q: missing host", name)
	}

	return Environment{
		Name:    name,
		BaseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// IsProduction reports whether the environment is the production deployment.
func (e Environment) IsProduction() bool {
	return e.Name == EnvProduction
}

func (e Environment) String() string {
	return fmt.Sprintf("%s (%s)", e.Name, e.BaseURL)
}
