package config

import (
	"os"
	"strings"
)

// Environment is the deployment the process runs in
type Environment string

const (
	Development Environment = "development"
	Test        Environment = "test"
	CI          Environment = "ci"
	Production  Environment = "production"
)

// GetEnvironment reads the environment from CI and ENV. CI=true wins; an
// unknown or empty ENV means development.
func GetEnvironment() Environment {
	if os.Getenv("CI") == "true" {
		return CI
	}
	env, ok := ParseEnvironment(os.Getenv("ENV"))
	if !ok {
		return Development
	}
	return env
}

// ParseEnvironment maps a name such as "production" to its Environment
func ParseEnvironment(name string) (Environment, bool) {
	switch env := Environment(strings.ToLower(strings.TrimSpace(name))); env {
	case Development, Test, CI, Production:
		return env, true
	}
	return "", false
}

// RequiresSecrets reports whether every credential must be supplied
// explicitly rather than defaulted.
func (e Environment) RequiresSecrets() bool {
	return e == CI || e == Production
}

// SecureCookies reports whether auth cookies carry the Secure flag
func (e Environment) SecureCookies() bool {
	return e == Production
}

func (e Environment) String() string {
	return string(e)
}
