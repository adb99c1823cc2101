package credentials

import (
	"errors"
	"fmt"
	"os"
	"strings"

	apperrors "github.com/agentprobe/agentprobe/internal/errors"
)

// Environment variables consumed for credential resolution.
const (
	EnvProjectUUID = "WENI_PROJECT_UUID"
	EnvBearerToken = "WENI_BEARER_TOKEN"
)

// Cache is the weni-cli credential cache as seen by the resolver: an opaque
// lookup collaborator. Lookups must be cheap but are still only performed
// when no higher-priority source supplied the value.
type Cache interface {
	Token() string
	ProjectUUID() string
}

// Credentials holds the two secrets needed to authenticate against the platform.
type Credentials struct {
	ProjectUUID string
	BearerToken string
}

// Resolve fills each secret independently with priority
// explicit parameter > environment variable > weni-cli cache.
// The chain is short-circuited, so the cache is consulted at most once per
// secret and only when both higher-priority sources are absent. When a secret
// is still missing after all three sources, the returned error names every
// missing field and how to supply it.
func Resolve(explicit Credentials, cache Cache) (Credentials, error) {
	resolved := Credentials{
		ProjectUUID: firstOf(
			func() string { return explicit.ProjectUUID },
			func() string { return os.Getenv(EnvProjectUUID) },
			cache.ProjectUUID,
		),
		BearerToken: firstOf(
			func() string { return explicit.BearerToken },
			func() string { return os.Getenv(EnvBearerToken) },
			cache.Token,
		),
	}

	var missing []error
	if resolved.ProjectUUID == "" {
		missing = append(missing, missingField("weni_project_uuid", EnvProjectUUID, "select a project with `weni project use`"))
	}
	if resolved.BearerToken == "" {
		missing = append(missing, missingField("weni_bearer_token", EnvBearerToken, "authenticate with `weni login`"))
	}
	if len(missing) > 0 {
		return Credentials{}, errors.Join(missing...)
	}
	return resolved, nil
}

func missingField(field, envVar, remediation string) error {
	return apperrors.Configuration(fmt.Sprintf(
		"%s is not set: pass it explicitly, set %s, or %s so the weni-cli cache (~/.weni_cli) holds it",
		field, envVar, remediation,
	))
}

// firstOf evaluates sources lazily and returns the first non-blank value.
func firstOf(sources ...func() string) string {
	for _, source := range sources {
		if value := strings.TrimSpace(source()); value != "" {
			return value
		}
	}
	return ""
}
