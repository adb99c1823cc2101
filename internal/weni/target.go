package weni

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/agentprobe/agentprobe/internal/concurrency"
	"github.com/agentprobe/agentprobe/internal/credentials"
	"github.com/agentprobe/agentprobe/internal/errors"
	"github.com/agentprobe/agentprobe/internal/store"
	"github.com/agentprobe/agentprobe/internal/urn"
)

const (
	// DefaultBaseURL is the hosted Weni platform. Override for self-hosted
	// installs and tests.
	DefaultBaseURL = "https://nexus.weni.ai"

	// DefaultLanguage is the locale sent with prompts when none is configured.
	DefaultLanguage = "en-US"

	// DefaultTimeout bounds how long Invoke waits for the agent's answer.
	DefaultTimeout = 60 * time.Second

	dispatchTimeout = 30 * time.Second
)

// Options configures a Target. Zero values fall back to defaults; missing
// credentials are resolved via environment variables and the weni-cli cache.
type Options struct {
	ProjectUUID string
	BearerToken string
	Language    string
	Timeout     time.Duration
	BaseURL     string

	// Cache overrides the credential cache collaborator, for tests.
	Cache credentials.Cache
	// HTTPClient overrides the dispatch client, for tests.
	HTTPClient *http.Client
}

// Target drives one Weni-hosted agent: each Invoke performs a single
// dispatch+listen cycle and returns exactly one answer or a typed failure.
// The contact URN is fixed at construction, so concurrent Invoke calls on one
// Target would share a correlation key; serialize them externally or build a
// Target per worker.
type Target struct {
	projectUUID string
	language    string
	timeout     time.Duration
	contactURN  string
	apiEndpoint string
	socketURL   string
	dispatcher  *Dispatcher
}

// New resolves credentials, mints the conversation identity, and derives the
// platform endpoints. It fails only when a credential is missing from every
// source or the base URL is unusable.
func New(opts Options) (*Target, error) {
	cache := opts.Cache
	if cache == nil {
		cache = store.New()
	}

	creds, err := credentials.Resolve(credentials.Credentials{
		ProjectUUID: opts.ProjectUUID,
		BearerToken: opts.BearerToken,
	}, cache)
	if err != nil {
		return nil, err
	}

	language := strings.TrimSpace(opts.Language)
	if language == "" {
		language = DefaultLanguage
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	socketURL, err := previewSocketURL(baseURL, creds.ProjectUUID, creds.BearerToken)
	if err != nil {
		return nil, err
	}

	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: dispatchTimeout}
	}

	apiEndpoint := fmt.Sprintf("%s/api/%s/preview/", baseURL, creds.ProjectUUID)

	return &Target{
		projectUUID: creds.ProjectUUID,
		language:    language,
		timeout:     timeout,
		contactURN:  urn.New(),
		apiEndpoint: apiEndpoint,
		socketURL:   socketURL,
		dispatcher: &Dispatcher{
			client:      client,
			endpoint:    apiEndpoint,
			bearerToken: creds.BearerToken,
			projectUUID: creds.ProjectUUID,
			language:    language,
		},
	}, nil
}

// Result is the agent's final answer plus correlation metadata for auditing.
type Result struct {
	Response string
	Data     map[string]string
}

// ContactURN returns the conversation identity, stable for the Target's lifetime.
func (t *Target) ContactURN() string { return t.contactURN }

// APIEndpoint returns the derived prompt dispatch URL.
func (t *Target) APIEndpoint() string { return t.apiEndpoint }

// Language returns the locale sent with every prompt.
func (t *Target) Language() string { return t.language }

// Timeout returns the per-invocation answer deadline.
func (t *Target) Timeout() time.Duration { return t.timeout }

// SendPrompt dispatches a prompt without awaiting the answer. Invoke composes
// it; it is exported for callers that manage their own listening.
func (t *Target) SendPrompt(ctx context.Context, text string) error {
	return t.dispatcher.Send(ctx, t.contactURN, text)
}

// Invoke sends one prompt and blocks until the agent's final answer arrives
// over the preview channel, the channel fails, or the deadline elapses. The
// connection is opened and fully closed within this call.
func (t *Target) Invoke(ctx context.Context, prompt string) (*Result, error) {
	runID := ulid.Make().String()
	log := slog.With("run_id", runID, "contact_urn", t.contactURN)

	out := concurrency.NewOutcome[string]()
	closeConn, err := newListener(t.socketURL).Open(ctx, out)
	if err != nil {
		log.Debug("Preview channel connect failed", "error", err)
		return nil, err
	}
	defer closeConn()

	if err := t.SendPrompt(ctx, prompt); err != nil {
		// Record the dispatch failure before teardown so the receive loop's
		// close error cannot claim the outcome.
		out.Fail(err)
		log.Debug("Prompt dispatch failed", "category", errors.Category(err), "error", err)
		return nil, err
	}
	log.Debug("Prompt dispatched, awaiting answer", "endpoint", t.apiEndpoint, "timeout", t.timeout)

	timer := time.NewTimer(t.timeout)
	defer timer.Stop()

	select {
	case <-out.Done():
	case <-timer.C:
		out.Fail(errors.Timeout(fmt.Sprintf("No response received from the agent within %s", t.timeout)))
	case <-ctx.Done():
		out.Fail(ctx.Err())
	}
	closeConn()

	text, err := out.Result()
	if err != nil {
		log.Debug("Invocation failed", "category", errors.Category(err), "error", err)
		return nil, err
	}

	log.Debug("Answer received", "bytes", len(text))
	return &Result{
		Response: text,
		Data: map[string]string{
			"contact_urn": t.contactURN,
			"language":    t.language,
			"session_id":  t.contactURN,
		},
	}, nil
}

// previewSocketURL derives the real-time channel URL from the HTTP base URL.
func previewSocketURL(baseURL, projectUUID, token string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", errors.Configuration(fmt.Sprintf("invalid base URL %q: %v", baseURL, err))
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	case "http":
		u.Scheme = "ws"
	default:
		return "", errors.Configuration(fmt.Sprintf("base URL %q must use http or https", baseURL))
	}
	u.Path = "/ws/preview/" + projectUUID + "/"
	q := url.Values{}
	q.Set("Token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
