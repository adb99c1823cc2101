package weni

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/agentprobe/agentprobe/internal/errors"
)

// Dispatcher issues the HTTP POST that starts an agent turn. A successful
// dispatch produces no payload; the answer arrives over the preview socket.
type Dispatcher struct {
	client      *http.Client
	endpoint    string
	bearerToken string
	projectUUID string
	language    string
}

type promptPayload struct {
	Text       string `json:"text"`
	ContactURN string `json:"contact_urn"`
	Language   string `json:"language"`
}

// Send posts the prompt attributed to contactURN. Any non-2xx status is
// mapped to the error taxonomy with a self-contained operator message.
func (d *Dispatcher) Send(ctx context.Context, contactURN, text string) error {
	body, err := json.Marshal(promptPayload{
		Text:       text,
		ContactURN: contactURN,
		Language:   d.language,
	})
	if err != nil {
		return errors.Wrap(err, "encode prompt payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "build prompt request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+d.bearerToken)

	resp, err := d.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "send prompt")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		slog.Debug("Prompt accepted", "status", resp.StatusCode, "contact_urn", contactURN)
		return nil
	}
	return d.mapStatus(resp)
}

func (d *Dispatcher) mapStatus(resp *http.Response) error {
	status := resp.Status
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return errors.Authentication(fmt.Sprintf(
			"sending prompt was rejected (HTTP %s): the bearer token is invalid or expired; refresh it with `weni login`, or supply a valid one via WENI_BEARER_TOKEN or the weni_bearer_token parameter", status))
	case resp.StatusCode == http.StatusForbidden:
		return errors.Authorization(fmt.Sprintf(
			"sending prompt was forbidden (HTTP %s): the token has no access to project %s; reselect the project with `weni project use`, or correct WENI_PROJECT_UUID / weni_project_uuid", status, d.projectUUID))
	case resp.StatusCode == http.StatusNotFound:
		return errors.NotFound(fmt.Sprintf(
			"sending prompt failed: project %s was not found (HTTP %s); reselect it with `weni project use`, or correct WENI_PROJECT_UUID / weni_project_uuid", d.projectUUID, status))
	case resp.StatusCode >= 500:
		return errors.Upstream(fmt.Sprintf(
			"sending prompt failed (HTTP %s): the Weni platform returned a server error; try again later, and verify the project with `weni project use` if it persists", status))
	default:
		return errors.HTTP(fmt.Sprintf(
			"sending prompt failed (HTTP %s): unexpected response; re-authenticate with `weni login` and reselect the project with `weni project use` (WENI_BEARER_TOKEN / WENI_PROJECT_UUID)", status))
	}
}
