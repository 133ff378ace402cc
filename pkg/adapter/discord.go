package adapter

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

var ErrDiscordAPI = goerr.New("discord API error")

const defaultDiscordAPIBase = "https://discord.com/api/v10"

// Discord is a minimal Discord REST client for application command management
type Discord struct {
	baseURL    string
	httpClient *http.Client
}

// DiscordOption is a functional option for Discord client
type DiscordOption func(*Discord)

// WithDiscordBaseURL overrides the API base URL
func WithDiscordBaseURL(baseURL string) DiscordOption {
	return func(d *Discord) {
		if baseURL != "" {
			d.baseURL = baseURL
		}
	}
}

// WithDiscordHTTPClient sets the HTTP client
func WithDiscordHTTPClient(client *http.Client) DiscordOption {
	return func(d *Discord) {
		d.httpClient = client
	}
}

// NewDiscord creates a new Discord client
func NewDiscord(opts ...DiscordOption) *Discord {
	d := &Discord{
		baseURL:    defaultDiscordAPIBase,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DeregisterCommand deletes a global application command. A command that is already
// gone is treated as deregistered.
func (d *Discord) DeregisterCommand(ctx context.Context, applicationID, commandID, botToken string) error {
	if applicationID == "" || commandID == "" || botToken == "" {
		return goerr.New("application id, command id and bot token are required",
			goerr.V("application_id", applicationID),
			goerr.V("command_id", commandID),
		)
	}

	endpoint := d.baseURL + "/applications/" + url.PathEscape(applicationID) + "/commands/" + url.PathEscape(commandID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return goerr.Wrap(err, "failed to create discord request")
	}
	req.Header.Set("Authorization", "Bot "+botToken)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return goerr.Wrap(err, "failed to call discord API",
			goerr.V("application_id", applicationID),
			goerr.V("command_id", commandID),
		)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNoContent, http.StatusOK, http.StatusNotFound:
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return goerr.Wrap(ErrDiscordAPI, "failed to delete discord command",
		goerr.V("status", resp.StatusCode),
		goerr.V("body", string(body)),
		goerr.V("application_id", applicationID),
		goerr.V("command_id", commandID),
	)
}
