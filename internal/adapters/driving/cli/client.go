package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

// defaultServerURL matches the default server.addr.
const defaultServerURL = "http://localhost:8088"

var serverURL string

// apiClient calls a running indexd HTTP API.
type apiClient struct {
	base string
	http *http.Client
}

func newAPIClient(base string) *apiClient {
	return &apiClient{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: 30 * time.Second},
	}
}

// apiError is the error body returned by the server.
type apiError struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func (c *apiClient) do(ctx context.Context, method, path string, in, out any) error {
	var body bytes.Buffer
	if in != nil {
		if err := json.NewEncoder(&body).Encode(in); err != nil {
			return eris.Wrap(err, "client: encode request")
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, &body)
	if err != nil {
		return eris.Wrap(err, "client: build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrapf(err, "client: %s %s", method, path)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr apiError
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil || apiErr.Code == "" {
			return eris.Errorf("client: %s %s: %s", method, path, resp.Status)
		}
		return eris.Errorf("%s: %s", apiErr.Code, apiErr.Error)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return eris.Wrap(err, "client: decode response")
	}
	return nil
}

func addServerFlag(cmd *cobra.Command) {
	cmd.Flags().StringVar(&serverURL, "server", defaultServerURL, "indexd server URL")
}
