package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"confronto-service/internal/confronto/model"
)

// Client talks to the upstream gestionale that owns commesse and imports.
type Client struct {
	base string
	hc   *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		hc:   &http.Client{Timeout: timeout},
	}
}

// FetchConfronto retrieves the raw comparison payload for one commessa.
func (c *Client) FetchConfronto(ctx context.Context, commessaID string) (model.ConfrontoPayload, error) {
	var p model.ConfrontoPayload

	u := fmt.Sprintf("%s/commesse/%s/confronto", c.base, url.PathEscape(commessaID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return p, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return p, fmt.Errorf("backend: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return p, fmt.Errorf("backend: %s returned %d: %s", u, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return p, fmt.Errorf("backend: decode confronto: %w", err)
	}
	return p, nil
}
