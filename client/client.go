package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/fanlane/backstage"
)

const (
	defaultTimeout = 3 * time.Second
	contextTTL     = 30 * time.Second
)

// Client is used by peer frontends to hand off context and check
// entitlements. Resolved contexts are cached briefly so repeated renders
// within one navigation do not re-resolve.
type Client struct {
	client   *http.Client
	cache    *cache.Cache
	endpoint string
}

func New(endpoint string) *Client {
	return &Client{
		client:   &http.Client{Timeout: defaultTimeout},
		cache:    cache.New(contextTTL, time.Minute),
		endpoint: endpoint,
	}
}

// Decision mirrors the evaluator's answer on the wire.
type Decision struct {
	Granted      bool    `json:"granted"`
	Reason       string  `json:"reason,omitempty"`
	Message      string  `json:"message,omitempty"`
	RequiredTier int     `json:"requiredTier,omitempty"`
	Purchase     *struct {
		Price float64 `json:"price"`
	} `json:"purchase,omitempty"`
}

func (c *Client) post(ctx context.Context, sessionID, path string, body, response any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req.Header.Set("x-backstage-session", sessionID)
	}

	res, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}

	if res.StatusCode != http.StatusOK {
		var failure struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(raw, &failure); err == nil && failure.Error != "" {
			return fmt.Errorf("backstage: %s", failure.Error)
		}
		return fmt.Errorf("backstage: unexpected status %d", res.StatusCode)
	}

	if response == nil {
		return nil
	}
	return json.Unmarshal(raw, response)
}

// ResolveContext hands off a context fragment and returns the resolved
// context for the session.
func (c *Client) ResolveContext(ctx context.Context, sessionID string, handoff backstage.HandoffPayload) (backstage.Context, error) {
	var resolved backstage.Context
	err := c.post(ctx, sessionID, "/api/v1/context/resolve", handoff, &resolved)
	if err != nil {
		return backstage.Context{}, err
	}

	c.cache.Set("context:"+sessionID, resolved, cache.DefaultExpiration)
	return resolved, nil
}

// CurrentContext returns the cached resolved context for the session,
// falling back to the service.
func (c *Client) CurrentContext(ctx context.Context, sessionID string) (backstage.Context, error) {
	if cached, ok := c.cache.Get("context:" + sessionID); ok {
		if resolved, ok := cached.(backstage.Context); ok {
			return resolved, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/api/v1/context", nil)
	if err != nil {
		return backstage.Context{}, err
	}
	req.Header.Set("x-backstage-session", sessionID)

	res, err := c.client.Do(req)
	if err != nil {
		return backstage.Context{}, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return backstage.Context{}, fmt.Errorf("backstage: unexpected status %d", res.StatusCode)
	}

	var resolved backstage.Context
	if err := json.NewDecoder(res.Body).Decode(&resolved); err != nil {
		return backstage.Context{}, err
	}

	c.cache.Set("context:"+sessionID, resolved, cache.DefaultExpiration)
	return resolved, nil
}

// Evaluate asks whether the actor may access the content item. Decisions
// are never cached; revocation must take effect immediately.
func (c *Client) Evaluate(ctx context.Context, sessionID, actorID, contentID, artistID string) (Decision, error) {
	var decision Decision
	err := c.post(ctx, sessionID, "/api/v1/entitlement/evaluate", map[string]string{
		"actorId":   actorID,
		"contentId": contentID,
		"artistId":  artistID,
	}, &decision)
	return decision, err
}
