// Package oracle implements the card metadata oracle HTTP client (§6): a
// read-only lookup service for card records and set listings, rate
// limited to the pacing the oracle's terms of service require.
package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// minInterval is the inter-request pacing floor (§6: "clients respect a
// >=75ms inter-request pacing").
const minInterval = 75 * time.Millisecond

// Card is one card record as the oracle returns it.
type Card struct {
	ID             string            `json:"id"`
	OracleID       string            `json:"oracle_id"`
	Name           string            `json:"name"`
	ManaCost       string            `json:"mana_cost,omitempty"`
	TypeLine       string            `json:"type_line"`
	OracleText     string            `json:"oracle_text,omitempty"`
	Colors         []string          `json:"colors,omitempty"`
	Power          string            `json:"power,omitempty"`
	Toughness      string            `json:"toughness,omitempty"`
	Loyalty        string            `json:"loyalty,omitempty"`
	ImageURIs      map[string]string `json:"image_uris,omitempty"`
	SetCode        string            `json:"set_code"`
	Rarity         string            `json:"rarity,omitempty"`
	Layout         string            `json:"layout,omitempty"`
	CardFaces      []CardFace        `json:"card_faces,omitempty"`
	ProducedMana   []string          `json:"produced_mana,omitempty"`
	Keywords       []string          `json:"keywords,omitempty"`
	Legalities     map[string]string `json:"legalities,omitempty"`
}

// CardFace is one face of a double-faced or split card.
type CardFace struct {
	Name       string            `json:"name"`
	ManaCost   string            `json:"mana_cost,omitempty"`
	TypeLine   string            `json:"type_line,omitempty"`
	OracleText string            `json:"oracle_text,omitempty"`
	Power      string            `json:"power,omitempty"`
	Toughness  string            `json:"toughness,omitempty"`
	ImageURIs  map[string]string `json:"image_uris,omitempty"`
}

// Identifier selects one card in a /cards/collection request: either a
// direct id or a name lookup.
type Identifier struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// Set is one release-tagged set entry from GET /sets.
type Set struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	ReleaseDate string `json:"released_at,omitempty"`
}

// Client is the oracle HTTP client: a base URL plus a limiter pacing
// every outbound request so a deck-import burst never exceeds the
// oracle's rate budget.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient builds an oracle client against baseURL (e.g.
// "https://api.scryfall.com"), pacing requests at minInterval.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    rate.NewLimiter(rate.Every(minInterval), 1),
	}
}

type collectionRequest struct {
	Identifiers []Identifier `json:"identifiers"`
}

type collectionResponse struct {
	Data    []Card       `json:"data"`
	NotFound []Identifier `json:"not_found,omitempty"`
}

// Collection implements POST /cards/collection: batched card lookup by id
// or name, returning the resolved records and the identifiers that
// matched nothing.
func (c *Client) Collection(ctx context.Context, ids []Identifier) ([]Card, []Identifier, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, nil, err
	}

	body, err := json.Marshal(collectionRequest{Identifiers: ids})
	if err != nil {
		return nil, nil, fmt.Errorf("oracle: encode collection request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/cards/collection", bytes.NewReader(body))
	if err != nil {
		return nil, nil, fmt.Errorf("oracle: build collection request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("oracle: collection request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("oracle: collection request returned %s", resp.Status)
	}

	var out collectionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, nil, fmt.Errorf("oracle: decode collection response: %w", err)
	}
	return out.Data, out.NotFound, nil
}

// Sets implements GET /sets.
func (c *Client) Sets(ctx context.Context) ([]Set, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/sets", nil)
	if err != nil {
		return nil, fmt.Errorf("oracle: build sets request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("oracle: sets request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("oracle: sets request returned %s", resp.Status)
	}

	var out struct {
		Data []Set `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("oracle: decode sets response: %w", err)
	}
	return out.Data, nil
}
