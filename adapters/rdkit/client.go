// Package rdkit talks to an RDKit sidecar service over HTTP/JSON. The sidecar
// owns all parsing, canonicalization and reaction-template work.
package rdkit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"rxcheck/domain/reaction"
	"rxcheck/ports"

	"github.com/tidwall/gjson"
)

// Client implements ports.ChemistryToolkit and ports.StructureReleaser
type Client struct {
	baseURL    string
	release    bool
	httpClient *http.Client
}

var (
	_ ports.ChemistryToolkit  = (*Client)(nil)
	_ ports.StructureReleaser = (*Client)(nil)
)

// NewClient creates a sidecar client
func NewClient(config Config) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(config.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultConfig().BaseURL
	}
	return &Client{
		baseURL:    baseURL,
		release:    config.Release,
		httpClient: &http.Client{Timeout: config.Timeout},
	}
}

// Parse implements ports.StructureParser. A molecule the toolkit rejects is
// reported through ParseResult; only transport or protocol problems are errors.
func (c *Client) Parse(ctx context.Context, notation string) (ports.ParseResult, error) {
	body, err := c.post(ctx, "/v1/parse", map[string]interface{}{"smiles": notation})
	if err != nil {
		return ports.ParseResult{}, err
	}

	ok := gjson.GetBytes(body, "ok")
	if !ok.Exists() {
		return ports.ParseResult{}, fmt.Errorf("rdkit parse: response missing 'ok' field")
	}
	if !ok.Bool() {
		return ports.ParseResult{OK: false, Message: gjson.GetBytes(body, "error").String()}, nil
	}

	handle := gjson.GetBytes(body, "handle").String()
	if handle == "" {
		return ports.ParseResult{}, fmt.Errorf("rdkit parse: successful response missing handle")
	}
	return ports.ParseResult{
		OK:        true,
		Structure: reaction.Structure{Handle: handle},
		Canonical: gjson.GetBytes(body, "canonical").String(),
	}, nil
}

// Canonicalize implements ports.Canonicalizer
func (c *Client) Canonicalize(ctx context.Context, s reaction.Structure) (string, error) {
	body, err := c.post(ctx, "/v1/canonicalize", map[string]interface{}{"handle": s.Handle})
	if err != nil {
		return "", err
	}
	smiles := gjson.GetBytes(body, "smiles")
	if !smiles.Exists() {
		return "", fmt.Errorf("rdkit canonicalize: response missing 'smiles' field")
	}
	return smiles.String(), nil
}

// RunReactants implements ports.ReactionEngine
func (c *Client) RunReactants(ctx context.Context, template string, reactants []reaction.Structure) ([][]reaction.Structure, error) {
	handles := make([]string, len(reactants))
	for i, r := range reactants {
		handles[i] = r.Handle
	}

	body, err := c.post(ctx, "/v1/run_reactants", map[string]interface{}{
		"template":  template,
		"reactants": handles,
	})
	if err != nil {
		return nil, err
	}

	products := gjson.GetBytes(body, "products")
	if !products.Exists() {
		return nil, fmt.Errorf("rdkit run_reactants: response missing 'products' field")
	}

	var out [][]reaction.Structure
	for _, set := range products.Array() {
		var tuple []reaction.Structure
		for _, h := range set.Array() {
			tuple = append(tuple, reaction.Structure{Handle: h.String()})
		}
		out = append(out, tuple)
	}
	log.Printf("[RDKitClient] Template %s produced %d candidate set(s)", template, len(out))
	return out, nil
}

// Release implements ports.StructureReleaser
func (c *Client) Release(ctx context.Context, structures ...reaction.Structure) error {
	if !c.release || len(structures) == 0 {
		return nil
	}
	handles := make([]string, len(structures))
	for i, s := range structures {
		handles[i] = s.Handle
	}
	_, err := c.post(ctx, "/v1/release", map[string]interface{}{"handles": handles})
	return err
}

func (c *Client) post(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rdkit request %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("rdkit http %d on %s: %s", resp.StatusCode, path, strings.TrimSpace(string(body)))
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("rdkit %s: invalid JSON response", path)
	}
	return body, nil
}
