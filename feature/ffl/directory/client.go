package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"ffl-directory/core/utils"
	"ffl-directory/feature/ffl/models"
	"ffl-directory/feature/ffl/normalize"
)

// maxResponseBytes caps how much of an upstream body is read.
const maxResponseBytes = 4 << 20

// APIError is a non-200 answer from the directory API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("directory api returned %d: %s", e.StatusCode, e.Message)
}

// Client queries the external directory API.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
}

// New creates a directory client.
func New(cfg Config) *Client {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 10
	}
	return &Client{
		http:    &http.Client{Timeout: time.Duration(timeout) * time.Second},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
	}
}

// Lookup runs a free-text query against GET {base}/v1/ffl.
// Entries without a valid license number or state are dropped.
func (c *Client) Lookup(ctx context.Context, query, state string, limit int) ([]models.FflRecord, error) {
	params := url.Values{}
	params.Set("q", query)
	if state != "" {
		params.Set("state", state)
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/ffl?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("directory request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read directory response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}

	var payload struct {
		Results []map[string]any `json:"results"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode directory response: %w", err)
	}

	out := make([]models.FflRecord, 0, len(payload.Results))
	for _, m := range payload.Results {
		if rec, ok := toRecord(m); ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

// toRecord maps one loosely shaped upstream entry. The address may be nested or flat.
func toRecord(m map[string]any) (models.FflRecord, bool) {
	license := normalize.CanonicalLicense(utils.FirstString(m, "licenseNumber", "license_number", "license", "ffl"))
	if !normalize.ValidLicense(license) {
		return models.FflRecord{}, false
	}

	addr := m
	if nested, ok := m["address"].(map[string]any); ok {
		addr = nested
	}
	state, ok := normalize.State(utils.FirstString(addr, "state", "premiseState", "premise_state"))
	if !ok {
		return models.FflRecord{}, false
	}

	return models.FflRecord{
		LicenseNumber: license,
		BusinessName:  utils.FirstString(m, "businessName", "business_name", "name", "licenseName", "license_name"),
		TradeName:     utils.FirstString(m, "tradeName", "trade_name", "dba"),
		Address: models.Address{
			Street: utils.FirstString(addr, "street", "premiseStreet", "premise_street", "address1"),
			City:   utils.FirstString(addr, "city", "premiseCity", "premise_city"),
			State:  state,
			Zip:    zipCode(addr),
		},
		Phone:       utils.FirstString(m, "phone", "voicePhone", "voice_phone"),
		LicenseType: utils.FirstString(m, "licenseType", "license_type", "type"),
	}, true
}

var zipKeys = []string{"zip", "zipCode", "zip_code", "postalCode"}

// zipCode reads the ZIP. Some upstreams send it as a JSON number, which drops the
// leading zeros of New England codes; those are padded back to five digits.
func zipCode(addr map[string]any) string {
	for _, k := range zipKeys {
		switch v := addr[k].(type) {
		case float64, int, int64:
			if n := utils.ToInt(v); n > 0 && n <= 99999 {
				return fmt.Sprintf("%05d", n)
			}
		}
	}
	return utils.FirstString(addr, zipKeys...)
}
