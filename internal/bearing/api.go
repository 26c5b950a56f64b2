// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package bearing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultAPIHost serves the daily prayer times including qibla_direction.
const DefaultAPIHost = "http://muslimsalat.com"

const endpointDaily = "daily.json"

var (
	// ErrMissingField means a required key was absent or null.
	ErrMissingField = errors.New("missing required field")
	// ErrInvalidField means a required key could not be read as a number.
	ErrInvalidField = errors.New("invalid numeric field")
	// ErrStatus is returned for non-2xx responses.
	ErrStatus = errors.New("unexpected HTTP status")
)

// APIClient fetches the bearing with a single GET; it never retries.
type APIClient struct {
	Host     string // defaults to DefaultAPIHost
	Location string // optional path segment, e.g. "london"; empty uses the caller's IP
	APIKey   string
	HTTP     *http.Client
}

func (c *APIClient) endpoint() (string, error) {
	host := c.Host
	if host == "" {
		host = DefaultAPIHost
	}
	u, err := url.Parse(strings.TrimRight(host, "/"))
	if err != nil {
		return "", fmt.Errorf("parse api host %q: %w", host, err)
	}
	if c.Location != "" {
		u = u.JoinPath(c.Location, endpointDaily)
	} else {
		u = u.JoinPath(endpointDaily)
	}
	q := u.Query()
	q.Set("key", c.APIKey)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (c *APIClient) Bearing(ctx context.Context) (Result, error) {
	endpoint, err := c.endpoint()
	if err != nil {
		return Result{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Result{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	client := c.HTTP
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("bearing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Result{}, fmt.Errorf("%w: %s", ErrStatus, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Result{}, fmt.Errorf("read bearing response: %w", err)
	}
	return ParseResult(body)
}

// ParseResult decodes the API payload. latitude, longitude and
// qibla_direction are required and arrive as numeric strings; plain JSON
// numbers are accepted too.
func ParseResult(body []byte) (Result, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return Result{}, fmt.Errorf("decode bearing response: %w", err)
	}

	var res Result
	var err error
	if res.Latitude, err = requiredNumber(fields, "latitude"); err != nil {
		return Result{}, err
	}
	if res.Longitude, err = requiredNumber(fields, "longitude"); err != nil {
		return Result{}, err
	}
	if res.Degrees, err = requiredNumber(fields, "qibla_direction"); err != nil {
		return Result{}, err
	}
	res.State = optionalString(fields, "state")
	res.Country = optionalString(fields, "country")
	res.CountryCode = optionalString(fields, "country_code")
	return res, nil
}

func requiredNumber(fields map[string]json.RawMessage, key string) (float64, error) {
	raw, ok := fields[key]
	if !ok || string(raw) == "null" {
		return 0, fmt.Errorf("%w: %s", ErrMissingField, key)
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %s=%q", ErrInvalidField, key, s)
		}
		return v, nil
	}

	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, fmt.Errorf("%w: %s=%s", ErrInvalidField, key, raw)
	}
	return v, nil
}

func optionalString(fields map[string]json.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}
