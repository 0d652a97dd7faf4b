// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package http provides validation functions for HTTP header values and the
// outbound URLs skillscout talks to.
package http

import (
	"fmt"
	"net/url"

	"golang.org/x/net/http/httpguts"
)

// maxHeaderValueLength bounds client-supplied header values such as
// forwarding addresses.
const maxHeaderValueLength = 8192

// ValidateHeaderValue validates that a string is a valid HTTP header value per RFC 7230.
// It checks for CRLF injection and control characters.
func ValidateHeaderValue(value string) error {
	if value == "" {
		return fmt.Errorf("header value cannot be empty")
	}

	if len(value) > maxHeaderValueLength {
		return fmt.Errorf("header value exceeds maximum length of %d bytes", maxHeaderValueLength)
	}

	if !httpguts.ValidHeaderFieldValue(value) {
		return fmt.Errorf("invalid HTTP header value: contains control characters")
	}

	return nil
}

// ValidateBaseURL validates the base address of an HTTP API such as the
// upstream catalog. It must be an absolute http(s) URL without query or
// fragment so that endpoint paths can be appended to it.
func ValidateBaseURL(raw string) error {
	parsed, err := parseHTTPURL(raw, "base URL")
	if err != nil {
		return err
	}
	if parsed.RawQuery != "" {
		return fmt.Errorf("base URL must not contain a query: %s", raw)
	}
	return nil
}

// ValidateWebhookURL validates an alert webhook destination. Queries are
// allowed because many webhook providers carry tokens in them.
func ValidateWebhookURL(raw string) error {
	_, err := parseHTTPURL(raw, "webhook URL")
	return err
}

func parseHTTPURL(raw, what string) (*url.URL, error) {
	if raw == "" {
		return nil, fmt.Errorf("%s cannot be empty", what)
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", what, err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("%s must use http or https: %s", what, raw)
	}

	if parsed.Host == "" {
		return nil, fmt.Errorf("%s must include a host: %s", what, raw)
	}

	if parsed.Fragment != "" {
		return nil, fmt.Errorf("%s must not contain fragments (#): %s", what, raw)
	}

	return parsed, nil
}
