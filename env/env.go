// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package env

//go:generate mockgen -copyright_file=../.github/license-header.txt -source=env.go -destination=mocks/mock_reader.go -package=mocks Reader

import (
	"os"
	"strconv"
	"strings"
)

// Reader defines an interface for environment variable access
type Reader interface {
	Getenv(key string) string
}

// OSReader implements Reader using the standard os package
type OSReader struct{}

// Getenv returns the value of the environment variable named by the key
func (*OSReader) Getenv(key string) string {
	return os.Getenv(key)
}

// First returns the first non-blank value among keys, trimmed, and the key
// it came from. Both are empty if no key is set.
func First(r Reader, keys ...string) (value, key string) {
	for _, k := range keys {
		if v := strings.TrimSpace(r.Getenv(k)); v != "" {
			return v, k
		}
	}
	return "", ""
}

// Bool parses key as a boolean. ok is false when the variable is unset or
// not a valid boolean.
func Bool(r Reader, key string) (value, ok bool) {
	b, err := strconv.ParseBool(strings.TrimSpace(r.Getenv(key)))
	if err != nil {
		return false, false
	}
	return b, true
}
