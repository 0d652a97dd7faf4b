// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package discovery

import (
	"errors"
	"net/http"

	"github.com/stacklok/skillscout/httperr"
)

// filterError marks a failure to evaluate the request filter. It is the
// caller's fault and must not trigger the fallback.
type filterError struct {
	err error
}

func (e *filterError) Error() string {
	return e.err.Error()
}

func (e *filterError) Unwrap() error {
	return httperr.WithCode(e.err, http.StatusBadRequest)
}

func isFilterError(err error) bool {
	var fe *filterError
	return errors.As(err, &fe)
}
