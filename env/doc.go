// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package env abstracts environment variable access so that configuration and
logging can be tested without touching the process environment.

	reader := &env.OSReader{}
	url, key := env.First(reader, "SKILLSCOUT_ALERT_WEBHOOK_URL", "FALLBACK_ALERT_WEBHOOK_URL")

Tests substitute the generated mock from the mocks sub-package:

	ctrl := gomock.NewController(t)
	mock := mocks.NewMockReader(ctrl)
	mock.EXPECT().Getenv("UNSTRUCTURED_LOGS").Return("false")
*/
package env
