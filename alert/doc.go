// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package alert reports fallback activations. Every activation is logged;
// when a webhook is configured, at most one notification is posted per
// cooldown window and the number of activations suppressed in between is
// carried in the next notification.
package alert
