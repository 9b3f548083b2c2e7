// Copyright 2025 b2gate Authors
// SPDX-License-Identifier: Apache-2.0

package b2

import "fmt"

// AuthError indicates missing credentials or a rejected handshake.
// There is no retry; an AuthError fails the whole request.
type AuthError struct {
	Reason     string
	StatusCode int
}

func (e *AuthError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("b2 authorization failed (status %d): %s", e.StatusCode, e.Reason)
	}
	return "b2 authorization failed: " + e.Reason
}

// UpstreamError is a non-2xx response from any post-handshake upstream call.
type UpstreamError struct {
	Op         string
	StatusCode int
	Code       string
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("b2 %s failed (status %d, %s): %s", e.Op, e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("b2 %s failed (status %d)", e.Op, e.StatusCode)
}
