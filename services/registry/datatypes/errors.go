// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package datatypes

import "fmt"

// ValidationError reports a required field that is missing or malformed.
// Always client-caused; never retried.
type ValidationError struct {
	// Field is the struct field that failed validation.
	Field string

	// Reason describes the failed constraint.
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on field %q: %s", e.Field, e.Reason)
}

// ReferentialError reports a required parent or linked entity that does not
// exist, or whose existence could not be confirmed. Treated as client-caused
// even when the underlying cause is a transient lookup failure; see the
// refcheck package for the one place that coercion happens.
type ReferentialError struct {
	// Reference is the field holding the dangling identifier,
	// e.g. "owner_uuid" or "application_uuid".
	Reference string

	// UUID is the identifier that failed to resolve.
	UUID string

	// Err is the underlying lookup error, when one was observed. May be nil
	// for a clean "does not exist".
	Err error
}

func (e *ReferentialError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("referenced %s %q could not be confirmed: %v", e.Reference, e.UUID, e.Err)
	}
	return fmt.Sprintf("referenced %s %q does not exist", e.Reference, e.UUID)
}

func (e *ReferentialError) Unwrap() error { return e.Err }
