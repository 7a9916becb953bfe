// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package datatypes provides the entity records for the stackreg registry.
//
// The registry tracks a strict three-level tree:
//
//	Application 1-N Service 1-N Instance
//
// Each record carries a unique identifier (UUID) as its primary key, the
// references required by its position in the tree, and an optional flat
// string-keyed Params map. Referential integrity on the required references
// is enforced by the repositories at creation time only; see the repository
// package for the exact check order.
//
// # Validation
//
// Records use go-playground/validator tags for required-field checks. Call
// Validate() before persisting; tag failures come back as *ValidationError
// so transport code can distinguish client errors from storage errors.
package datatypes

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// entityValidate is the shared validator instance for entity records.
// Initialized once in init(); validator.Validate is safe for concurrent use.
var entityValidate *validator.Validate

func init() {
	entityValidate = validator.New()
}

// Params is a flat string-keyed configuration map. A nil Params is treated
// everywhere as the empty map.
type Params map[string]string

// Clone returns a shallow copy of p. Returns an empty, non-nil map when p
// is nil so callers can merge into the result without a nil check.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Application is the root of the ownership tree.
//
// # Fields
//
//   - UUID: Primary key. Generated at creation time when the caller
//     supplies none.
//   - Name: Required. Human-readable application name.
//   - OwnerUUID: Required. Must resolve against the directory service at
//     creation time.
//   - Params: Optional. Lowest-precedence configuration layer during
//     parameter assembly.
type Application struct {
	UUID      string `json:"uuid,omitempty"`
	Name      string `json:"name" validate:"required"`
	OwnerUUID string `json:"owner_uuid" validate:"required"`
	Params    Params `json:"params,omitempty"`
}

// Validate checks required fields. Returns *ValidationError on failure.
func (a *Application) Validate() error {
	return translateTagError(entityValidate.Struct(a))
}

// Service belongs to exactly one Application and names the image its
// instances run.
//
// # Fields
//
//   - UUID: Primary key. Generated when absent.
//   - Name: Required.
//   - ApplicationUUID: Required. Must reference an existing Application at
//     creation time.
//   - ImageUUID: Required. Must resolve against the image registry at
//     creation time.
//   - Params: Optional. Middle-precedence configuration layer.
type Service struct {
	UUID            string `json:"uuid,omitempty"`
	Name            string `json:"name" validate:"required"`
	ApplicationUUID string `json:"application_uuid" validate:"required"`
	ImageUUID       string `json:"image_uuid" validate:"required"`
	Params          Params `json:"params,omitempty"`
}

// Validate checks required fields. Returns *ValidationError on failure.
func (s *Service) Validate() error {
	return translateTagError(entityValidate.Struct(s))
}

// Instance is a deployable member of a Service.
//
// # Fields
//
//   - UUID: Primary key. Generated when absent. Also injected into the
//     assembled deployment parameters as the authoritative "uuid" value.
//   - Name: Required.
//   - ServiceUUID: Required. Must reference an existing Service at creation
//     time.
//   - Params: Optional. Highest-precedence configuration layer.
type Instance struct {
	UUID        string `json:"uuid,omitempty"`
	Name        string `json:"name" validate:"required"`
	ServiceUUID string `json:"service_uuid" validate:"required"`
	Params      Params `json:"params,omitempty"`
}

// Validate checks required fields. Returns *ValidationError on failure.
func (i *Instance) Validate() error {
	return translateTagError(entityValidate.Struct(i))
}

// translateTagError converts validator tag failures into *ValidationError,
// reporting the first failing field. Non-tag errors pass through unchanged.
func translateTagError(err error) error {
	if err == nil {
		return nil
	}
	var tagErrs validator.ValidationErrors
	if errors.As(err, &tagErrs) && len(tagErrs) > 0 {
		fe := tagErrs[0]
		return &ValidationError{
			Field:  fe.Field(),
			Reason: "failed '" + fe.Tag() + "' constraint",
		}
	}
	return err
}
