// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package params assembles the flat deployment parameter set from the
// three configuration layers of an ownership chain.
package params

import "github.com/AleutianAI/stackreg/services/registry/datatypes"

// Derived parameter keys. These are authoritative: their values come from
// the entity chain and overwrite any user-supplied key of the same name.
const (
	KeyOwnerUUID = "owner_uuid"
	KeyImageUUID = "image_uuid"
	KeyUUID      = "uuid"
)

// Assemble merges the three params maps into one flat parameter set.
//
// # Description
//
// Three shallow-merge passes in fixed precedence order: application params
// first (lowest), then service params, then instance params (highest);
// later layers overwrite on key collision. After merging, the three derived
// fields are unconditionally overwritten from the chain: owner_uuid from
// the application, image_uuid from the service, uuid from the instance's
// own identifier. A nil or empty params map at any level is treated as the
// empty map.
//
// # Inputs
//
//   - app: the owning Application (owner of the chain)
//   - svc: the Instance's parent Service
//   - inst: the Instance being deployed
//
// # Outputs
//
//   - datatypes.Params: everything the provisioner needs to know about the
//     target workload. Never nil.
func Assemble(app *datatypes.Application, svc *datatypes.Service,
	inst *datatypes.Instance) datatypes.Params {

	merged := app.Params.Clone()
	for k, v := range svc.Params {
		merged[k] = v
	}
	for k, v := range inst.Params {
		merged[k] = v
	}

	merged[KeyOwnerUUID] = app.OwnerUUID
	merged[KeyImageUUID] = svc.ImageUUID
	merged[KeyUUID] = inst.UUID

	return merged
}
