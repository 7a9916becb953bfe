// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package deploy

import (
	"context"

	"github.com/AleutianAI/stackreg/services/registry/datatypes"
)

// PlacementPolicy supplies the deployment-fixed parameters that are not
// sourced from any entity: workload brand/type, resource sizing, network
// and placement target.
//
// Injected into the Deployer so a real policy/placement engine can replace
// the fixed defaults without touching the pipeline.
type PlacementPolicy interface {
	// WorkloadDefaults returns the fixed parameters attached to the merged
	// parameter set before provisioning. Applied after assembly; collisions
	// with user-supplied keys resolve in the policy's favor.
	WorkloadDefaults(ctx context.Context, inst *datatypes.Instance) datatypes.Params
}

// FixedPolicy returns the same defaults for every workload.
type FixedPolicy struct {
	Defaults datatypes.Params
}

// WorkloadDefaults implements PlacementPolicy.
func (p *FixedPolicy) WorkloadDefaults(_ context.Context, _ *datatypes.Instance) datatypes.Params {
	return p.Defaults.Clone()
}

// DefaultPolicy returns today's fixed sizing, network and placement values.
// These are acknowledged stand-ins for a policy engine that does not yet
// exist; they live behind the PlacementPolicy interface so replacing them
// is a constructor argument, not a code change.
func DefaultPolicy() *FixedPolicy {
	return &FixedPolicy{
		Defaults: datatypes.Params{
			"brand":            "standard",
			"cpu_cores":        "1",
			"memory_mb":        "512",
			"disk_gb":          "10",
			"network":          "default",
			"placement_target": "auto",
		},
	}
}

var _ PlacementPolicy = (*FixedPolicy)(nil)
