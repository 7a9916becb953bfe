// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package deploy turns an Instance record into one workload-provisioning
// request.
//
// The pipeline is four named stages run strictly in order:
//
//  1. resolve-service: look up the instance's parent Service
//  2. resolve-application: look up the Service's parent Application
//  3. assemble-parameters: merge the three params layers + derived fields
//  4. provision: attach placement-policy defaults and call the provisioner
//
// The first failing stage aborts the run; the error names the stage and
// wraps the cause. Stages 1–3 only read, so there is nothing to roll back,
// and the pipeline never retries; retry policy belongs to the provisioner
// client deployment.
package deploy

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/AleutianAI/stackreg/services/registry/clients"
	"github.com/AleutianAI/stackreg/services/registry/datatypes"
	"github.com/AleutianAI/stackreg/services/registry/observability"
	"github.com/AleutianAI/stackreg/services/registry/params"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("stackreg.deploy")

// Stage names one step of the deploy pipeline.
type Stage string

const (
	StageResolveService     Stage = "resolve-service"
	StageResolveApplication Stage = "resolve-application"
	StageAssembleParams     Stage = "assemble-parameters"
	StageProvision          Stage = "provision"
)

// StageError reports the first failing stage of a deploy and its cause.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("deploy stage %s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// ServiceResolver is the read-only slice of the Service repository the
// pipeline needs. Satisfied by *repository.Services.
type ServiceResolver interface {
	Get(ctx context.Context, id string) (*datatypes.Service, bool, error)
}

// ApplicationResolver is the read-only slice of the Application repository
// the pipeline needs. Satisfied by *repository.Applications.
type ApplicationResolver interface {
	Get(ctx context.Context, id string) (*datatypes.Application, bool, error)
}

// Deployer runs the deploy pipeline.
//
// # Thread Safety
//
// Safe for concurrent use; all fields are read-only after construction.
type Deployer struct {
	applications ApplicationResolver
	services     ServiceResolver
	provisioner  clients.ProvisionerClient
	policy       PlacementPolicy
}

// New creates a Deployer. A nil policy falls back to DefaultPolicy().
func New(applications ApplicationResolver, services ServiceResolver,
	provisioner clients.ProvisionerClient, policy PlacementPolicy) *Deployer {
	if policy == nil {
		policy = DefaultPolicy()
	}
	return &Deployer{
		applications: applications,
		services:     services,
		provisioner:  provisioner,
		policy:       policy,
	}
}

// Deploy walks the ownership chain upward from inst, assembles the flat
// parameter set and submits one provisioning request.
//
// # Outputs
//
//   - *clients.WorkloadHandle: handle of the created workload
//   - error: *StageError naming the first failing stage and its cause
func (d *Deployer) Deploy(ctx context.Context, inst *datatypes.Instance) (*clients.WorkloadHandle, error) {
	ctx, span := tracer.Start(ctx, "Deployer.Deploy")
	defer span.End()
	span.SetAttributes(attribute.String("instance.uuid", inst.UUID))

	start := time.Now()
	handle, err := d.run(ctx, inst)
	if err != nil {
		var stage Stage
		if sErr, ok := err.(*StageError); ok {
			stage = sErr.Stage
		}
		observability.DefaultMetrics.RecordDeploy(false, string(stage), time.Since(start).Seconds())
		slog.Error("Deploy failed", "instance_uuid", inst.UUID, "error", err)
		return nil, err
	}

	observability.DefaultMetrics.RecordDeploy(true, "", time.Since(start).Seconds())
	slog.Info("Deploy succeeded", "instance_uuid", inst.UUID, "handle_id", handle.ID,
		"duration", time.Since(start).Round(time.Millisecond))
	return handle, nil
}

func (d *Deployer) run(ctx context.Context, inst *datatypes.Instance) (*clients.WorkloadHandle, error) {
	// Stage 1: resolve the parent service.
	svc, found, err := d.services.Get(ctx, inst.ServiceUUID)
	if err != nil {
		return nil, &StageError{Stage: StageResolveService, Err: err}
	}
	if !found {
		return nil, &StageError{
			Stage: StageResolveService,
			Err:   fmt.Errorf("service %q does not exist", inst.ServiceUUID),
		}
	}

	// Stage 2: resolve the owning application.
	app, found, err := d.applications.Get(ctx, svc.ApplicationUUID)
	if err != nil {
		return nil, &StageError{Stage: StageResolveApplication, Err: err}
	}
	if !found {
		return nil, &StageError{
			Stage: StageResolveApplication,
			Err:   fmt.Errorf("application %q does not exist", svc.ApplicationUUID),
		}
	}

	// Stage 3: assemble the flat parameter set.
	merged := params.Assemble(app, svc, inst)

	// Stage 4: attach deployment-fixed fields and provision.
	for k, v := range d.policy.WorkloadDefaults(ctx, inst) {
		merged[k] = v
	}
	handle, err := d.provisioner.CreateWorkload(ctx, merged)
	if err != nil {
		return nil, &StageError{Stage: StageProvision, Err: err}
	}
	return handle, nil
}
