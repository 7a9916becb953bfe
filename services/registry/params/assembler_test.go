// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// Tests for parameter assembly precedence and derived-field authority.

package params

import (
	"testing"

	"github.com/AleutianAI/stackreg/services/registry/datatypes"
	"github.com/stretchr/testify/assert"
)

func chain() (*datatypes.Application, *datatypes.Service, *datatypes.Instance) {
	app := &datatypes.Application{
		UUID:      "app-1",
		Name:      "app1",
		OwnerUUID: "owner-1",
	}
	svc := &datatypes.Service{
		UUID:            "svc-1",
		Name:            "svc1",
		ApplicationUUID: "app-1",
		ImageUUID:       "image-1",
	}
	inst := &datatypes.Instance{
		UUID:        "inst-1",
		Name:        "inst1",
		ServiceUUID: "svc-1",
	}
	return app, svc, inst
}

// TestAssemble_Precedence checks the left-to-right merge: instance beats
// service beats application on key collision.
func TestAssemble_Precedence(t *testing.T) {
	app, svc, inst := chain()
	app.Params = datatypes.Params{"a": "1", "b": "1"}
	svc.Params = datatypes.Params{"b": "2", "c": "2"}
	inst.Params = datatypes.Params{"c": "3", "d": "3"}

	merged := Assemble(app, svc, inst)

	assert.Equal(t, "1", merged["a"])
	assert.Equal(t, "2", merged["b"])
	assert.Equal(t, "3", merged["c"])
	assert.Equal(t, "3", merged["d"])
}

// TestAssemble_DerivedFieldsAreAuthoritative checks that user-supplied
// values for the derived keys are always overwritten from the chain, at
// every layer.
func TestAssemble_DerivedFieldsAreAuthoritative(t *testing.T) {
	app, svc, inst := chain()
	app.Params = datatypes.Params{KeyOwnerUUID: "spoofed", KeyUUID: "spoofed"}
	svc.Params = datatypes.Params{KeyImageUUID: "spoofed"}
	inst.Params = datatypes.Params{KeyOwnerUUID: "spoofed", KeyImageUUID: "spoofed", KeyUUID: "spoofed"}

	merged := Assemble(app, svc, inst)

	assert.Equal(t, "owner-1", merged[KeyOwnerUUID])
	assert.Equal(t, "image-1", merged[KeyImageUUID])
	assert.Equal(t, "inst-1", merged[KeyUUID])
}

func TestAssemble_EmptyParamsAtEveryLevel(t *testing.T) {
	app, svc, inst := chain()

	merged := Assemble(app, svc, inst)

	assert.Equal(t, datatypes.Params{
		KeyOwnerUUID: "owner-1",
		KeyImageUUID: "image-1",
		KeyUUID:      "inst-1",
	}, merged)
}

// TestAssemble_DoesNotMutateInputs verifies the source maps stay untouched.
func TestAssemble_DoesNotMutateInputs(t *testing.T) {
	app, svc, inst := chain()
	app.Params = datatypes.Params{"a": "1"}

	_ = Assemble(app, svc, inst)

	assert.Equal(t, datatypes.Params{"a": "1"}, app.Params)
	assert.Nil(t, svc.Params)
	assert.Nil(t, inst.Params)
}
