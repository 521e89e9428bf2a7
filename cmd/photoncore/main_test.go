package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/df07/go-photoncore/pkg/scene"
)

func TestExitCodeForMapsTypedErrors(t *testing.T) {
	assert.Equal(t, 2, exitCodeFor(&scene.UnsupportedFeatureError{Feature: "material \"conductor\""}))
	assert.Equal(t, 3, exitCodeFor(&scene.SingularTransformError{Statement: "Transform"}))
	assert.Equal(t, 4, exitCodeFor(&scene.AssetMissingError{Path: "missing.ply", Cause: errors.New("not found")}))
	assert.Equal(t, 1, exitCodeFor(errors.New("malformed scene file")))
}

func TestExitCodeForUnwrapsWrappedErrors(t *testing.T) {
	wrapped := errors.Join(errors.New("load scene"), &scene.SingularTransformError{Statement: "LookAt"})
	assert.Equal(t, 3, exitCodeFor(wrapped))
}
