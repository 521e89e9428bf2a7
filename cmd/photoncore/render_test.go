package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

const smokeTestScene = `LookAt 0 0 5  0 0 0  0 1 0
Camera "perspective" "float fov" [45]
Film "rgb" "integer xresolution" [8] "integer yresolution" [8]
Sampler "independent" "integer pixelsamples" [2]
Integrator "path" "integer maxdepth" [1]
WorldBegin
Material "diffuse" "rgb reflectance" [0.7 0.7 0.7]
Shape "sphere" "float radius" [2]
LightSource "distant" "point3 from" [0 5 5] "point3 to" [0 0 0] "rgb L" [4 4 4]
WorldEnd
`

func TestRunRenderWritesImage(t *testing.T) {
	scenePath := filepath.Join(os.TempDir(), "photoncore_cmd_test.pbrt")
	assert.NoError(t, os.WriteFile(scenePath, []byte(smokeTestScene), 0o644))
	t.Cleanup(func() { os.Remove(scenePath) })

	outPath := filepath.Join(os.TempDir(), "photoncore_cmd_test_out.png")
	t.Cleanup(func() { os.Remove(outPath) })

	renderOutput = outPath
	renderSPP = 0
	renderWorkers = 1
	renderWidth = 0
	renderHeight = 0
	renderIntegrator = "path"

	assert.NoError(t, runRender(renderCmd, []string{scenePath}))

	info, err := os.Stat(outPath)
	assert.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestSelectIntegratorKnownAndUnknown(t *testing.T) {
	for _, kind := range supportedIntegrators {
		li, err := selectIntegrator(kind, 3)
		assert.NoError(t, err)
		assert.NotNil(t, li)
	}

	_, err := selectIntegrator("bogus", 3)
	assert.Error(t, err)
}
