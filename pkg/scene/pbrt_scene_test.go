package scene

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/df07/go-photoncore/pkg/core"
	"github.com/df07/go-photoncore/pkg/light"
	"github.com/df07/go-photoncore/pkg/loaders"
	"github.com/df07/go-photoncore/pkg/material"
	"github.com/df07/go-photoncore/pkg/shape"
)

// writeTestPLY writes a minimal binary_little_endian PLY (a single
// triangle) to path, the one format loaders.LoadPLY actually decodes.
func writeTestPLY(t *testing.T, path string) {
	t.Helper()
	var buf bytes.Buffer
	buf.WriteString("ply\n")
	buf.WriteString("format binary_little_endian 1.0\n")
	buf.WriteString("element vertex 3\n")
	buf.WriteString("property float x\n")
	buf.WriteString("property float y\n")
	buf.WriteString("property float z\n")
	buf.WriteString("element face 1\n")
	buf.WriteString("property list uchar int vertex_indices\n")
	buf.WriteString("end_header\n")

	verts := [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	for _, v := range verts {
		binary.Write(&buf, binary.LittleEndian, v[0])
		binary.Write(&buf, binary.LittleEndian, v[1])
		binary.Write(&buf, binary.LittleEndian, v[2])
	}
	binary.Write(&buf, binary.LittleEndian, uint8(3))
	binary.Write(&buf, binary.LittleEndian, int32(0))
	binary.Write(&buf, binary.LittleEndian, int32(1))
	binary.Write(&buf, binary.LittleEndian, int32(2))

	assert.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func TestConvertMaterialDiffuse(t *testing.T) {
	stmt := &loaders.PBRTStatement{
		Type: "Material", Subtype: "diffuse",
		Parameters: map[string]loaders.PBRTParam{
			"reflectance": {Type: "rgb", Values: []string{"0.8", "0.6", "0.4"}},
		},
	}
	mat, err := convertMaterial(stmt)
	assert.NoError(t, err)
	_, ok := mat.(*material.Diffuse)
	assert.True(t, ok)
}

func TestConvertMaterialCoatedDiffuse(t *testing.T) {
	stmt := &loaders.PBRTStatement{
		Type: "Material", Subtype: "coateddiffuse",
		Parameters: map[string]loaders.PBRTParam{
			"reflectance": {Type: "rgb", Values: []string{"0.5", "0.5", "0.5"}},
			"roughness":   {Type: "float", Values: []string{"0.2"}},
		},
	}
	mat, err := convertMaterial(stmt)
	assert.NoError(t, err)
	_, ok := mat.(*material.CoatedDiffuse)
	assert.True(t, ok)
}

func TestConvertMaterialUnsupportedIsTyped(t *testing.T) {
	stmt := &loaders.PBRTStatement{Type: "Material", Subtype: "conductor"}
	_, err := convertMaterial(stmt)
	assert.Error(t, err)
	var uerr *UnsupportedFeatureError
	assert.ErrorAs(t, err, &uerr)
}

func TestConvertShapeSphereAppliesCTM(t *testing.T) {
	stmt := &loaders.PBRTStatement{
		Type: "Shape", Subtype: "sphere",
		Parameters: map[string]loaders.PBRTParam{
			"radius": {Type: "float", Values: []string{"2"}},
		},
	}
	ctm := core.Translate(core.NewVec3(1, 2, 3))
	prims, lights, err := convertShape(stmt, material.NewDiffuse(nil), ctm)
	assert.NoError(t, err)
	assert.Nil(t, lights)
	assert.Len(t, prims, 1)
	sp, ok := prims[0].Shape.(*shape.Sphere)
	assert.True(t, ok)
	assert.Equal(t, core.NewVec3(1, 2, 3), sp.Center)
	assert.Equal(t, 2.0, sp.Radius)
}

func TestConvertShapeAreaLightProducesLight(t *testing.T) {
	stmt := &loaders.PBRTStatement{
		Type: "Shape", Subtype: "sphere",
		Parameters: map[string]loaders.PBRTParam{
			"radius": {Type: "float", Values: []string{"1"}},
			"L":      {Type: "rgb", Values: []string{"5", "5", "5"}},
		},
	}
	stmt.Parameters["_areaLight"] = loaders.PBRTParam{Type: "bool", Values: []string{"true"}}

	prims, lights, err := convertShape(stmt, nil, core.Identity())
	assert.NoError(t, err)
	assert.Len(t, prims, 1)
	assert.Len(t, lights, 1)
	_, ok := prims[0].Light.(light.Light)
	assert.True(t, ok)
}

func TestConvertShapePlymeshLoadsAndTransformsFile(t *testing.T) {
	path := filepath.Join(os.TempDir(), "photoncore_convert_shape_test.ply")
	writeTestPLY(t, path)
	defer os.Remove(path)

	stmt := &loaders.PBRTStatement{
		Type: "Shape", Subtype: "plymesh",
		Parameters: map[string]loaders.PBRTParam{
			"filename": {Type: "string", Values: []string{path}},
		},
	}
	ctm := core.Translate(core.NewVec3(0, 0, 5))
	prims, lights, err := convertShape(stmt, material.NewDiffuse(nil), ctm)
	assert.NoError(t, err)
	assert.Nil(t, lights)
	assert.Len(t, prims, 1)
	tri, ok := prims[0].Shape.(*shape.Triangle)
	assert.True(t, ok)
	assert.Equal(t, core.NewVec3(0, 0, 5), tri.Mesh.Vertices[0])
}

func TestConvertShapePlymeshMissingFileIsAssetMissing(t *testing.T) {
	stmt := &loaders.PBRTStatement{
		Type: "Shape", Subtype: "plymesh",
		Parameters: map[string]loaders.PBRTParam{
			"filename": {Type: "string", Values: []string{filepath.Join(os.TempDir(), "photoncore_does_not_exist.ply")}},
		},
	}
	_, _, err := convertShape(stmt, material.NewDiffuse(nil), core.Identity())
	assert.Error(t, err)
	var aerr *AssetMissingError
	assert.ErrorAs(t, err, &aerr)
}

func TestConvertLightDistant(t *testing.T) {
	stmt := &loaders.PBRTStatement{
		Type: "LightSource", Subtype: "distant",
		Parameters: map[string]loaders.PBRTParam{
			"from": {Type: "point3", Values: []string{"0", "0", "0"}},
			"to":   {Type: "point3", Values: []string{"0", "0", "-1"}},
		},
	}
	lt, err := convertLight(stmt, core.Identity())
	assert.NoError(t, err)
	_, ok := lt.(*light.DistantLight)
	assert.True(t, ok)
}

func TestConvertLightUnsupportedIsTyped(t *testing.T) {
	stmt := &loaders.PBRTStatement{Type: "LightSource", Subtype: "infinite"}
	_, err := convertLight(stmt, core.Identity())
	assert.Error(t, err)
	var uerr *UnsupportedFeatureError
	assert.ErrorAs(t, err, &uerr)
}

func TestComposeTransformsTranslateThenScale(t *testing.T) {
	stmts := []loaders.PBRTStatement{
		{Type: "Translate", Parameters: map[string]loaders.PBRTParam{"values": {Values: []string{"1", "0", "0"}}}},
		{Type: "Scale", Parameters: map[string]loaders.PBRTParam{"values": {Values: []string{"2", "2", "2"}}}},
	}
	ctm, err := composeTransforms(stmts, map[string]core.Transform{"world": core.Identity()})
	assert.NoError(t, err)
	p := ctm.OnPoint(core.NewVec3(1, 0, 0))
	// Translate(1,0,0) composed with Scale(2,2,2): p -> Translate(Scale(p)).
	assert.InDelta(t, 3.0, p.X, 1e-9)
}

func TestParseTransformStatementSingularMatrixErrors(t *testing.T) {
	zeros := make([]string, 16)
	for i := range zeros {
		zeros[i] = "0"
	}
	stmt := &loaders.PBRTStatement{
		Type:       "Transform",
		Parameters: map[string]loaders.PBRTParam{"values": {Values: zeros}},
	}
	_, err := parseTransformStatement(stmt)
	assert.Error(t, err)
	var serr *SingularTransformError
	assert.ErrorAs(t, err, &serr)
}

func TestNewPBRTSceneMinimalFile(t *testing.T) {
	content := `LookAt 0 0 5  0 0 0  0 1 0
Camera "perspective" "float fov" [45]
Film "rgb" "integer xresolution" [64] "integer yresolution" [48]
Sampler "independent" "integer pixelsamples" [8]
Integrator "path" "integer maxdepth" [3]
WorldBegin
Material "diffuse" "rgb reflectance" [0.7 0.7 0.7]
Shape "sphere" "float radius" [1]
LightSource "distant" "point3 from" [0 5 0] "point3 to" [0 0 0] "rgb L" [4 4 4]
WorldEnd
`
	path := filepath.Join(os.TempDir(), "photoncore_pbrt_scene_test.pbrt")
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	defer os.Remove(path)

	sc, err := NewPBRTScene(path)
	assert.NoError(t, err)
	assert.Equal(t, 64, sc.SamplingConfig.Width)
	assert.Equal(t, 48, sc.SamplingConfig.Height)
	assert.Equal(t, 8, sc.SamplingConfig.SamplesPerPixel)
	assert.Equal(t, 3, sc.SamplingConfig.MaxDepth)
	assert.Len(t, sc.Lights(), 1)

	ray := core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1))
	_, _, hit := sc.Intersect(ray, 1e-4, math.Inf(1))
	assert.True(t, hit)
}

func TestComposeTransformsCoordSysTransformResetsInsteadOfComposing(t *testing.T) {
	named := map[string]core.Transform{
		"world":  core.Identity(),
		"camera": core.Translate(core.NewVec3(0, 0, 5)),
	}
	stmts := []loaders.PBRTStatement{
		{Type: "Translate", Parameters: map[string]loaders.PBRTParam{"values": {Values: []string{"1", "0", "0"}}}},
		{Type: "CoordSysTransform", Subtype: "camera"},
	}
	ctm, err := composeTransforms(stmts, named)
	assert.NoError(t, err)

	// The Translate(1,0,0) that preceded CoordSysTransform must be
	// discarded, not composed with the camera system.
	p := ctm.OnPoint(core.NewVec3(0, 0, 0))
	assert.InDelta(t, 0, p.X, 1e-9)
	assert.InDelta(t, 0, p.Y, 1e-9)
	assert.InDelta(t, 5, p.Z, 1e-9)
}

func TestComposeTransformsCoordSysTransformUnknownNameErrors(t *testing.T) {
	stmts := []loaders.PBRTStatement{{Type: "CoordSysTransform", Subtype: "object"}}
	_, err := composeTransforms(stmts, map[string]core.Transform{"world": core.Identity()})
	assert.Error(t, err)
	var uerr *UnsupportedFeatureError
	assert.ErrorAs(t, err, &uerr)
}

func TestConvertShapeReverseOrientationFlipsNormal(t *testing.T) {
	stmt := &loaders.PBRTStatement{
		Type:    "Shape",
		Subtype: "sphere",
		Parameters: map[string]loaders.PBRTParam{
			"radius":              {Values: []string{"1"}},
			"_reverseOrientation": {Values: []string{"true"}},
		},
	}
	mat := material.NewDiffuse(nil)
	prims, _, err := convertShape(stmt, mat, core.Identity())
	assert.NoError(t, err)
	assert.Len(t, prims, 1)

	_, ok := prims[0].Shape.(shape.ReverseOrientation)
	assert.True(t, ok, "expected shape to be wrapped in shape.ReverseOrientation")
}
