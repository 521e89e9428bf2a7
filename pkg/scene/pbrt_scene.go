package scene

import (
	"fmt"
	"strconv"

	"github.com/df07/go-photoncore/pkg/accel"
	"github.com/df07/go-photoncore/pkg/camera"
	"github.com/df07/go-photoncore/pkg/core"
	"github.com/df07/go-photoncore/pkg/light"
	"github.com/df07/go-photoncore/pkg/loaders"
	"github.com/df07/go-photoncore/pkg/material"
	"github.com/df07/go-photoncore/pkg/shape"
	"github.com/df07/go-photoncore/pkg/spectrum"
	"github.com/df07/go-photoncore/pkg/texture"
)

// UnsupportedFeatureError reports a PBRT directive subtype this renderer
// doesn't implement, distinguishing that failure mode from a plain parse
// error.
type UnsupportedFeatureError struct {
	Feature string
}

func (e *UnsupportedFeatureError) Error() string {
	return fmt.Sprintf("unsupported feature: %s", e.Feature)
}

// SingularTransformError reports a Transform directive whose 4x4 matrix
// has no inverse.
type SingularTransformError struct {
	Statement string
}

func (e *SingularTransformError) Error() string {
	return fmt.Sprintf("singular transform in %s statement", e.Statement)
}

// AssetMissingError reports a referenced mesh or texture file that could
// not be read.
type AssetMissingError struct {
	Path  string
	Cause error
}

func (e *AssetMissingError) Error() string {
	return fmt.Sprintf("asset missing %q: %v", e.Path, e.Cause)
}

func (e *AssetMissingError) Unwrap() error { return e.Cause }

// CameraOverrides lets a caller (e.g. cmd/photoncore flags) force the
// output resolution independent of the scene file's Film statement.
type CameraOverrides struct {
	Width, Height int
}

// NewPBRTScene builds a Scene from a PBRT scene file: parses the directive
// stream, resolves the graphics-state stack into concrete
// shape.Shape/light.Light/material.Material instances, and assembles them
// into a BVH-backed Scene (see convertMaterial for the supported material
// set — Diffuse and CoatedDiffuse only, no conductor or plain dielectric).
func NewPBRTScene(filePath string, overrides ...CameraOverrides) (*Scene, error) {
	pbrtScene, err := loaders.LoadPBRT(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load PBRT file: %w", err)
	}

	cfg := defaultPBRTSamplingConfig()
	cam, err := convertCamera(pbrtScene, &cfg, overrides...)
	if err != nil {
		return nil, fmt.Errorf("failed to convert camera: %w", err)
	}

	// Named coordinate systems a CoordSysTransform statement can reset the
	// running transform to: "world" is identity, "camera" is the
	// camera-to-render transform LookAt/Camera established.
	namedSystems := map[string]core.Transform{
		"world":  core.Identity(),
		"camera": cam.CameraToRender,
	}

	materials := make([]material.Material, len(pbrtScene.Materials))
	for i, matStmt := range pbrtScene.Materials {
		mat, err := convertMaterial(&matStmt)
		if err != nil {
			return nil, fmt.Errorf("failed to convert material: %w", err)
		}
		materials[i] = mat
	}

	globalCTM, err := composeTransforms(pbrtScene.Transforms, namedSystems)
	if err != nil {
		return nil, err
	}

	var prims []accel.Primitive
	var lights []light.Light

	for _, shapeStmt := range pbrtScene.Shapes {
		if shapeStmt.MaterialIndex < 0 || shapeStmt.MaterialIndex >= len(materials) {
			return nil, fmt.Errorf("shape has no valid material (MaterialIndex: %d)", shapeStmt.MaterialIndex)
		}
		newPrims, newLights, err := convertShape(&shapeStmt, materials[shapeStmt.MaterialIndex], globalCTM)
		if err != nil {
			return nil, fmt.Errorf("failed to convert shape: %w", err)
		}
		prims = append(prims, newPrims...)
		lights = append(lights, newLights...)
	}

	for _, lightStmt := range pbrtScene.LightSources {
		lt, err := convertLight(&lightStmt, globalCTM)
		if err != nil {
			return nil, fmt.Errorf("failed to convert light: %w", err)
		}
		if lt != nil {
			lights = append(lights, lt)
		}
	}

	for _, attrBlock := range pbrtScene.Attributes {
		blockPrims, blockLights, err := processAttributeBlock(&attrBlock, materials, globalCTM, namedSystems)
		if err != nil {
			return nil, fmt.Errorf("failed to process attribute block: %w", err)
		}
		prims = append(prims, blockPrims...)
		lights = append(lights, blockLights...)
	}

	bvh := accel.Build(prims)
	return New(bvh, lights, cam, cfg), nil
}

func defaultPBRTSamplingConfig() SamplingConfig {
	return SamplingConfig{Width: 400, Height: 400, SamplesPerPixel: 100, MaxDepth: 5}
}

// composeTransforms folds a sequence of Translate/Rotate/Scale/Transform
// statements into a single current-transform-matrix, applied in
// encountered order. A CoordSysTransform statement doesn't compose: it
// resets the running matrix outright to one of the named systems (see
// NewPBRTScene).
func composeTransforms(stmts []loaders.PBRTStatement, named map[string]core.Transform) (core.Transform, error) {
	ctm := core.Identity()
	for _, stmt := range stmts {
		if stmt.Type == "CoordSysTransform" {
			t, ok := named[stmt.Subtype]
			if !ok {
				return core.Transform{}, &UnsupportedFeatureError{Feature: fmt.Sprintf("coordinate system %q", stmt.Subtype)}
			}
			ctm = t
			continue
		}

		t, err := parseTransformStatement(&stmt)
		if err != nil {
			return core.Transform{}, err
		}
		ctm = ctm.Compose(t)
	}
	return ctm, nil
}

func parseTransformStatement(stmt *loaders.PBRTStatement) (core.Transform, error) {
	values := stmt.Parameters["values"].Values
	floats := make([]float64, len(values))
	for i, v := range values {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return core.Transform{}, fmt.Errorf("invalid %s value %q: %w", stmt.Type, v, err)
		}
		floats[i] = f
	}

	switch stmt.Type {
	case "Translate":
		if len(floats) != 3 {
			return core.Transform{}, fmt.Errorf("Translate requires 3 values")
		}
		return core.Translate(core.NewVec3(floats[0], floats[1], floats[2])), nil
	case "Scale":
		if len(floats) != 3 {
			return core.Transform{}, fmt.Errorf("Scale requires 3 values")
		}
		return core.Scale(floats[0], floats[1], floats[2]), nil
	case "Rotate":
		if len(floats) != 4 {
			return core.Transform{}, fmt.Errorf("Rotate requires 4 values (angle x y z)")
		}
		return core.RotateDegrees(floats[0], core.NewVec3(floats[1], floats[2], floats[3])), nil
	case "Transform":
		if len(floats) != 16 {
			return core.Transform{}, fmt.Errorf("Transform requires 16 values")
		}
		var m core.Mat4
		for col := 0; col < 4; col++ {
			for row := 0; row < 4; row++ {
				m[row][col] = floats[col*4+row]
			}
		}
		t, ok := core.NewTransform(m)
		if !ok {
			return core.Transform{}, &SingularTransformError{Statement: "Transform"}
		}
		return t, nil
	default:
		return core.Transform{}, fmt.Errorf("unrecognized transform statement: %s", stmt.Type)
	}
}

// convertCamera converts PBRT's LookAt/Camera/Film statements into a
// camera.Perspective, building the camera-to-render transform via
// core.LookAt, which implements exactly PBRT's own LookAt convention
// (eye position, look-at target, up vector).
func convertCamera(pbrtScene *loaders.PBRTScene, cfg *SamplingConfig, overrides ...CameraOverrides) (*camera.Perspective, error) {
	eye := core.NewVec3(0, 0, 0)
	target := core.NewVec3(0, 0, -1)
	up := core.NewVec3(0, 1, 0)
	if pbrtScene.LookAt != nil && pbrtScene.LookAtTo != nil && pbrtScene.LookAtUp != nil {
		eye, target, up = *pbrtScene.LookAt, *pbrtScene.LookAtTo, *pbrtScene.LookAtUp
	}

	fov := 90.0
	if pbrtScene.Camera != nil && pbrtScene.Camera.Subtype == "perspective" {
		if f, ok := pbrtScene.Camera.GetFloatParam("fov"); ok {
			if f <= 0 || f >= 180 {
				return nil, fmt.Errorf("invalid camera FOV %f: must be between 0 and 180 degrees", f)
			}
			fov = f
		}
	}

	if pbrtScene.Film != nil {
		if w, ok := pbrtScene.Film.GetFloatParam("xresolution"); ok {
			if w <= 0 || w > 8192 {
				return nil, fmt.Errorf("invalid image width %f: must be between 1 and 8192", w)
			}
			cfg.Width = int(w)
		}
		if h, ok := pbrtScene.Film.GetFloatParam("yresolution"); ok {
			if h <= 0 || h > 8192 {
				return nil, fmt.Errorf("invalid image height %f: must be between 1 and 8192", h)
			}
			cfg.Height = int(h)
		}
	}

	if pbrtScene.Sampler != nil {
		if n, ok := pbrtScene.Sampler.GetFloatParam("pixelsamples"); ok && n > 0 {
			cfg.SamplesPerPixel = int(n)
		}
	}

	if pbrtScene.Integrator != nil {
		if d, ok := pbrtScene.Integrator.GetFloatParam("maxdepth"); ok && d >= 0 {
			cfg.MaxDepth = int(d)
		}
	}

	if len(overrides) > 0 {
		if overrides[0].Width > 0 {
			cfg.Width = overrides[0].Width
		}
		if overrides[0].Height > 0 {
			cfg.Height = overrides[0].Height
		}
	}

	cameraToWorld, ok := core.LookAt(eye, target, up)
	if !ok {
		return nil, &SingularTransformError{Statement: "LookAt"}
	}

	window := camera.DefaultScreenWindow(cfg.Width, cfg.Height)
	return camera.NewPerspective(cameraToWorld, fov, cfg.Width, cfg.Height, window, 0, 1), nil
}

// constantTexture wraps an RGB reflectance parameter (clamped to [0,1], an
// albedo) as a texture.SpectrumTexture via the Jakob-Hanika table, falling
// back to fallback if the statement doesn't set name.
func constantTexture(stmt *loaders.PBRTStatement, name string, fallback [3]float64) texture.SpectrumTexture {
	rgb := fallback
	if v, ok := stmt.GetRGBParam(name); ok {
		rgb = [3]float64{v.X, v.Y, v.Z}
	}
	return texture.NewConstant(spectrum.NewRGBAlbedoSpectrum(spectrum.SRGB, rgb))
}

// convertMaterial maps a PBRT Material statement to this renderer's
// material set. Only "diffuse" and "coateddiffuse" are implemented; any
// other subtype ("conductor", bare "dielectric", ...) errors as
// unsupported rather than silently approximating it with a material this
// renderer doesn't actually have.
func convertMaterial(stmt *loaders.PBRTStatement) (material.Material, error) {
	switch stmt.Subtype {
	case "diffuse":
		reflectance := constantTexture(stmt, "reflectance", [3]float64{0.7, 0.7, 0.7})
		return material.NewDiffuse(reflectance), nil

	case "coateddiffuse":
		reflectance := constantTexture(stmt, "reflectance", [3]float64{0.7, 0.7, 0.7})

		roughness := texture.FloatTexture(texture.ConstantFloat(0))
		if r, ok := stmt.GetFloatParam("roughness"); ok {
			if r < 0 || r > 1 {
				return nil, fmt.Errorf("invalid coateddiffuse roughness %f: must be between 0 and 1", r)
			}
			roughness = texture.ConstantFloat(r)
		}

		thickness := texture.FloatTexture(texture.ConstantFloat(0.01))
		if t, ok := stmt.GetFloatParam("thickness"); ok && t > 0 {
			thickness = texture.ConstantFloat(t)
		}

		g := texture.FloatTexture(texture.ConstantFloat(0))
		if gg, ok := stmt.GetFloatParam("g"); ok {
			g = texture.ConstantFloat(gg)
		}

		var albedo texture.SpectrumTexture
		if rgb, ok := stmt.GetRGBParam("albedo"); ok {
			albedo = texture.NewConstant(spectrum.NewRGBAlbedoSpectrum(spectrum.SRGB, [3]float64{rgb.X, rgb.Y, rgb.Z}))
		}

		eta := spectrum.Spectrum(spectrum.ConstantSpectrum{Value: 1.5})
		if e, ok := stmt.GetFloatParam("eta"); ok && e > 0 {
			eta = spectrum.ConstantSpectrum{Value: e}
		}

		return material.NewCoatedDiffuse(reflectance, roughness, thickness, albedo, g, eta), nil

	default:
		return nil, &UnsupportedFeatureError{Feature: fmt.Sprintf("material %q", stmt.Subtype)}
	}
}

// emissionSpectrum wraps an RGB radiance/intensity parameter as an
// unbounded illuminant spectrum via the Jakob-Hanika table, since emitted
// power routinely exceeds the [0,1] range an albedo spectrum allows.
func emissionSpectrum(rgb core.Vec3) spectrum.Spectrum {
	return spectrum.NewRGBIlluminantSpectrum(spectrum.SRGB, [3]float64{rgb.X, rgb.Y, rgb.Z})
}

// convertShape maps a PBRT Shape statement to one or more accel.Primitives
// under the current transform. A shape marked _areaLight by the parser
// (see pkg/loaders/pbrt.go's AreaLightSource handling) produces a
// DiffuseAreaLight bound to the same shape instead of its assigned
// material (the primitive carries the light and no material). A shape marked _reverseOrientation (an active
// ReverseOrientation directive when the Shape statement was parsed) is
// wrapped in shape.ReverseOrientation so its reported normal flips.
func convertShape(stmt *loaders.PBRTStatement, mat material.Material, ctm core.Transform) ([]accel.Primitive, []light.Light, error) {
	var shapes []shape.Shape

	switch stmt.Subtype {
	case "sphere":
		radius := 1.0
		if r, ok := stmt.GetFloatParam("radius"); ok {
			if r <= 0 {
				return nil, nil, fmt.Errorf("invalid sphere radius %f: must be positive", r)
			}
			radius = r
		}
		center := ctm.OnPoint(core.NewVec3(0, 0, 0))
		shapes = []shape.Shape{shape.NewSphere(center, radius)}

	case "bilinearPatch":
		p00, ok1 := stmt.GetPoint3Param("P00")
		p01, ok2 := stmt.GetPoint3Param("P01")
		p10, ok3 := stmt.GetPoint3Param("P10")
		_, ok4 := stmt.GetPoint3Param("P11")
		if !ok1 || !ok2 || !ok3 || !ok4 {
			return nil, nil, fmt.Errorf("bilinearPatch missing corner points")
		}
		corner := ctm.OnPoint(*p00)
		u := ctm.OnPoint(*p01).Subtract(corner)
		v := ctm.OnPoint(*p10).Subtract(corner)
		shapes = []shape.Shape{shape.NewQuad(corner, u, v)}

	case "trianglemesh":
		param, exists := stmt.Parameters["P"]
		if !exists || len(param.Values)%3 != 0 {
			return nil, nil, fmt.Errorf("trianglemesh missing or invalid vertices")
		}
		vertices := make([]core.Vec3, 0, len(param.Values)/3)
		for i := 0; i < len(param.Values); i += 3 {
			x, err1 := strconv.ParseFloat(param.Values[i], 64)
			y, err2 := strconv.ParseFloat(param.Values[i+1], 64)
			z, err3 := strconv.ParseFloat(param.Values[i+2], 64)
			if err1 != nil || err2 != nil || err3 != nil {
				return nil, nil, fmt.Errorf("invalid vertex coordinates in trianglemesh")
			}
			vertices = append(vertices, ctm.OnPoint(core.NewVec3(x, y, z)))
		}

		indicesParam, exists := stmt.Parameters["indices"]
		if !exists || len(indicesParam.Values)%3 != 0 {
			return nil, nil, fmt.Errorf("trianglemesh missing or invalid indices")
		}
		indices := make([]int, 0, len(indicesParam.Values))
		for _, idxStr := range indicesParam.Values {
			idx, err := strconv.Atoi(idxStr)
			if err != nil {
				return nil, nil, fmt.Errorf("invalid trianglemesh index %q: %w", idxStr, err)
			}
			indices = append(indices, idx)
		}

		mesh, err := shape.NewTriangleMesh(vertices, indices, nil, nil)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid trianglemesh: %w", err)
		}
		shapes = mesh.Triangles()

	case "plymesh":
		filename, ok := stmt.GetStringParam("filename")
		if !ok || filename == "" {
			return nil, nil, fmt.Errorf("plymesh missing filename")
		}
		plyData, err := loaders.LoadPLY(filename)
		if err != nil {
			return nil, nil, &AssetMissingError{Path: filename, Cause: err}
		}

		vertices := make([]core.Vec3, len(plyData.Vertices))
		for i, v := range plyData.Vertices {
			vertices[i] = ctm.OnPoint(v)
		}
		var normals []core.Vec3
		if len(plyData.Normals) > 0 {
			normals = make([]core.Vec3, len(plyData.Normals))
			for i, n := range plyData.Normals {
				normals[i] = ctm.OnNormal(n)
			}
		}
		var uvs []core.Vec2
		if len(plyData.TexCoords) > 0 {
			uvs = plyData.TexCoords
		}

		mesh, err := shape.NewTriangleMesh(vertices, plyData.Faces, normals, uvs)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid plymesh %q: %w", filename, err)
		}
		shapes = mesh.Triangles()

	default:
		return nil, nil, &UnsupportedFeatureError{Feature: fmt.Sprintf("shape %q", stmt.Subtype)}
	}

	if stmt.IsReverseOrientation() {
		for i, s := range shapes {
			shapes[i] = shape.ReverseOrientation{Shape: s, Reversed: true}
		}
	}

	var prims []accel.Primitive
	var lights []light.Light
	if stmt.IsAreaLight() {
		emit := core.NewVec3(1, 1, 1)
		if rgb, ok := stmt.GetRGBParam("L"); ok {
			emit = *rgb
		}
		le := emissionSpectrum(emit)
		for _, s := range shapes {
			areaLight := light.NewDiffuseAreaLight(s, le, 1, true)
			prims = append(prims, accel.Primitive{Shape: s, Light: areaLight})
			lights = append(lights, areaLight)
		}
		return prims, lights, nil
	}

	for _, s := range shapes {
		prims = append(prims, accel.Primitive{Shape: s, Material: mat})
	}
	return prims, nil, nil
}

// convertLight maps a PBRT LightSource statement to this renderer's light
// set (DiffuseAreaLight, DistantLight). There is no environment light
// here, so "infinite"/"infinite-gradient" background approximations are
// reported as unsupported rather than silently dropped.
func convertLight(stmt *loaders.PBRTStatement, ctm core.Transform) (light.Light, error) {
	switch stmt.Subtype {
	case "point":
		intensity := core.NewVec3(10, 10, 10)
		if rgb, ok := stmt.GetRGBParam("I"); ok {
			intensity = *rgb
		}
		position := core.NewVec3(0, 5, 0)
		if pos, ok := stmt.GetPoint3Param("from"); ok {
			position = *pos
		}
		position = ctm.OnPoint(position)
		// Approximated as a small emissive sphere; there is no true
		// delta-position point light in this light set.
		sphereLight := shape.NewSphere(position, 0.05)
		return light.NewDiffuseAreaLight(sphereLight, emissionSpectrum(intensity), 1, true), nil

	case "distant":
		from := core.NewVec3(0, 0, 0)
		to := core.NewVec3(0, 0, -1)
		if p, ok := stmt.GetPoint3Param("from"); ok {
			from = *p
		}
		if p, ok := stmt.GetPoint3Param("to"); ok {
			to = *p
		}
		direction := ctm.OnVector(to.Subtract(from))
		radiance := core.NewVec3(1, 1, 1)
		if rgb, ok := stmt.GetRGBParam("L"); ok {
			radiance = *rgb
		}
		return light.NewDistantLight(direction, emissionSpectrum(radiance), 1), nil

	default:
		return nil, &UnsupportedFeatureError{Feature: fmt.Sprintf("light %q", stmt.Subtype)}
	}
}

// processAttributeBlock mirrors the top-level conversion for one
// AttributeBegin/AttributeEnd block, under the composed global CTM times
// the block's own Translate/Rotate/Scale/Transform directives.
func processAttributeBlock(block *loaders.AttributeBlock, globalMaterials []material.Material, parentCTM core.Transform, namedSystems map[string]core.Transform) ([]accel.Primitive, []light.Light, error) {
	localCTM, err := composeTransforms(block.Transforms, namedSystems)
	if err != nil {
		return nil, nil, err
	}
	ctm := parentCTM.Compose(localCTM)

	localMaterials := make([]material.Material, len(block.Materials))
	for i, matStmt := range block.Materials {
		mat, err := convertMaterial(&matStmt)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to convert material in attribute block: %w", err)
		}
		localMaterials[i] = mat
	}

	var prims []accel.Primitive
	var lights []light.Light

	for _, shapeStmt := range block.Shapes {
		var shapeMaterial material.Material
		switch {
		case shapeStmt.MaterialIndex >= 0 && shapeStmt.MaterialIndex < len(localMaterials):
			shapeMaterial = localMaterials[shapeStmt.MaterialIndex]
		case shapeStmt.MaterialIndex >= 0 && shapeStmt.MaterialIndex < len(globalMaterials):
			shapeMaterial = globalMaterials[shapeStmt.MaterialIndex]
		default:
			return nil, nil, fmt.Errorf("shape has no valid material (MaterialIndex: %d)", shapeStmt.MaterialIndex)
		}

		newPrims, newLights, err := convertShape(&shapeStmt, shapeMaterial, ctm)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to convert shape in attribute block: %w", err)
		}
		prims = append(prims, newPrims...)
		lights = append(lights, newLights...)
	}

	for _, lightStmt := range block.LightSources {
		if lightStmt.Type == "AreaLightSource" {
			// Handled via the shape's _areaLight marker in convertShape.
			continue
		}
		lt, err := convertLight(&lightStmt, ctm)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to convert light in attribute block: %w", err)
		}
		if lt != nil {
			lights = append(lights, lt)
		}
	}

	return prims, lights, nil
}
