package main

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"glscene/internal/mesh"
	"glscene/internal/render"
	"glscene/internal/resources"
	"glscene/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
)

// buildScene adds a plain cube, a normal-mapped sphere, an optional glTF
// model and two lights.
func buildScene(r *render.Renderer, res *resources.Resources, modelPath, normalMapPath string) error {
	cube := scene.NewModel("cube", mesh.Cube(1.2), &scene.Material{
		Name:      "brick",
		Color:     mgl32.Vec3{0.8, 0.35, 0.25},
		Specular:  mgl32.Vec3{0.3, 0.3, 0.3},
		Shininess: 24,
	})
	cube.Position = mgl32.Vec3{-1.6, 0, 0}
	cube.Rotation = mgl32.Vec3{0.3, 0, 0.2}
	r.AddModel(cube)

	var normals *resources.Texture
	if normalMapPath != "" {
		t, err := res.Texture(normalMapPath)
		if err != nil {
			return fmt.Errorf("normal map: %w", err)
		}
		normals = t
	} else {
		normals = res.Add("generated/ridges", ridgeNormalMap(256, 12))
	}
	sphere := scene.NewModel("sphere", mesh.Sphere(0.9, 48, 24), &scene.Material{
		Name:          "ridged",
		Color:         mgl32.Vec3{0.75, 0.78, 0.82},
		Specular:      mgl32.Vec3{0.8, 0.8, 0.8},
		Shininess:     64,
		NormalTexture: normals,
	})
	sphere.Position = mgl32.Vec3{1.6, 0, 0}
	r.AddModel(sphere)

	if modelPath != "" {
		parts, err := mesh.LoadGLTF(modelPath)
		if err != nil {
			return err
		}
		for _, d := range parts {
			m := scene.NewModel(d.Name, d, nil)
			m.Position = mgl32.Vec3{0, -1.5, 0}
			r.AddModel(m)
		}
	}

	bulb := mesh.Sphere(0.12, 16, 8)
	r.AddLight(scene.NewLight("warm", bulb, mgl32.Vec3{0, 2, 2}, scene.PointLight(mgl32.Vec3{1, 0.85, 0.6}, 2.5)))
	r.AddLight(scene.NewLight("cool", bulb, mgl32.Vec3{-2, 1, -2}, scene.PointLight(mgl32.Vec3{0.5, 0.6, 1}, 1.5)))
	return nil
}

// ridgeNormalMap generates a tangent-space normal map of horizontal ridges.
func ridgeNormalMap(size, ridges int) *resources.Texture {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		slope := math.Cos(2*math.Pi*float64(ridges)*float64(y)/float64(size)) * 0.6
		n := mgl32.Vec3{0, float32(slope), 1}.Normalize()
		c := color.NRGBA{
			R: uint8((n[0]*0.5 + 0.5) * 255),
			G: uint8((n[1]*0.5 + 0.5) * 255),
			B: uint8((n[2]*0.5 + 0.5) * 255),
			A: 255,
		}
		for x := 0; x < size; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return resources.FromImage("ridges", img)
}
