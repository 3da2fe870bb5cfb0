// Command viewer opens a window and renders a small lit scene through the
// render package.
package main

import (
	"flag"
	"fmt"
	"log"
	"runtime"
	"time"

	"glscene/internal/config"
	"glscene/internal/gpu/glbackend"
	"glscene/internal/input"
	"glscene/internal/profiling"
	"glscene/internal/render"
	"glscene/internal/resources"
	"glscene/internal/scene"
	"glscene/internal/shader"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/xlab/closer"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "", "TOML settings file")
	modelPath := flag.String("model", "", "glTF or glb file to add to the scene")
	normalMap := flag.String("normal-map", "", "normal map image for the sphere")
	flag.Parse()

	var frames int
	closer.Bind(func() {
		log.Printf("viewer: exiting after %d frames", frames)
	})
	defer closer.Close()

	closer.Checked(func() error {
		return run(*configPath, *modelPath, *normalMap, &frames)
	}, true)
}

func loadSettings(path string) (*config.Settings, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func setupWindow(ws config.WindowSettings) (*glfw.Window, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)

	window, err := glfw.CreateWindow(ws.Width, ws.Height, ws.Title, nil, nil)
	if err != nil {
		return nil, err
	}
	window.MakeContextCurrent()

	// pacing is done by fpsLimiter
	glfw.SwapInterval(0)
	return window, nil
}

func run(configPath, modelPath, normalMap string, frames *int) error {
	settings, err := loadSettings(configPath)
	if err != nil {
		return err
	}

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("init glfw: %w", err)
	}
	defer glfw.Terminate()

	window, err := setupWindow(settings.Window)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}

	dev, err := glbackend.New()
	if err != nil {
		return err
	}
	log.Printf("viewer: OpenGL %s", dev.Version())

	res := resources.New(settings)
	defer res.Release()

	r := render.New(dev, settings, res)
	defer r.Release()

	mainProgram, err := shader.Load(dev, shader.TagMain, settings.ShadersDir, "main.vert", "main.frag")
	if err != nil {
		return err
	}
	r.AddShaderProgram(mainProgram)

	skyProgram, err := shader.Load(dev, shader.TagSkyBox, settings.ShadersDir, "sky.vert", "sky.frag")
	if err != nil {
		return err
	}
	r.AddShaderProgram(skyProgram)

	if err := r.Init(); err != nil {
		return err
	}
	if err := dev.CheckError("renderer init"); err != nil {
		log.Printf("viewer: %v", err)
	}

	fbw, fbh := window.GetFramebufferSize()
	dev.Viewport(int32(fbw), int32(fbh))

	camera := scene.NewCamera(fbw, fbh)
	r.SetCamera(camera)

	sky := scene.NewGradientSky(dev, skyProgram, camera)
	defer sky.Release(dev)
	r.SetSkyBox(sky)

	if err := buildScene(r, res, modelPath, normalMap); err != nil {
		return err
	}
	log.Printf("viewer: %d models, %d lights", len(r.Models()), len(r.Lights()))

	controls := input.NewManager()
	setupInputHandlers(window, controls, camera, dev)
	runLoop(window, controls, r, sky, camera, settings, frames)
	return nil
}

func setupInputHandlers(window *glfw.Window, controls *input.Manager, camera *scene.Camera, dev *glbackend.Device) {
	controls.Attach(window)
	window.SetCursorPosCallback(func(w *glfw.Window, xpos, ypos float64) {
		if controls.IsActive(input.ActionOrbit) {
			camera.HandleMouseMovement(xpos, ypos)
		} else {
			camera.ResetMouse()
		}
	})
	window.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
		camera.Zoom(float32(yoff) * 0.5)
	})
	window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		dev.Viewport(int32(width), int32(height))
		camera.SetViewport(width, height)
	})
}

func runLoop(window *glfw.Window, controls *input.Manager, r *render.Renderer, sky render.SkyBox, camera *scene.Camera, settings *config.Settings, frames *int) {
	limiter := newFPSLimiter(settings.FPSLimit)
	home := *camera
	last := time.Now()
	lastFPSCheck := last
	fps := 0

	var angle float32
	paused := false
	skyOn := true
	showProfile := true

	for !window.ShouldClose() {
		profiling.ResetFrame()
		now := time.Now()
		dt := float32(now.Sub(last).Seconds())
		last = now

		switch {
		case controls.JustPressed(input.ActionQuit):
			window.SetShouldClose(true)
		case controls.JustPressed(input.ActionPause):
			paused = !paused
		case controls.JustPressed(input.ActionToggleSky):
			skyOn = !skyOn
			if skyOn {
				r.SetSkyBox(sky)
			} else {
				r.SetSkyBox(nil)
			}
		case controls.JustPressed(input.ActionToggleProfiling):
			showProfile = !showProfile
		case controls.JustPressed(input.ActionResetCamera):
			camera.Yaw, camera.Pitch, camera.Distance = home.Yaw, home.Pitch, home.Distance
		}
		if controls.IsActive(input.ActionZoomIn) {
			camera.Zoom(4 * dt)
		}
		if controls.IsActive(input.ActionZoomOut) {
			camera.Zoom(-4 * dt)
		}
		if !paused {
			angle += dt * 0.6
		}

		r.ClearScreen()
		r.Draw(angle)

		func() { defer profiling.Track("glfw.SwapBuffers")(); window.SwapBuffers() }()
		controls.PostUpdate()
		func() { defer profiling.Track("glfw.PollEvents")(); glfw.PollEvents() }()

		*frames++
		fps++
		if time.Since(lastFPSCheck) >= time.Second {
			if showProfile {
				// swap and poll timers do not nest, so their sum is the time spent in glfw
				swap := profiling.SumWithPrefix("glfw.")
				log.Printf("FPS: %d, glfw: %.2fms, top: %s", fps, float64(swap.Microseconds())/1000, profiling.TopN(3))
			}
			fps = 0
			lastFPSCheck = time.Now()
		}
		limiter.Wait(paused)
	}
}
