// Command shadercheck compiles the viewer shaders in a hidden window and
// verifies that every uniform and subroutine the renderer needs resolves.
//
// It exits non-zero on a compile, link or naming mismatch, which otherwise
// only shows up as degraded shading at run time.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"

	"glscene/internal/config"
	"glscene/internal/gpu/glbackend"
	"glscene/internal/render"
	"glscene/internal/resources"
	"glscene/internal/shader"

	"github.com/go-gl/glfw/v3.3/glfw"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "", "TOML settings file")
	flag.Parse()

	if err := check(*configPath); err != nil {
		var he *render.HandleError
		if errors.As(err, &he) {
			for _, name := range he.Names {
				fmt.Fprintf(os.Stderr, "unresolved in %s program: %s\n", he.Program, name)
			}
		}
		log.Fatalf("shadercheck: %v", err)
	}
	fmt.Println("ok")
}

func check(configPath string) error {
	settings := config.Default()
	if configPath != "" {
		var err error
		if settings, err = config.Load(configPath); err != nil {
			return err
		}
	}
	settings.StrictHandles = true

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("init glfw: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Visible, glfw.False)

	window, err := glfw.CreateWindow(64, 64, "shadercheck", nil, nil)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	defer window.Destroy()
	window.MakeContextCurrent()

	dev, err := glbackend.New()
	if err != nil {
		return err
	}
	log.Printf("OpenGL %s, shaders from %s", dev.Version(), settings.ShadersDir)

	res := resources.New(settings)
	defer res.Release()
	r := render.New(dev, settings, res)
	defer r.Release()

	for _, p := range []struct {
		tag        shader.Tag
		vert, frag string
	}{
		{shader.TagMain, "main.vert", "main.frag"},
		{shader.TagSkyBox, "sky.vert", "sky.frag"},
	} {
		program, err := shader.Load(dev, p.tag, settings.ShadersDir, p.vert, p.frag)
		if err != nil {
			return err
		}
		r.AddShaderProgram(program)
	}

	if err := r.Init(); err != nil {
		return err
	}
	return dev.CheckError("shadercheck")
}
