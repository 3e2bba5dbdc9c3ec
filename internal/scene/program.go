package scene

import (
	"embed"
	"fmt"

	"polar-anaglyph/internal/gfx"
)

//go:embed shaders/surface.vert shaders/surface.frag
var shaderFS embed.FS

// Attribute and uniform names the renderer binds.
const (
	AttribVertex   = "vertex"
	AttribTexCoord = "texCoord"

	UniformMVP       = "ModelViewProjectionMatrix"
	UniformColor     = "color"
	UniformColorCoef = "fColorCoef"
	UniformTexture   = "u_texture"
)

// SurfaceProgram returns the embedded shader pair.
func SurfaceProgram() gfx.ProgramSource {
	vs, err := shaderFS.ReadFile("shaders/surface.vert")
	if err != nil {
		panic(err)
	}
	fs, err := shaderFS.ReadFile("shaders/surface.frag")
	if err != nil {
		panic(err)
	}
	return gfx.ProgramSource{Vertex: string(vs), Fragment: string(fs)}
}

// locations are the resolved handles of a built program.
type locations struct {
	vertex, texCoord               gfx.Location
	mvp, color, colorCoef, texture gfx.Location
}

// buildProgram compiles src and resolves every name the renderer uses. A
// program that builds but lacks one of them is reported as a link failure.
func buildProgram(c gfx.Compiler, src gfx.ProgramSource) (*gfx.Program, locations, error) {
	prog, err := c.Compile(src)
	if err != nil {
		return nil, locations{}, err
	}

	loc := locations{
		vertex:    prog.Attrib(AttribVertex),
		texCoord:  prog.Attrib(AttribTexCoord),
		mvp:       prog.Uniform(UniformMVP),
		color:     prog.Uniform(UniformColor),
		colorCoef: prog.Uniform(UniformColorCoef),
		texture:   prog.Uniform(UniformTexture),
	}

	required := []struct {
		kind, name string
		loc        gfx.Location
	}{
		{"attribute", AttribVertex, loc.vertex},
		{"attribute", AttribTexCoord, loc.texCoord},
		{"uniform", UniformMVP, loc.mvp},
		{"uniform", UniformColor, loc.color},
		{"uniform", UniformColorCoef, loc.colorCoef},
		{"uniform", UniformTexture, loc.texture},
	}
	for _, r := range required {
		if r.loc == gfx.NoLocation {
			return nil, locations{}, &gfx.BuildError{
				Stage: gfx.StageLink,
				Log:   fmt.Sprintf("%s %q is not declared", r.kind, r.name),
			}
		}
	}
	return prog, loc, nil
}
