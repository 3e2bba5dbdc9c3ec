package gfx

import (
	"bufio"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Location identifies an attribute or uniform inside a Program. NoLocation
// is returned for names the program does not declare.
type Location int

const NoLocation Location = -1

// Stage names the step of a program build that failed.
type Stage int

const (
	StageVertex Stage = iota
	StageFragment
	StageLink
)

func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	case StageLink:
		return "link"
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

// BuildError is the failure half of a program build.
type BuildError struct {
	Stage Stage
	Log   string
}

func (e *BuildError) Error() string {
	if e.Stage == StageLink {
		return "gfx: link error in program: " + e.Log
	}
	return fmt.Sprintf("gfx: error in %s shader: %s", e.Stage, e.Log)
}

// ProgramSource is a vertex + fragment shader pair.
type ProgramSource struct {
	Vertex   string
	Fragment string
}

// Compiler builds programs. A successful build yields a Program, a failed
// one a *BuildError.
type Compiler interface {
	Compile(src ProgramSource) (*Program, error)
}

// Program is a linked program: the attribute and uniform names it declares,
// each with a stable location.
type Program struct {
	attribs  map[string]Location
	uniforms map[string]Location
}

// Attrib returns the location of a vertex attribute.
func (p *Program) Attrib(name string) Location {
	if loc, ok := p.attribs[name]; ok {
		return loc
	}
	return NoLocation
}

// Uniform returns the location of a uniform.
func (p *Program) Uniform(name string) Location {
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	return NoLocation
}

// Uniforms returns the declared uniform names in location order.
func (p *Program) Uniforms() []string {
	return namesByLocation(p.uniforms)
}

// Attribs returns the declared attribute names in location order.
func (p *Program) Attribs() []string {
	return namesByLocation(p.attribs)
}

func namesByLocation(m map[string]Location) []string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool { return m[names[i]] < m[names[j]] })
	return names
}

var (
	declRe = regexp.MustCompile(`^\s*(attribute|uniform|varying)\s+(?:(?:lowp|mediump|highp)\s+)?(\w+)\s+(\w+)\s*;`)
	mainRe = regexp.MustCompile(`\bvoid\s+main\s*\(\s*\)`)

	knownTypes = map[string]bool{
		"float": true, "int": true, "bool": true,
		"vec2": true, "vec3": true, "vec4": true,
		"mat2": true, "mat3": true, "mat4": true,
		"sampler2D": true,
	}
)

type declarations struct {
	attribs  []string
	uniforms []string
	varyings map[string]string
}

// scanShader reads the global declarations of a GLSL ES 1.0 shader. It is
// not a compiler: it checks what a fixed-function backend can honor, which is
// a main function and declarations of known types.
func scanShader(stage Stage, src string) (declarations, error) {
	d := declarations{varyings: make(map[string]string)}
	if strings.TrimSpace(src) == "" {
		return d, &BuildError{Stage: stage, Log: "empty shader source"}
	}
	if !mainRe.MatchString(src) {
		return d, &BuildError{Stage: stage, Log: "ERROR: 0:0: missing function main"}
	}

	sc := bufio.NewScanner(strings.NewReader(src))
	line := 0
	for sc.Scan() {
		line++
		m := declRe.FindStringSubmatch(sc.Text())
		if m == nil {
			continue
		}
		qual, typ, name := m[1], m[2], m[3]
		if !knownTypes[typ] {
			return d, &BuildError{Stage: stage, Log: fmt.Sprintf("ERROR: 0:%d: '%s' : syntax error", line, typ)}
		}
		switch qual {
		case "attribute":
			if stage != StageVertex {
				return d, &BuildError{Stage: stage, Log: fmt.Sprintf("ERROR: 0:%d: 'attribute' : supported in vertex shaders only", line)}
			}
			d.attribs = append(d.attribs, name)
		case "uniform":
			d.uniforms = append(d.uniforms, name)
		case "varying":
			d.varyings[name] = typ
		}
	}
	return d, nil
}

// Link scans both stages and links them into a Program. Varyings read by the
// fragment shader must be written by the vertex shader with the same type.
func Link(src ProgramSource) (*Program, error) {
	vs, err := scanShader(StageVertex, src.Vertex)
	if err != nil {
		return nil, err
	}
	fs, err := scanShader(StageFragment, src.Fragment)
	if err != nil {
		return nil, err
	}

	for name, typ := range fs.varyings {
		vt, ok := vs.varyings[name]
		if !ok {
			return nil, &BuildError{Stage: StageLink, Log: fmt.Sprintf("varying %q not written by vertex shader", name)}
		}
		if vt != typ {
			return nil, &BuildError{Stage: StageLink, Log: fmt.Sprintf("varying %q declared %s and %s", name, vt, typ)}
		}
	}

	p := &Program{
		attribs:  make(map[string]Location),
		uniforms: make(map[string]Location),
	}
	for _, a := range vs.attribs {
		p.attribs[a] = Location(len(p.attribs))
	}
	for _, u := range append(vs.uniforms, fs.uniforms...) {
		if _, dup := p.uniforms[u]; !dup {
			p.uniforms[u] = Location(len(p.uniforms))
		}
	}
	return p, nil
}
