package model

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-hexpick/common"
)

// objParser accumulates the state of a single OBJ parse.
type objParser struct {
	name      string
	line      int
	coords    []common.Vec3
	normals   []common.Vec3
	texCoords []common.Vec2
	faces     []Face
	faceLines []int
}

// ParseOBJ reads the triangle subset of the Wavefront OBJ format.
//
// Recognized tags are v (x y z), vn (x y z), vt (u v, stored as (u, 1-v)) and f with exactly three
// v/t/n index groups. Extra trailing components such as the w of `v x y z w` are ignored.
// Blank lines and # comments are skipped and other tags are ignored.
// Any malformed number, missing component or vertex index outside the declared positions fails the whole
// parse. Texture and normal indices are checked only when the file declares any vt or vn lines; a file
// without them yields a model whose BuildTexCoords and BuildNormals are empty.
//
// Parameters:
//   - name: the model name, used in errors and as Model.Name
//   - r: the OBJ text
//
// Returns:
//   - Model: the parsed model
//   - error: a common.KindModelParse asset error naming the offending line
func ParseOBJ(name string, r io.Reader) (Model, error) {
	p := &objParser{name: name}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		p.line++
		if err := p.parseLine(sc.Text()); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, &common.AssetError{Kind: common.KindModelParse, Source: name, Log: "read failed", Err: err}
	}
	if err := p.checkIndices(); err != nil {
		return nil, err
	}

	common.Logger().Debug("model: parsed obj", "name", name, "vertices", len(p.coords), "faces", len(p.faces))
	return NewModel(
		WithName(name),
		WithCoords(p.coords),
		WithNormals(p.normals),
		WithTexCoords(p.texCoords),
		WithFaces(p.faces),
	), nil
}

func (p *objParser) errorf(format string, args ...any) error {
	return &common.AssetError{
		Kind:   common.KindModelParse,
		Source: p.name,
		Log:    fmt.Sprintf("line %d: ", p.line) + fmt.Sprintf(format, args...),
	}
}

func (p *objParser) parseLine(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return nil
	}

	tag, args := fields[0], fields[1:]
	switch tag {
	case "v", "vn":
		v, err := p.floats(tag, args, 3)
		if err != nil {
			return err
		}
		if tag == "v" {
			p.coords = append(p.coords, common.Vec3{v[0], v[1], v[2]})
		} else {
			p.normals = append(p.normals, common.Vec3{v[0], v[1], v[2]})
		}
	case "vt":
		v, err := p.floats(tag, args, 2)
		if err != nil {
			return err
		}
		p.texCoords = append(p.texCoords, common.Vec2{v[0], 1 - v[1]})
	case "f":
		f, err := p.face(args)
		if err != nil {
			return err
		}
		p.faces = append(p.faces, f)
		p.faceLines = append(p.faceLines, p.line)
	}
	return nil
}

func (p *objParser) floats(tag string, args []string, n int) ([]float32, error) {
	if len(args) < n {
		return nil, p.errorf("%s wants %d numbers, got %d", tag, n, len(args))
	}
	out := make([]float32, n)
	for i, a := range args[:n] {
		f, err := strconv.ParseFloat(a, 32)
		if err != nil {
			return nil, p.errorf("%s: bad number %q", tag, a)
		}
		out[i] = float32(f)
	}
	return out, nil
}

func (p *objParser) face(args []string) (Face, error) {
	var f Face
	if len(args) != 3 {
		return f, p.errorf("f wants 3 vertex groups, got %d", len(args))
	}
	for i, group := range args {
		parts := strings.Split(group, "/")
		if len(parts) != 3 {
			return f, p.errorf("f: group %q is not v/t/n", group)
		}
		var idx [3]int
		for k, s := range parts {
			n, err := strconv.Atoi(s)
			if err != nil {
				return f, p.errorf("f: bad index %q in group %q", s, group)
			}
			idx[k] = n
		}
		f.Vertex[i], f.Texture[i], f.Normal[i] = idx[0], idx[1], idx[2]
	}
	return f, nil
}

// checkIndices runs after the whole file is read so faces may precede the data they reference.
// Texture and normal indices of a file without vt or vn lines are never resolved, so they go unchecked.
func (p *objParser) checkIndices() error {
	for i, f := range p.faces {
		for k := 0; k < 3; k++ {
			var msg string
			switch {
			case f.Vertex[k] < 1 || f.Vertex[k] > len(p.coords):
				msg = fmt.Sprintf("vertex index %d out of range [1, %d]", f.Vertex[k], len(p.coords))
			case len(p.texCoords) > 0 && (f.Texture[k] < 1 || f.Texture[k] > len(p.texCoords)):
				msg = fmt.Sprintf("texture index %d out of range [1, %d]", f.Texture[k], len(p.texCoords))
			case len(p.normals) > 0 && (f.Normal[k] < 1 || f.Normal[k] > len(p.normals)):
				msg = fmt.Sprintf("normal index %d out of range [1, %d]", f.Normal[k], len(p.normals))
			default:
				continue
			}
			p.line = p.faceLines[i]
			return p.errorf("f: %s", msg)
		}
	}
	return nil
}
