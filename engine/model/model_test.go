package model

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-hexpick/common"
)

const triangleOBJ = `# one triangle
v 0 0 0
v 1 0 0
v 0 1 0
vt 0.2 0.3
vn 0 0 1

f 1/1/1 2/1/1 3/1/1
`

func TestParseOBJTriangle(t *testing.T) {
	m, err := ParseOBJ("tri.obj", strings.NewReader(triangleOBJ))
	if err != nil {
		t.Fatalf("ParseOBJ() error = %v", err)
	}
	if m.Name() != "tri.obj" || m.FaceCount() != 1 {
		t.Errorf("Name() = %q, FaceCount() = %d", m.Name(), m.FaceCount())
	}

	want := []common.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	if got := m.Build(); !slices.Equal(got, want) {
		t.Errorf("Build() = %v, want %v", got, want)
	}

	uv := m.BuildTexCoords()
	if len(uv) != 3 {
		t.Fatalf("len(BuildTexCoords()) = %d, want 3", len(uv))
	}
	v := float32(0.3)
	for _, c := range uv {
		if c.X() != 0.2 || c.Y() != 1-v {
			t.Errorf("texture coordinate = %v, want (0.2, 0.7)", c)
		}
	}

	if n := m.BuildNormals(); len(n) != 3 || n[0] != (common.Vec3{0, 0, 1}) {
		t.Errorf("BuildNormals() = %v", n)
	}
}

func TestParseOBJPositionsOnly(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1/1/1 2/1/1 3/1/1\n"
	m, err := ParseOBJ("plain.obj", strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseOBJ() error = %v", err)
	}
	want := []common.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	if got := m.Build(); !slices.Equal(got, want) {
		t.Errorf("Build() = %v, want %v", got, want)
	}
	if uv := m.BuildTexCoords(); uv != nil {
		t.Errorf("BuildTexCoords() = %v, want nil", uv)
	}
	if n := m.BuildNormals(); n != nil {
		t.Errorf("BuildNormals() = %v, want nil", n)
	}
}

func TestParseOBJIgnoresExtraComponents(t *testing.T) {
	src := "v 0 0 0 1\nv 2 0 0 1\nv 0 2 0 1\nvt 0.25 0.5 0\nvn 0 0 1\nf 1/1/1 2/1/1 3/1/1\n"
	m, err := ParseOBJ("exported.obj", strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseOBJ() error = %v", err)
	}
	want := []common.Vec3{{0, 0, 0}, {2, 0, 0}, {0, 2, 0}}
	if got := m.Build(); !slices.Equal(got, want) {
		t.Errorf("Build() = %v, want %v", got, want)
	}
	if uv := m.TexCoords(); len(uv) != 1 || uv[0] != (common.Vec2{0.25, 0.5}) {
		t.Errorf("TexCoords() = %v, want [(0.25, 0.5)]", uv)
	}
}

func TestParseOBJFaceOrder(t *testing.T) {
	src := `v 0 0 0
v 1 0 0
v 0 1 0
v 1 1 0
vt 0 0
vn 0 0 1
f 4/1/1 3/1/1 2/1/1
f 1/1/1 2/1/1 3/1/1
o ignored
s off
usemtl also_ignored
`
	m, err := ParseOBJ("quad.obj", strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseOBJ() error = %v", err)
	}
	want := []common.Vec3{{1, 1, 0}, {0, 1, 0}, {1, 0, 0}, {0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	if got := m.Build(); !slices.Equal(got, want) {
		t.Errorf("Build() = %v, want %v", got, want)
	}

	lo, hi := m.Bounds()
	if lo != (common.Vec3{0, 0, 0}) || hi != (common.Vec3{1, 1, 0}) {
		t.Errorf("Bounds() = %v, %v", lo, hi)
	}
}

func TestParseOBJErrors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		wantLine string
	}{
		{"bad float", "v 0 0 0\nv 1 x 0\n", "line 2"},
		{"short vertex", "v 0 0\n", "line 1"},
		{"short texcoord", "vt 0\n", "line 1"},
		{"bad index", "v 0 0 0\nvt 0 0\nvn 0 0 1\nf 1/1/1 a/1/1 1/1/1\n", "line 4"},
		{"quad", "v 0 0 0\nvt 0 0\nvn 0 0 1\nf 1/1/1 1/1/1 1/1/1 1/1/1\n", "line 4"},
		{"missing texture index", "v 0 0 0\nvn 0 0 1\nf 1//1 1//1 1//1\n", "line 3"},
		{"vertex index out of range", "v 0 0 0\nvt 0 0\nvn 0 0 1\n\nf 1/1/1 2/1/1 1/1/1\n", "line 5"},
		{"zero index", "v 0 0 0\nvt 0 0\nvn 0 0 1\nf 0/1/1 1/1/1 1/1/1\n", "line 4"},
		{"normal index out of range", "v 0 0 0\nvt 0 0\nvn 0 0 1\nf 1/1/1 1/1/2 1/1/1\n", "line 4"},
		{"texture index out of range", "v 0 0 0\nvt 0 0\nf 1/1/1 1/3/1 1/1/1\n", "line 3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ParseOBJ("bad.obj", strings.NewReader(tt.src))
			if m != nil {
				t.Error("ParseOBJ() returned a partial model")
			}
			if !errors.Is(err, common.ErrAsset) {
				t.Fatalf("ParseOBJ() error = %v, want an asset error", err)
			}
			if kind, _ := common.AssetKind(err); kind != common.KindModelParse {
				t.Errorf("kind = %v, want %v", kind, common.KindModelParse)
			}
			if !strings.Contains(err.Error(), tt.wantLine) || !strings.Contains(err.Error(), "bad.obj") {
				t.Errorf("error %q does not name %s of bad.obj", err, tt.wantLine)
			}
		})
	}
}

func TestNewModelOptions(t *testing.T) {
	m := NewModel(
		WithName("hand"),
		WithCoords([]common.Vec3{{0, 0, 0}, {2, 0, 0}, {0, 2, 0}}),
		WithTexCoords([]common.Vec2{{0, 1}}),
		WithNormals([]common.Vec3{{0, 0, 1}}),
		WithFaces([]Face{{Vertex: [3]int{3, 2, 1}, Texture: [3]int{1, 1, 1}, Normal: [3]int{1, 1, 1}}}),
	)
	if got := m.Build(); got[0] != (common.Vec3{0, 2, 0}) || got[2] != (common.Vec3{0, 0, 0}) {
		t.Errorf("Build() = %v", got)
	}

	empty := NewModel()
	if len(empty.Build()) != 0 {
		t.Errorf("empty Build() = %v", empty.Build())
	}
	if lo, hi := empty.Bounds(); lo != (common.Vec3{}) || hi != (common.Vec3{}) {
		t.Errorf("empty Bounds() = %v, %v", lo, hi)
	}
}
