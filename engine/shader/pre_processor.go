// pre_processor.go implements the GLSL include pre-processor. It scans shader source for
// `#include "path"` directives and splices the referenced file in place, resolving paths
// relative to the including file. Each file is spliced at most once per Process call, so
// shared snippets can be included from several places without redefinition errors.
package shader

import (
	"fmt"
	"io/fs"
	"path"
	"strings"
)

// maxIncludeDepth bounds recursive include chains.
const maxIncludeDepth = 16

// preProcessor is the implementation of the PreProcessor interface.
type preProcessor struct {
	// fsys is the file system include paths are resolved against.
	fsys fs.FS

	// included records every file spliced during the current Process call, in order.
	included []string

	// seen tracks files already spliced during the current Process call.
	seen map[string]bool
}

// PreProcessor expands `#include "file"` directives in GLSL shader source.
type PreProcessor interface {
	// Process reads the file at name from the pre-processor's file system and returns its source with every
	// #include directive replaced by the referenced file's (recursively processed) contents.
	// Include paths are resolved relative to the directory of the file containing the directive.
	//
	// Parameters:
	//   - name: slash-separated path of the root shader file within the file system
	//
	// Returns:
	//   - string: the expanded GLSL source
	//   - error: an error if a file cannot be read, a directive is malformed, or includes nest too deeply
	Process(name string) (string, error)

	// Included returns every file spliced by the most recent Process call, root file first.
	//
	// Returns:
	//   - []string: included file paths in the order they were first spliced
	Included() []string
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a PreProcessor resolving files against fsys.
//
// Parameters:
//   - fsys: the file system shader files live in (e.g. os.DirFS(dir) or an embed.FS)
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor instance
func NewPreProcessor(fsys fs.FS) PreProcessor {
	return &preProcessor{fsys: fsys}
}

func (p *preProcessor) Process(name string) (string, error) {
	p.included = p.included[:0]
	p.seen = make(map[string]bool)
	return p.expand(path.Clean(name), 0)
}

func (p *preProcessor) Included() []string {
	return p.included
}

// expand reads name and recursively splices its includes.
func (p *preProcessor) expand(name string, depth int) (string, error) {
	if depth > maxIncludeDepth {
		return "", fmt.Errorf("%s: include depth exceeds %d", name, maxIncludeDepth)
	}
	p.seen[name] = true
	p.included = append(p.included, name)

	data, err := fs.ReadFile(p.fsys, name)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}

	lines := strings.Split(string(data), "\n")
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		target, ok, err := parseInclude(line)
		if err != nil {
			return "", fmt.Errorf("%s:%d: %w", name, i+1, err)
		}
		if !ok {
			out = append(out, line)
			continue
		}

		resolved := path.Join(path.Dir(name), target)
		if p.seen[resolved] {
			continue
		}
		src, err := p.expand(resolved, depth+1)
		if err != nil {
			return "", err
		}
		out = append(out, src)
	}
	return strings.Join(out, "\n"), nil
}

// parseInclude recognizes an `#include "path"` line.
//
// Parameters:
//   - line: one source line
//
// Returns:
//   - string: the quoted include path
//   - bool: true if the line is an include directive
//   - error: an error if the directive is present but malformed
func parseInclude(line string) (string, bool, error) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "#") {
		return "", false, nil
	}
	rest := strings.TrimSpace(trimmed[1:])
	directive, ok := strings.CutPrefix(rest, "include")
	if !ok {
		return "", false, nil
	}
	directive = strings.TrimSpace(directive)
	if len(directive) < 2 || directive[0] != '"' || directive[len(directive)-1] != '"' {
		return "", false, fmt.Errorf("malformed #include directive %q", trimmed)
	}
	return directive[1 : len(directive)-1], true, nil
}
