package shader

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// layoutLocationRegex captures the location value of a layout(...) qualifier.
var layoutLocationRegex = regexp.MustCompile(`location\s*=\s*(\d+)`)

// arraySuffixRegex captures `name[N]`.
var arraySuffixRegex = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\s*\[\s*(\d+)\s*\]$`)

// identifierRegex matches a plain GLSL identifier.
var identifierRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// parseDeclarations extracts every top-level in / out / uniform variable from GLSL source.
// Declarations inside functions or interface blocks are ignored: only statements at brace depth zero are considered.
// Legacy qualifiers are mapped by stage: `attribute` is an input, `varying` is an output of a vertex shader
// and an input of a fragment shader.
//
// Parameters:
//   - source: pre-processed GLSL source
//   - shaderType: the stage the source belongs to, used to resolve `varying`
//
// Returns:
//   - []Declaration: declarations in source order
//   - error: an error if a qualifier line cannot be parsed
func parseDeclarations(source string, shaderType ShaderType) ([]Declaration, error) {
	cleaned := stripComments(source)
	var decls []Declaration

	depth := 0
	line := 1
	stmtLine := 1
	var stmt strings.Builder

	for i := 0; i < len(cleaned); i++ {
		c := cleaned[i]
		switch c {
		case '\n':
			line++
			// pre-processor directives end at the newline and are not statements
			if strings.HasPrefix(strings.TrimSpace(stmt.String()), "#") {
				stmt.Reset()
				stmtLine = line
				continue
			}
			if stmt.Len() > 0 {
				stmt.WriteByte(' ')
			}
			continue
		case '{':
			depth++
			stmt.Reset()
			stmtLine = line
			continue
		case '}':
			if depth > 0 {
				depth--
			}
			stmt.Reset()
			stmtLine = line
			continue
		case ';':
			if depth == 0 {
				parsed, err := parseStatement(stmt.String(), stmtLine, shaderType)
				if err != nil {
					return nil, err
				}
				decls = append(decls, parsed...)
			}
			stmt.Reset()
			stmtLine = line
			continue
		}
		if stmt.Len() == 0 && (c == ' ' || c == '\t' || c == '\r') {
			continue
		}
		if stmt.Len() == 0 {
			stmtLine = line
		}
		stmt.WriteByte(c)
	}

	return decls, nil
}

// parseStatement parses one top-level statement (without its trailing semicolon).
// Statements that are not variable declarations with a storage qualifier yield nil.
//
// Parameters:
//   - stmt: the raw statement text
//   - line: 1-based line where the statement starts
//   - shaderType: the stage the source belongs to
//
// Returns:
//   - []Declaration: one entry per declared name (`uniform float a, b;` declares two)
//   - error: an error if the statement carries a qualifier but is malformed
func parseStatement(stmt string, line int, shaderType ShaderType) ([]Declaration, error) {
	stmt = strings.TrimSpace(stmt)
	if stmt == "" || strings.HasPrefix(stmt, "#") {
		return nil, nil
	}

	location := -1
	if strings.HasPrefix(stmt, "layout") {
		open := strings.Index(stmt, "(")
		closing := strings.Index(stmt, ")")
		if open < 0 || closing < open {
			return nil, fmt.Errorf("line %d: malformed layout qualifier", line)
		}
		if m := layoutLocationRegex.FindStringSubmatch(stmt[open:closing]); m != nil {
			location, _ = strconv.Atoi(m[1])
		}
		stmt = strings.TrimSpace(stmt[closing+1:])
	}

	fields := strings.Fields(stmt)
	var interpolation string
	skipAuxiliary := func() {
		for len(fields) > 0 {
			mode, ok := glslInterpolations[fields[0]]
			if !ok {
				return
			}
			if mode {
				interpolation = fields[0]
			}
			fields = fields[1:]
		}
	}
	skipAuxiliary()
	if len(fields) == 0 {
		return nil, nil
	}

	var qualifier StorageQualifier
	switch fields[0] {
	case "in", "attribute":
		qualifier = QualifierIn
	case "out":
		qualifier = QualifierOut
	case "uniform":
		qualifier = QualifierUniform
	case "varying":
		qualifier = QualifierOut
		if shaderType == ShaderTypeFragment {
			qualifier = QualifierIn
		}
	default:
		return nil, nil
	}
	fields = fields[1:]

	for len(fields) > 0 {
		if glslPrecisions[fields[0]] {
			fields = fields[1:]
			continue
		}
		if _, ok := glslInterpolations[fields[0]]; !ok {
			break
		}
		skipAuxiliary()
	}
	if len(fields) < 2 {
		return nil, fmt.Errorf("line %d: %s declaration is missing a type or name", line, qualifier)
	}

	typeName := fields[0]
	names := strings.Split(strings.Join(fields[1:], " "), ",")
	decls := make([]Declaration, 0, len(names))
	for _, raw := range names {
		raw = strings.TrimSpace(raw)
		if eq := strings.Index(raw, "="); eq >= 0 {
			raw = strings.TrimSpace(raw[:eq])
		}
		d := Declaration{
			Qualifier:     qualifier,
			Type:          typeName,
			Location:      location,
			Interpolation: interpolation,
			Line:          line,
		}
		if m := arraySuffixRegex.FindStringSubmatch(raw); m != nil {
			d.Name = m[1]
			d.ArraySize, _ = strconv.Atoi(m[2])
		} else if identifierRegex.MatchString(raw) {
			d.Name = raw
		} else {
			return nil, fmt.Errorf("line %d: invalid identifier %q in %s declaration", line, raw, qualifier)
		}
		decls = append(decls, d)
	}
	return decls, nil
}

// stripComments removes // and /* */ comments from GLSL source while preserving newlines so line numbers stay stable.
//
// Parameters:
//   - source: raw GLSL source string
//
// Returns:
//   - string: source with all comments removed
func stripComments(source string) string {
	var sb strings.Builder
	sb.Grow(len(source))
	inBlock := false
	for i := 0; i < len(source); i++ {
		c := source[i]
		if inBlock {
			if c == '*' && i+1 < len(source) && source[i+1] == '/' {
				inBlock = false
				i++
			} else if c == '\n' {
				sb.WriteByte('\n')
			}
			continue
		}
		if c == '/' && i+1 < len(source) {
			switch source[i+1] {
			case '/':
				for i < len(source) && source[i] != '\n' {
					i++
				}
				if i < len(source) {
					sb.WriteByte('\n')
				}
				continue
			case '*':
				inBlock = true
				i++
				continue
			}
		}
		sb.WriteByte(c)
	}
	return sb.String()
}
