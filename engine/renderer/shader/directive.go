// directive.go defines the directive types and line parser of the shader pre-processor.
// A directive is a source line whose first non-blank character is '#'. Every other line
// is plain WGSL and is emitted or skipped depending on the enclosing conditional blocks.
package shader

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnbalancedDirective is returned when #elif, #else or #endif has no opening #if,
// or when the source ends inside a conditional block.
var ErrUnbalancedDirective = errors.New("unbalanced conditional directive")

// directiveType identifies the kind of a parsed directive line.
type directiveType string

const (
	directiveIfdef   directiveType = "ifdef"
	directiveIfndef  directiveType = "ifndef"
	directiveIf      directiveType = "if"
	directiveElif    directiveType = "elif"
	directiveElse    directiveType = "else"
	directiveEndif   directiveType = "endif"
	directiveDefine  directiveType = "define"
	directiveUndef   directiveType = "undef"
	directiveInclude directiveType = "include"
)

// directive is one parsed directive line.
type directive struct {
	Type directiveType

	// Arg holds the define name (#ifdef, #ifndef, #define, #undef), the expression
	// (#if, #elif) or the include name (#include).
	Arg string

	// Value holds the integer of "#define NAME <int>", nil for a plain flag.
	Value *int

	// RangeFrom and RangeTo hold the "[from..to]" suffix of an indexed include.
	// RangeTo is either an integer literal or a name resolved at process time.
	Indexed   bool
	RangeFrom int
	RangeTo   string

	Line int
}

// parseDirective parses one source line. Lines that are not directives return nil, nil.
//
// Parameters:
//   - line: the raw source line
//   - lineNum: the 1-based line number for error reporting
//
// Returns:
//   - *directive: the parsed directive, or nil if the line is plain source
//   - error: a descriptive error if the directive is malformed
func parseDirective(line string, lineNum int) (*directive, error) {
	trimmed := strings.TrimSpace(line)
	body, ok := strings.CutPrefix(trimmed, "#")
	if !ok {
		return nil, nil
	}
	body = strings.TrimSpace(body)

	if rest, ok := strings.CutPrefix(body, string(directiveInclude)); ok {
		return parseInclude(strings.TrimSpace(rest), lineNum)
	}

	keyword, arg, _ := strings.Cut(body, " ")
	arg = strings.TrimSpace(arg)
	d := &directive{Type: directiveType(keyword), Arg: arg, Line: lineNum}

	switch d.Type {
	case directiveIfdef, directiveIfndef, directiveUndef:
		if arg == "" || strings.ContainsAny(arg, " \t") {
			return nil, fmt.Errorf("line %d: #%s requires exactly one name", lineNum, keyword)
		}
	case directiveIf, directiveElif:
		if arg == "" {
			return nil, fmt.Errorf("line %d: #%s requires an expression", lineNum, keyword)
		}
	case directiveElse, directiveEndif:
		if arg != "" && !strings.HasPrefix(arg, "//") {
			return nil, fmt.Errorf("line %d: unexpected text after #%s", lineNum, keyword)
		}
		d.Arg = ""
	case directiveDefine:
		fields := strings.Fields(arg)
		switch len(fields) {
		case 1:
		case 2:
			v, err := strconv.Atoi(fields[1])
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid #define value %q: %v", lineNum, fields[1], err)
			}
			d.Value = &v
		default:
			return nil, fmt.Errorf("line %d: #define requires a name and an optional integer", lineNum)
		}
		d.Arg = fields[0]
	default:
		return nil, fmt.Errorf("line %d: unknown directive #%s", lineNum, keyword)
	}
	return d, nil
}

// parseInclude parses the part after "#include": "<name>" optionally followed by "[from..to]".
func parseInclude(rest string, lineNum int) (*directive, error) {
	inner, ok := strings.CutPrefix(rest, "<")
	if !ok {
		return nil, fmt.Errorf("line %d: #include requires <name>", lineNum)
	}
	name, suffix, ok := strings.Cut(inner, ">")
	if !ok || strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("line %d: malformed #include %q", lineNum, rest)
	}
	d := &directive{Type: directiveInclude, Arg: strings.TrimSpace(name), Line: lineNum}

	suffix = strings.TrimSpace(suffix)
	if suffix == "" {
		return d, nil
	}
	rng, ok := strings.CutPrefix(suffix, "[")
	if !ok || !strings.HasSuffix(rng, "]") {
		return nil, fmt.Errorf("line %d: malformed #include range %q", lineNum, suffix)
	}
	from, to, ok := strings.Cut(strings.TrimSuffix(rng, "]"), "..")
	if !ok {
		return nil, fmt.Errorf("line %d: #include range requires from..to", lineNum)
	}
	fromInt, err := strconv.Atoi(strings.TrimSpace(from))
	if err != nil {
		return nil, fmt.Errorf("line %d: invalid #include range start %q: %v", lineNum, from, err)
	}
	d.Indexed = true
	d.RangeFrom = fromInt
	d.RangeTo = strings.TrimSpace(to)
	if d.RangeTo == "" {
		return nil, fmt.Errorf("line %d: #include range requires an end", lineNum)
	}
	return d, nil
}
