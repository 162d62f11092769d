// pre_processor.go implements the define-driven WGSL pre-processor. It is the single place
// where a structured define set is turned into shader text: conditional blocks are resolved
// against the defines, registered include chunks are expanded (optionally once per index of
// a range, with {X} replaced by the index), and integer defines are substituted into the
// emitted source.
//
// Supported directives:
//   - #ifdef NAME / #ifndef NAME
//   - #if <expr> / #elif <expr> / #else / #endif, where <expr> combines defined(NAME), !, &&, ||,
//     parentheses and integer comparisons (==, !=, <, <=, >, >=)
//   - #define NAME [int] / #undef NAME, scoped to the current Process call
//   - #include<name> and #include<name>[from..to], where to is an integer, an index parameter or
//     an integer define
package shader

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/defines"
)

const defaultMaxIncludeDepth = 16

// identRegex matches identifiers that may name an integer define in emitted lines.
var identRegex = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)

// preProcessor is the implementation of the PreProcessor interface.
type preProcessor struct {
	// includes maps include names to their WGSL chunk source.
	includes map[string]string

	// maxIncludeDepth bounds nested includes, which also stops include cycles.
	maxIncludeDepth int
}

// frame is the state of one open conditional block.
type frame struct {
	directive    directiveType
	line         int
	parentActive bool
	active       bool
	taken        bool
	elseSeen     bool
}

// PreProcessor resolves WGSL source containing pre-processor directives against a define set.
type PreProcessor interface {
	// Process resolves every directive in source against defs and returns plain WGSL.
	//
	// Parameters:
	//   - source: the shader source containing directives
	//   - defs: the active define set of the variant
	//   - indexParameters: named loop bounds for indexed includes, may be nil
	//
	// Returns:
	//   - string: the resolved WGSL source
	//   - error: a "line N:" prefixed error for malformed directives, unknown includes or
	//     unbalanced blocks (wrapping ErrUnbalancedDirective)
	Process(source string, defs defines.Set, indexParameters map[string]int) (string, error)

	// RegisterInclude adds or replaces an include chunk.
	//
	// Parameters:
	//   - name: the name used in #include<name>
	//   - source: the chunk source, which may itself contain directives and {X} placeholders
	RegisterInclude(name, source string)

	// Include returns a registered include chunk.
	//
	// Parameters:
	//   - name: the include name
	//
	// Returns:
	//   - string: the chunk source
	//   - bool: true if the include is registered
	Include(name string) (string, bool)
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a PreProcessor with an empty include registry, configured with the
// provided options.
//
// Parameters:
//   - options: variadic list of PreProcessorBuilderOption functions
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor instance
func NewPreProcessor(options ...PreProcessorBuilderOption) PreProcessor {
	p := &preProcessor{
		includes:        make(map[string]string),
		maxIncludeDepth: defaultMaxIncludeDepth,
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *preProcessor) RegisterInclude(name, source string) {
	p.includes[name] = source
}

func (p *preProcessor) Include(name string) (string, bool) {
	src, ok := p.includes[name]
	return src, ok
}

func (p *preProcessor) Process(source string, defs defines.Set, indexParameters map[string]int) (string, error) {
	env := make(map[string]defines.Value, len(defs))
	for _, d := range defs {
		env[string(d.Name)] = d.Value
	}
	out := make([]string, 0, strings.Count(source, "\n")+1)
	if err := p.process(source, env, indexParameters, 0, &out); err != nil {
		return "", err
	}
	return strings.Join(out, "\n"), nil
}

func (p *preProcessor) process(source string, env map[string]defines.Value, indexParameters map[string]int, depth int, out *[]string) error {
	var stack []frame
	active := func() bool {
		return len(stack) == 0 || stack[len(stack)-1].active
	}
	lookup := func(name string) (int, bool) {
		v, ok := env[name]
		if !ok {
			return 0, false
		}
		return v.AsInt(), true
	}

	for i, line := range strings.Split(source, "\n") {
		n := i + 1
		d, err := parseDirective(line, n)
		if err != nil {
			return err
		}
		if d == nil {
			if active() {
				*out = append(*out, substitute(line, env))
			}
			continue
		}

		switch d.Type {
		case directiveIfdef, directiveIfndef, directiveIf:
			f := frame{directive: d.Type, line: n, parentActive: active()}
			if f.parentActive {
				var cond bool
				switch d.Type {
				case directiveIfdef:
					_, cond = env[d.Arg]
				case directiveIfndef:
					_, cond = env[d.Arg]
					cond = !cond
				default:
					if cond, err = evaluate(d.Arg, lookup); err != nil {
						return fmt.Errorf("line %d: #if %q: %v", n, d.Arg, err)
					}
				}
				f.active = cond
				f.taken = cond
			}
			stack = append(stack, f)
		case directiveElif:
			if len(stack) == 0 {
				return fmt.Errorf("line %d: #elif without #if: %w", n, ErrUnbalancedDirective)
			}
			top := &stack[len(stack)-1]
			if top.elseSeen {
				return fmt.Errorf("line %d: #elif after #else: %w", n, ErrUnbalancedDirective)
			}
			if !top.parentActive || top.taken {
				top.active = false
				continue
			}
			cond, err := evaluate(d.Arg, lookup)
			if err != nil {
				return fmt.Errorf("line %d: #elif %q: %v", n, d.Arg, err)
			}
			top.active = cond
			top.taken = cond
		case directiveElse:
			if len(stack) == 0 {
				return fmt.Errorf("line %d: #else without #if: %w", n, ErrUnbalancedDirective)
			}
			top := &stack[len(stack)-1]
			if top.elseSeen {
				return fmt.Errorf("line %d: duplicate #else: %w", n, ErrUnbalancedDirective)
			}
			top.elseSeen = true
			top.active = top.parentActive && !top.taken
			top.taken = true
		case directiveEndif:
			if len(stack) == 0 {
				return fmt.Errorf("line %d: #endif without #if: %w", n, ErrUnbalancedDirective)
			}
			stack = stack[:len(stack)-1]
		case directiveDefine:
			if active() {
				if d.Value != nil {
					env[d.Arg] = defines.Int(*d.Value)
				} else {
					env[d.Arg] = defines.Bool(true)
				}
			}
		case directiveUndef:
			if active() {
				delete(env, d.Arg)
			}
		case directiveInclude:
			if !active() {
				continue
			}
			if err := p.include(d, env, indexParameters, depth, out); err != nil {
				return err
			}
		default:
			return fmt.Errorf("line %d: unknown directive #%s", n, d.Type)
		}
	}

	if len(stack) > 0 {
		top := stack[len(stack)-1]
		return fmt.Errorf("line %d: unterminated #%s: %w", top.line, top.directive, ErrUnbalancedDirective)
	}
	return nil
}

// include expands one #include directive into out.
func (p *preProcessor) include(d *directive, env map[string]defines.Value, indexParameters map[string]int, depth int, out *[]string) error {
	src, ok := p.includes[d.Arg]
	if !ok {
		return fmt.Errorf("line %d: unknown include %q", d.Line, d.Arg)
	}
	if depth >= p.maxIncludeDepth {
		return fmt.Errorf("line %d: include %q exceeds depth %d", d.Line, d.Arg, p.maxIncludeDepth)
	}
	if !d.Indexed {
		if err := p.process(src, env, indexParameters, depth+1, out); err != nil {
			return fmt.Errorf("include %q: %w", d.Arg, err)
		}
		return nil
	}

	to, err := resolveRangeEnd(d.RangeTo, env, indexParameters)
	if err != nil {
		return fmt.Errorf("line %d: include %q: %v", d.Line, d.Arg, err)
	}
	for i := d.RangeFrom; i < to; i++ {
		chunk := strings.ReplaceAll(src, "{X}", strconv.Itoa(i))
		if err := p.process(chunk, env, indexParameters, depth+1, out); err != nil {
			return fmt.Errorf("include %q[%d]: %w", d.Arg, i, err)
		}
	}
	return nil
}

// resolveRangeEnd resolves the end of an include range: an integer literal, an index
// parameter or an integer define, in that order.
func resolveRangeEnd(to string, env map[string]defines.Value, indexParameters map[string]int) (int, error) {
	if v, err := strconv.Atoi(to); err == nil {
		return v, nil
	}
	if v, ok := indexParameters[to]; ok {
		return v, nil
	}
	if v, ok := env[to]; ok && v.IsInt() {
		return v.AsInt(), nil
	}
	return 0, fmt.Errorf("unresolved range end %q", to)
}

// substitute replaces integer define identifiers in an emitted line with their values.
func substitute(line string, env map[string]defines.Value) string {
	return identRegex.ReplaceAllStringFunc(line, func(w string) string {
		if v, ok := env[w]; ok && v.IsInt() {
			return strconv.Itoa(v.AsInt())
		}
		return w
	})
}
