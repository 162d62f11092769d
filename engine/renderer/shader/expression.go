package shader

import (
	"fmt"
	"strconv"
	"unicode"

	"github.com/Carmen-Shannon/oxy-shade/common"
)

// tokenKind identifies a token of a conditional expression.
type tokenKind int

const (
	tokenIdent tokenKind = iota
	tokenNumber
	tokenOp
	tokenLParen
	tokenRParen
)

type token struct {
	kind tokenKind
	text string
}

// tokenize splits a conditional expression into tokens.
func tokenize(expr string) ([]token, error) {
	var out []token
	r := []rune(expr)
	for i := 0; i < len(r); {
		c := r[i]
		switch {
		case unicode.IsSpace(c):
			i++
		case c == '(':
			out = append(out, token{tokenLParen, "("})
			i++
		case c == ')':
			out = append(out, token{tokenRParen, ")"})
			i++
		case unicode.IsDigit(c):
			j := i
			for j < len(r) && unicode.IsDigit(r[j]) {
				j++
			}
			out = append(out, token{tokenNumber, string(r[i:j])})
			i = j
		case c == '_' || unicode.IsLetter(c):
			j := i
			for j < len(r) && (r[j] == '_' || unicode.IsLetter(r[j]) || unicode.IsDigit(r[j])) {
				j++
			}
			out = append(out, token{tokenIdent, string(r[i:j])})
			i = j
		default:
			if i+1 < len(r) {
				two := string(r[i : i+2])
				switch two {
				case "&&", "||", "==", "!=", "<=", ">=":
					out = append(out, token{tokenOp, two})
					i += 2
					continue
				}
			}
			switch c {
			case '!', '<', '>':
				out = append(out, token{tokenOp, string(c)})
				i++
			default:
				return nil, fmt.Errorf("unexpected character %q", c)
			}
		}
	}
	return out, nil
}

// evaluator is a recursive descent evaluator over integer values. Undefined names evaluate
// to 0, boolean defines to 0 or 1.
type evaluator struct {
	tokens []token
	pos    int
	lookup func(name string) (int, bool)
}

// evaluate reports whether expr is non-zero under lookup.
func evaluate(expr string, lookup func(name string) (int, bool)) (bool, error) {
	toks, err := tokenize(expr)
	if err != nil {
		return false, err
	}
	e := &evaluator{tokens: toks, lookup: lookup}
	v, err := e.or()
	if err != nil {
		return false, err
	}
	if e.pos != len(e.tokens) {
		return false, fmt.Errorf("unexpected %q", e.tokens[e.pos].text)
	}
	return v != 0, nil
}

func (e *evaluator) peek() (token, bool) {
	if e.pos >= len(e.tokens) {
		return token{}, false
	}
	return e.tokens[e.pos], true
}

func (e *evaluator) accept(kind tokenKind, text string) bool {
	t, ok := e.peek()
	if ok && t.kind == kind && (text == "" || t.text == text) {
		e.pos++
		return true
	}
	return false
}

func (e *evaluator) or() (int, error) {
	l, err := e.and()
	if err != nil {
		return 0, err
	}
	for e.accept(tokenOp, "||") {
		r, err := e.and()
		if err != nil {
			return 0, err
		}
		l = common.BoolToInt[int](l != 0 || r != 0)
	}
	return l, nil
}

func (e *evaluator) and() (int, error) {
	l, err := e.unary()
	if err != nil {
		return 0, err
	}
	for e.accept(tokenOp, "&&") {
		r, err := e.unary()
		if err != nil {
			return 0, err
		}
		l = common.BoolToInt[int](l != 0 && r != 0)
	}
	return l, nil
}

func (e *evaluator) unary() (int, error) {
	if e.accept(tokenOp, "!") {
		v, err := e.unary()
		if err != nil {
			return 0, err
		}
		return common.BoolToInt[int](v == 0), nil
	}
	return e.comparison()
}

func (e *evaluator) comparison() (int, error) {
	l, err := e.primary()
	if err != nil {
		return 0, err
	}
	t, ok := e.peek()
	if !ok || t.kind != tokenOp {
		return l, nil
	}
	switch t.text {
	case "==", "!=", "<", "<=", ">", ">=":
	default:
		return l, nil
	}
	e.pos++
	r, err := e.primary()
	if err != nil {
		return 0, err
	}
	switch t.text {
	case "==":
		return common.BoolToInt[int](l == r), nil
	case "!=":
		return common.BoolToInt[int](l != r), nil
	case "<":
		return common.BoolToInt[int](l < r), nil
	case "<=":
		return common.BoolToInt[int](l <= r), nil
	case ">":
		return common.BoolToInt[int](l > r), nil
	}
	return common.BoolToInt[int](l >= r), nil
}

func (e *evaluator) primary() (int, error) {
	t, ok := e.peek()
	if !ok {
		return 0, fmt.Errorf("unexpected end of expression")
	}
	switch t.kind {
	case tokenLParen:
		e.pos++
		v, err := e.or()
		if err != nil {
			return 0, err
		}
		if !e.accept(tokenRParen, "") {
			return 0, fmt.Errorf("missing )")
		}
		return v, nil
	case tokenNumber:
		e.pos++
		return strconv.Atoi(t.text)
	case tokenIdent:
		e.pos++
		if t.text == "defined" {
			return e.defined()
		}
		v, _ := e.lookup(t.text)
		return v, nil
	}
	return 0, fmt.Errorf("unexpected %q", t.text)
}

// defined parses the operand of defined: "(NAME)" or "NAME".
func (e *evaluator) defined() (int, error) {
	paren := e.accept(tokenLParen, "")
	t, ok := e.peek()
	if !ok || t.kind != tokenIdent {
		return 0, fmt.Errorf("defined requires a name")
	}
	e.pos++
	if paren && !e.accept(tokenRParen, "") {
		return 0, fmt.Errorf("missing )")
	}
	_, ok = e.lookup(t.text)
	return common.BoolToInt[int](ok), nil
}
