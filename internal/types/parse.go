package types

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/fedcore/internal/placement"
)

// ParseError describes a malformed type literal.
type ParseError struct {
	Input   string
	Pos     int
	Message string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse type %q at offset %d: %s", e.Input, e.Pos, e.Message)
}

// Parse reads a type from its canonical text form. Whitespace between
// tokens is ignored. Placement names are resolved through the placement
// registry; an unknown placement is an error.
func Parse(s string) (Type, error) {
	p := &parser{src: s}
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if p.peek() != 0 {
		return nil, p.errorf("unexpected trailing input %q", p.src[p.pos:])
	}
	return t, nil
}

// MustParse is like Parse but panics on error.
// Use only in tests or with literals known to be valid.
func MustParse(s string) Type {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}

type parser struct {
	src string
	pos int
}

func (p *parser) errorf(format string, args ...any) error {
	return &ParseError{Input: p.src, Pos: p.pos, Message: fmt.Sprintf(format, args...)}
}

// peek skips whitespace and returns the next byte, or 0 at end of input.
func (p *parser) peek() byte {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t' || p.src[p.pos] == '\n') {
		p.pos++
	}
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) expect(tok string) error {
	p.peek()
	if !strings.HasPrefix(p.src[p.pos:], tok) {
		return p.errorf("expected %q", tok)
	}
	p.pos += len(tok)
	return nil
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func (p *parser) ident() (string, error) {
	if c := p.peek(); !isIdentStart(c) {
		return "", p.errorf("expected identifier")
	}
	start := p.pos
	for p.pos < len(p.src) && isIdentPart(p.src[p.pos]) {
		p.pos++
	}
	return p.src[start:p.pos], nil
}

func (p *parser) placement() (*placement.Literal, error) {
	if err := p.expect("@"); err != nil {
		return nil, err
	}
	name, err := p.ident()
	if err != nil {
		return nil, err
	}
	lit, ok := placement.Lookup(name)
	if !ok {
		return nil, p.errorf("unknown placement %q", name)
	}
	return lit, nil
}

// type := postfix ['@' PLACEMENT]
func (p *parser) parseType() (Type, error) {
	t, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}
	if p.peek() == '@' {
		lit, err := p.placement()
		if err != nil {
			return nil, err
		}
		return Federated(t, lit, true), nil
	}
	return t, nil
}

// postfix := primary {'*'}
func (p *parser) parsePostfix() (Type, error) {
	t, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.peek() == '*' {
		p.pos++
		t = Sequence(t)
	}
	return t, nil
}

func (p *parser) parsePrimary() (Type, error) {
	switch c := p.peek(); {
	case c == '{':
		p.pos++
		member, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if err := p.expect("}"); err != nil {
			return nil, err
		}
		lit, err := p.placement()
		if err != nil {
			return nil, err
		}
		return Federated(member, lit, false), nil
	case c == '<':
		p.pos++
		return p.parseTuple()
	case c == '(':
		p.pos++
		return p.parseFunction()
	case isIdentStart(c):
		return p.parseTensor()
	case c == 0:
		return nil, p.errorf("unexpected end of input")
	default:
		return nil, p.errorf("unexpected character %q", c)
	}
}

func (p *parser) parseTuple() (Type, error) {
	var elements []Element
	if p.peek() == '>' {
		p.pos++
		return NamedTuple(), nil
	}
	for {
		name := ""
		save := p.pos
		if isIdentStart(p.peek()) {
			id, err := p.ident()
			if err != nil {
				return nil, err
			}
			if p.peek() == '=' {
				p.pos++
				name = id
			} else {
				p.pos = save
			}
		}
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		elements = append(elements, Element{Name: name, Type: t})
		switch p.peek() {
		case ',':
			p.pos++
		case '>':
			p.pos++
			return NamedTuple(elements...), nil
		default:
			return nil, p.errorf("expected ',' or '>'")
		}
	}
}

func (p *parser) parseFunction() (Type, error) {
	var param Type
	p.peek()
	if !strings.HasPrefix(p.src[p.pos:], "->") {
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		param = t
	}
	if err := p.expect("->"); err != nil {
		return nil, err
	}
	result, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if err := p.expect(")"); err != nil {
		return nil, err
	}
	return Function(param, result), nil
}

func (p *parser) parseTensor() (Type, error) {
	start := p.pos
	name, err := p.ident()
	if err != nil {
		return nil, err
	}
	d, ok := LookupDType(name)
	if !ok {
		p.pos = start
		return nil, p.errorf("unknown dtype %q", name)
	}
	if p.peek() != '[' {
		return Tensor(d), nil
	}
	p.pos++
	var dims []int
	for {
		switch c := p.peek(); {
		case c == '?':
			p.pos++
			dims = append(dims, UnknownDim)
		case c >= '0' && c <= '9':
			s := p.pos
			for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
				p.pos++
			}
			n, err := strconv.Atoi(p.src[s:p.pos])
			if err != nil {
				return nil, p.errorf("invalid dimension: %v", err)
			}
			dims = append(dims, n)
		default:
			return nil, p.errorf("expected dimension")
		}
		switch p.peek() {
		case ',':
			p.pos++
		case ']':
			p.pos++
			return Tensor(d, dims...), nil
		default:
			return nil, p.errorf("expected ',' or ']'")
		}
	}
}
