package problemgen

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode"
)

// ErrNotComputable is returned by Evaluate for text it cannot parse.
var ErrNotComputable = errors.New("expression not computable")

// Verify recomputes the answer from the question text and reports a
// mismatch. It never trusts Question.Answer or Operands.
func Verify(q Question) error {
	got, err := Evaluate(q.Text)
	if err != nil {
		return err
	}
	if got != q.Answer {
		return fmt.Errorf("%q: computed %d but question claims %d", q.Text, got, q.Answer)
	}
	return nil
}

// Evaluate computes the integer value of a question text such as
// "(3 + 4) × 2 = ?". It understands + - × * ÷ / parentheses and
// superscript exponents. Division must be exact.
func Evaluate(text string) (int, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(text, "?")
	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(text, "=")

	p := &exprParser{src: []rune(text)}
	v, err := p.expr()
	if err != nil {
		return 0, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return 0, fmt.Errorf("%w: unexpected %q", ErrNotComputable, string(p.src[p.pos:]))
	}
	return v, nil
}

type exprParser struct {
	src []rune
	pos int
}

func (p *exprParser) skipSpace() {
	for p.pos < len(p.src) && unicode.IsSpace(p.src[p.pos]) {
		p.pos++
	}
}

func (p *exprParser) peek() rune {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *exprParser) expr() (int, error) {
	v, err := p.term()
	if err != nil {
		return 0, err
	}
	for {
		switch p.peek() {
		case '+':
			p.pos++
			rhs, err := p.term()
			if err != nil {
				return 0, err
			}
			v += rhs
		case '-':
			p.pos++
			rhs, err := p.term()
			if err != nil {
				return 0, err
			}
			v -= rhs
		default:
			return v, nil
		}
	}
}

func (p *exprParser) term() (int, error) {
	v, err := p.power()
	if err != nil {
		return 0, err
	}
	for {
		switch op := p.peek(); op {
		case '×', '*':
			p.pos++
			rhs, err := p.power()
			if err != nil {
				return 0, err
			}
			v *= rhs
		case '÷', '/':
			p.pos++
			rhs, err := p.power()
			if err != nil {
				return 0, err
			}
			if rhs == 0 {
				return 0, fmt.Errorf("%w: division by zero", ErrNotComputable)
			}
			if v%rhs != 0 {
				return 0, fmt.Errorf("%w: %d ÷ %d is not exact", ErrNotComputable, v, rhs)
			}
			v /= rhs
		default:
			return v, nil
		}
	}
}

func (p *exprParser) power() (int, error) {
	base, err := p.primary()
	if err != nil {
		return 0, err
	}
	exp, ok := p.superscript()
	if !ok {
		return base, nil
	}
	return pow(base, exp), nil
}

func (p *exprParser) primary() (int, error) {
	switch r := p.peek(); {
	case r == '(':
		p.pos++
		v, err := p.expr()
		if err != nil {
			return 0, err
		}
		if p.peek() != ')' {
			return 0, fmt.Errorf("%w: missing )", ErrNotComputable)
		}
		p.pos++
		return v, nil
	case r == '-':
		p.pos++
		v, err := p.primary()
		return -v, err
	case r >= '0' && r <= '9':
		v := 0
		for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
			v = v*10 + int(p.src[p.pos]-'0')
			p.pos++
		}
		return v, nil
	case r == 0:
		return 0, fmt.Errorf("%w: unexpected end", ErrNotComputable)
	default:
		return 0, fmt.Errorf("%w: unexpected %q", ErrNotComputable, r)
	}
}

// superscript reads superscript digits directly after a primary.
func (p *exprParser) superscript() (int, bool) {
	v, read := 0, false
	for p.pos < len(p.src) {
		d := slices.Index(superscriptDigits, p.src[p.pos])
		if d < 0 {
			break
		}
		v = v*10 + d
		read = true
		p.pos++
	}
	return v, read
}
