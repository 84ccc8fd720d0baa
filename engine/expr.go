/*
expr.go - Restricted formula evaluator for earnings components

PURPOSE:
  Evaluates configured earnings formulas like

      base_rate * hours_worked * 0.5

  over a fixed variable whitelist. This replaces dynamic code evaluation:
  the grammar is arithmetic only (+ - * /, parentheses, numeric literals,
  whitelisted identifiers), so a formula can never execute code, reach the
  filesystem, or loop.

GRAMMAR:
  expr   = term   { ("+" | "-") term }
  term   = factor { ("*" | "/") factor }
  factor = number | identifier | "(" expr ")" | "-" factor

VARIABLES:
  hours_worked, base_rate, gross_pay, annual_salary, periods_per_year.
  An identifier outside the supplied scope fails with ErrFormulaInvalid.

SEE ALSO:
  - employee.go: SalaryAdjustment.Formula
  - calc.go: Builds the variable scope per employee
*/
package engine

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// FormulaVars is the whitelisted variable scope a formula evaluates against.
type FormulaVars map[string]decimal.Decimal

// EvaluateFormula parses and evaluates a restricted arithmetic formula.
func EvaluateFormula(formula string, vars FormulaVars) (decimal.Decimal, error) {
	p := &formulaParser{input: formula, vars: vars}
	value, err := p.parseExpr()
	if err != nil {
		return decimal.Zero, err
	}
	p.skipSpace()
	if p.pos < len(p.input) {
		return decimal.Zero, fmt.Errorf("%w: unexpected %q at position %d", ErrFormulaInvalid, p.input[p.pos], p.pos)
	}
	return value, nil
}

type formulaParser struct {
	input string
	pos   int
	vars  FormulaVars
}

func (p *formulaParser) skipSpace() {
	for p.pos < len(p.input) && p.input[p.pos] == ' ' {
		p.pos++
	}
}

func (p *formulaParser) peek() byte {
	p.skipSpace()
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

func (p *formulaParser) parseExpr() (decimal.Decimal, error) {
	value, err := p.parseTerm()
	if err != nil {
		return decimal.Zero, err
	}
	for {
		switch p.peek() {
		case '+':
			p.pos++
			rhs, err := p.parseTerm()
			if err != nil {
				return decimal.Zero, err
			}
			value = value.Add(rhs)
		case '-':
			p.pos++
			rhs, err := p.parseTerm()
			if err != nil {
				return decimal.Zero, err
			}
			value = value.Sub(rhs)
		default:
			return value, nil
		}
	}
}

func (p *formulaParser) parseTerm() (decimal.Decimal, error) {
	value, err := p.parseFactor()
	if err != nil {
		return decimal.Zero, err
	}
	for {
		switch p.peek() {
		case '*':
			p.pos++
			rhs, err := p.parseFactor()
			if err != nil {
				return decimal.Zero, err
			}
			value = value.Mul(rhs)
		case '/':
			p.pos++
			rhs, err := p.parseFactor()
			if err != nil {
				return decimal.Zero, err
			}
			if rhs.IsZero() {
				return decimal.Zero, fmt.Errorf("%w: division by zero", ErrFormulaInvalid)
			}
			value = value.Div(rhs)
		default:
			return value, nil
		}
	}
}

func (p *formulaParser) parseFactor() (decimal.Decimal, error) {
	switch c := p.peek(); {
	case c == '(':
		p.pos++
		value, err := p.parseExpr()
		if err != nil {
			return decimal.Zero, err
		}
		if p.peek() != ')' {
			return decimal.Zero, fmt.Errorf("%w: missing closing parenthesis", ErrFormulaInvalid)
		}
		p.pos++
		return value, nil

	case c == '-':
		p.pos++
		value, err := p.parseFactor()
		if err != nil {
			return decimal.Zero, err
		}
		return value.Neg(), nil

	case c >= '0' && c <= '9', c == '.':
		return p.parseNumber()

	case unicode.IsLetter(rune(c)) || c == '_':
		return p.parseVariable()

	case c == 0:
		return decimal.Zero, fmt.Errorf("%w: unexpected end of formula", ErrFormulaInvalid)

	default:
		return decimal.Zero, fmt.Errorf("%w: unexpected %q", ErrFormulaInvalid, c)
	}
}

func (p *formulaParser) parseNumber() (decimal.Decimal, error) {
	start := p.pos
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if (c < '0' || c > '9') && c != '.' {
			break
		}
		p.pos++
	}
	value, err := decimal.NewFromString(p.input[start:p.pos])
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: bad number %q", ErrFormulaInvalid, p.input[start:p.pos])
	}
	return value, nil
}

func (p *formulaParser) parseVariable() (decimal.Decimal, error) {
	start := p.pos
	for p.pos < len(p.input) {
		c := rune(p.input[p.pos])
		if !unicode.IsLetter(c) && !unicode.IsDigit(c) && c != '_' {
			break
		}
		p.pos++
	}
	name := strings.ToLower(p.input[start:p.pos])
	value, ok := p.vars[name]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: unknown variable %q", ErrFormulaInvalid, name)
	}
	return value, nil
}
