package cyquery

import (
	"strings"
)

// parsePropertyValue parses one PropertyValue by the ordered alternatives in
// C3: string, number, boolean, null, list, map, parameter, function call,
// then identifier/property access.
func (p *Parser) parsePropertyValue() (Expression, bool) {
	s := p.s
	s.skipWhitespace()
	start := s.pos

	if str, ok := s.stringLiteral(); ok {
		return &Literal{Value: str, Span: Span{start, s.pos}}, true
	}

	if n, ok := s.numberLiteral(); ok {
		return &Literal{Value: n, Span: Span{start, s.pos}}, true
	}

	if s.keyword("true") {
		return &Literal{Value: true, Span: Span{start, s.pos}}, true
	}
	if s.keyword("false") {
		return &Literal{Value: false, Span: Span{start, s.pos}}, true
	}
	if s.keyword("null") || s.keyword("NULL") {
		return &Literal{Value: nil, Span: Span{start, s.pos}}, true
	}

	if s.peek() == '[' {
		return p.parseListLiteral()
	}

	if s.peek() == '{' {
		return p.parseMapLiteral()
	}

	if s.peek() == '$' {
		mark := s.mark()
		s.pos++
		name, ok := s.identifier()
		if !ok {
			s.reset(mark)
		} else {
			return &Parameter{Name: name, Span: Span{start, s.pos}}, true
		}
	}

	return p.parseFunctionCallOrAccess()
}

func (p *Parser) parseListLiteral() (Expression, bool) {
	s := p.s
	start := s.pos
	if !s.consumeByte('[') {
		return nil, false
	}
	var items []Expression
	s.skipWhitespace()
	if s.peek() != ']' {
		for {
			s.skipWhitespace()
			v, ok := p.parsePropertyValue()
			if !ok {
				return nil, false
			}
			items = append(items, v)
			s.skipWhitespace()
			if s.consumeByte(',') {
				continue
			}
			break
		}
	}
	s.skipWhitespace()
	if !s.consumeByte(']') {
		return nil, false
	}
	return &ListLiteral{Items: items, Span: Span{start, s.pos}}, true
}

func (p *Parser) parseMapLiteral() (Expression, bool) {
	s := p.s
	start := s.pos
	entries, ok := p.parsePropertyMap()
	if !ok {
		return nil, false
	}
	return &MapLiteral{Entries: entries, Span: Span{start, s.pos}}, true
}

// parsePropertyMap parses `{ key: value, ... }`, returning (nil, true) for
// an empty map `{}` and (nil, false) when the input does not start with '{'
// or the map is malformed.
func (p *Parser) parsePropertyMap() ([]PropertyKV, bool) {
	s := p.s
	s.skipWhitespace()
	if !s.consumeByte('{') {
		return nil, false
	}
	var entries []PropertyKV
	s.skipWhitespace()
	if s.peek() != '}' {
		for {
			s.skipWhitespace()
			key, ok := s.identifier()
			if !ok {
				return nil, false
			}
			s.skipWhitespace()
			if !s.consumeByte(':') {
				return nil, false
			}
			s.skipWhitespace()
			value, ok := p.parsePropertyValue()
			if !ok {
				return nil, false
			}
			entries = append(entries, PropertyKV{Key: key, Value: value})
			s.skipWhitespace()
			if s.consumeByte(',') {
				continue
			}
			break
		}
	}
	s.skipWhitespace()
	if !s.consumeByte('}') {
		return nil, false
	}
	return entries, true
}

// parseFunctionCallOrAccess parses `ident(args)`, `ns.ident(args)`,
// `ident.ident` (property access), or a bare `ident`.
func (p *Parser) parseFunctionCallOrAccess() (Expression, bool) {
	s := p.s
	start := s.pos
	first, ok := s.identifier()
	if !ok {
		return nil, false
	}
	name := first
	for {
		mark := s.mark()
		if !s.consumeByte('.') {
			break
		}
		next, ok := s.identifier()
		if !ok {
			s.reset(mark)
			break
		}
		mark2 := s.mark()
		if s.peek() == '(' {
			name = name + "." + next
			continue
		}
		s.reset(mark2)
		if strings.Contains(name, ".") {
			break
		}
		return &PropertyAccess{Variable: name, Property: next, Span: Span{start, s.pos}}, true
	}

	if s.peek() == '(' {
		args, ok := p.parseArgList()
		if !ok {
			return nil, false
		}
		return &FunctionCall{Name: name, Args: args, Span: Span{start, s.pos}}, true
	}

	return &Identifier{Name: name, Span: Span{start, s.pos}}, true
}

func (p *Parser) parseArgList() ([]Expression, bool) {
	s := p.s
	if !s.consumeByte('(') {
		return nil, false
	}
	var args []Expression
	s.skipWhitespace()
	if s.peek() != ')' {
		for {
			s.skipWhitespace()
			arg, ok := p.parsePropertyValue()
			if !ok {
				return nil, false
			}
			args = append(args, arg)
			s.skipWhitespace()
			if s.consumeByte(',') {
				continue
			}
			break
		}
	}
	s.skipWhitespace()
	if !s.consumeByte(')') {
		return nil, false
	}
	return args, true
}

// parseWhereExpression parses a boolean condition at OR precedence (lowest).
func (p *Parser) parseWhereExpression() (Expression, bool) {
	return p.parseOr()
}

func (p *Parser) parseOr() (Expression, bool) {
	s := p.s
	left, ok := p.parseAnd()
	if !ok {
		return nil, false
	}
	for {
		mark := s.mark()
		s.skipWhitespace()
		if !s.keyword("OR") {
			s.reset(mark)
			break
		}
		s.skipWhitespace()
		right, ok := p.parseAnd()
		if !ok {
			s.reset(mark)
			break
		}
		left = &Or{Left: left, Right: right}
	}
	return left, true
}

func (p *Parser) parseAnd() (Expression, bool) {
	s := p.s
	left, ok := p.parseNot()
	if !ok {
		return nil, false
	}
	for {
		mark := s.mark()
		s.skipWhitespace()
		if !s.keyword("AND") {
			s.reset(mark)
			break
		}
		s.skipWhitespace()
		right, ok := p.parseNot()
		if !ok {
			s.reset(mark)
			break
		}
		left = &And{Left: left, Right: right}
	}
	return left, true
}

func (p *Parser) parseNot() (Expression, bool) {
	s := p.s
	s.skipWhitespace()
	mark := s.mark()
	if s.keyword("NOT") {
		s.skipWhitespace()
		inner, ok := p.parseNot()
		if !ok {
			s.reset(mark)
		} else {
			return &Not{Inner: inner}, true
		}
	}
	return p.parseComparison()
}

var comparisonOperators = []string{"<>", "<=", ">=", "=", "<", ">"}

func (p *Parser) parseComparison() (Expression, bool) {
	s := p.s
	left, ok := p.parseConditionPrimary()
	if !ok {
		return nil, false
	}
	for {
		mark := s.mark()
		s.skipWhitespace()
		op := ""
		for _, candidate := range comparisonOperators {
			if s.consumeString(candidate) {
				op = candidate
				break
			}
		}
		if op == "" {
			s.reset(mark)
			break
		}
		s.skipWhitespace()
		right, ok := p.parseConditionPrimary()
		if !ok {
			s.reset(mark)
			break
		}
		left = &Comparison{Left: left, Operator: op, Right: right}
	}
	return left, true
}

func (p *Parser) parseConditionPrimary() (Expression, bool) {
	s := p.s
	s.skipWhitespace()
	if s.peek() == '(' {
		mark := s.mark()
		s.pos++
		s.skipWhitespace()
		inner, ok := p.parseWhereExpression()
		if ok {
			s.skipWhitespace()
			if s.consumeByte(')') {
				return &Parenthesized{Inner: inner}, true
			}
		}
		s.reset(mark)
	}
	return p.parsePropertyValue()
}
