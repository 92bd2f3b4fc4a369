package cyquery

// parseNodePattern parses `( variable? ( ':' label )? ( propertyMap )? )`.
func (p *Parser) parseNodePattern() (*NodePattern, bool) {
	s := p.s
	s.skipWhitespace()
	start := s.pos
	if !s.consumeByte('(') {
		return nil, false
	}

	node := &NodePattern{}
	s.skipWhitespace()
	if variable, ok := s.identifier(); ok {
		node.Variable = variable
	}

	s.skipWhitespace()
	if s.consumeByte(':') {
		label, ok := s.identifier()
		if !ok {
			return nil, false
		}
		node.Label = label
	}

	s.skipWhitespace()
	if s.peek() == '{' {
		props, ok := p.parsePropertyMap()
		if !ok {
			return nil, false
		}
		node.Properties = props
	}

	s.skipWhitespace()
	if !s.consumeByte(')') {
		return nil, false
	}
	node.Span = Span{start, s.pos}
	return node, true
}

// parseLengthRange parses the variable-length quantifier attached directly
// to a relationship body: `*` (min=0,max=∞), `*n` (exact n), `*n..m`
// (either bound optional), or `+` (min=1).
func (p *Parser) parseLengthRange() (*LengthRange, bool) {
	s := p.s
	if s.consumeByte('+') {
		one := 1
		return &LengthRange{Min: &one}, true
	}
	if !s.consumeByte('*') {
		return nil, false
	}
	lr := &LengthRange{}
	if n, ok := s.numberLiteral(); ok {
		i := int(n)
		lr.Min = &i
	}
	if s.consumeString("..") {
		if n, ok := s.numberLiteral(); ok {
			i := int(n)
			lr.Max = &i
		}
	} else if lr.Min != nil {
		// `*n` with no range syntax means an exact hop count.
		max := *lr.Min
		lr.Max = &max
	}
	return lr, true
}

// parseRelationshipPattern parses `leftArrow body rightArrow`. Direction is
// decided by the pair of arrows: (-, ->) = right, (<-, -) = left, anything
// else = undirected.
func (p *Parser) parseRelationshipPattern() (*RelationshipPattern, bool) {
	s := p.s
	start := s.pos
	s.skipWhitespace()

	leftArrow := false
	if s.consumeString("<-") {
		leftArrow = true
	} else if !s.consumeByte('-') {
		return nil, false
	}

	rel := &RelationshipPattern{}
	if s.consumeByte('[') {
		s.skipWhitespace()
		if variable, ok := s.identifier(); ok {
			rel.Variable = variable
		}
		s.skipWhitespace()
		if s.consumeByte(':') {
			types := []string{}
			typeName, ok := s.identifier()
			if !ok {
				return nil, false
			}
			types = append(types, typeName)
			for {
				s.skipWhitespace()
				if !s.consumeByte('|') {
					break
				}
				s.skipWhitespace()
				t, ok := s.identifier()
				if !ok {
					return nil, false
				}
				types = append(types, t)
			}
			rel.Type = joinTypes(types)
		}
		s.skipWhitespace()
		if s.peek() == '*' || s.peek() == '+' {
			lr, ok := p.parseLengthRange()
			if ok {
				rel.Length = lr
			}
		}
		s.skipWhitespace()
		if s.peek() == '{' {
			props, ok := p.parsePropertyMap()
			if !ok {
				return nil, false
			}
			rel.Properties = props
		}
		s.skipWhitespace()
		if !s.consumeByte(']') {
			return nil, false
		}
	}

	s.skipWhitespace()
	rightArrow := false
	if s.consumeString("->") {
		rightArrow = true
	} else if !s.consumeByte('-') {
		return nil, false
	}

	switch {
	case leftArrow && !rightArrow:
		rel.Direction = Left
	case rightArrow && !leftArrow:
		rel.Direction = Right
	default:
		rel.Direction = Undirected
	}
	rel.Span = Span{start, s.pos}
	return rel, true
}

func joinTypes(types []string) string {
	out := types[0]
	for _, t := range types[1:] {
		out += "|" + t
	}
	return out
}

// parsePatternElementSequence parses a non-empty chain starting with either a
// node pattern or a quantified path pattern (a bare QPP stands on its own,
// `((:Stop)-[:NEXT]->(:Stop)){1,3}`, with no leading node), followed by zero
// or more (connector, node) pairs, where a connector is either a
// RelationshipPattern or a quantified path pattern appearing directly
// adjacent (`(a) ((x)-->(y)){1,5} (b)`, no connecting relationship token; the
// QPP plays the role of the relationship). Concatenation is greedy but
// reversible: if a connector parses but the following node does not, the
// scanner position is restored to before the connector was attempted (C4's
// backtracking requirement).
func (p *Parser) parsePatternElementSequence() ([]PatternElement, bool) {
	s := p.s
	var elements []PatternElement

	mark := s.mark()
	s.skipWhitespace()
	if qpp, ok := p.parseQuantifiedPathPattern(); ok {
		elements = append(elements, qpp)
	} else {
		s.reset(mark)
		firstNode, ok := p.parseNodePattern()
		if !ok {
			return nil, false
		}
		elements = append(elements, firstNode)
	}

	for {
		mark := s.mark()
		s.skipWhitespace()
		if qpp, ok := p.parseQuantifiedPathPattern(); ok {
			node, ok := p.parseNodePattern()
			if !ok {
				s.reset(mark)
				break
			}
			elements = append(elements, qpp, node)
			continue
		}
		s.reset(mark)

		mark = s.mark()
		rel, ok := p.parseRelationshipPattern()
		if !ok {
			s.reset(mark)
			break
		}
		node, ok := p.parseNodePattern()
		if !ok {
			s.reset(mark)
			break
		}
		elements = append(elements, rel, node)
	}
	return elements, true
}

// parseQuantifiedPathPattern parses
// `(var '=')? '(' pattern ')' '{' min (',' | '..') max '}' (WHERE ...)?`,
// stripping any relationship-level quantifier inside pattern so the QPP's
// own {min,max} is the single repetition authority.
func (p *Parser) parseQuantifiedPathPattern() (*QuantifiedPathPattern, bool) {
	s := p.s
	start := s.pos
	mark := s.mark()

	var pathVar string
	if v, ok := s.identifier(); ok {
		mark2 := s.mark()
		s.skipWhitespace()
		if s.consumeByte('=') {
			pathVar = v
		} else {
			s.reset(mark2)
			s.reset(mark)
		}
	}

	s.skipWhitespace()
	if s.peek() != '(' {
		s.reset(mark)
		return nil, false
	}
	s.pos++
	pattern, ok := p.parsePatternElementSequence()
	if !ok {
		s.reset(mark)
		return nil, false
	}
	s.skipWhitespace()
	if !s.consumeByte(')') {
		s.reset(mark)
		return nil, false
	}
	s.skipWhitespace()
	if !s.consumeByte('{') {
		s.reset(mark)
		return nil, false
	}
	qpp := &QuantifiedPathPattern{PathVariable: pathVar, Pattern: stripInnerQuantifiers(pattern)}
	s.skipWhitespace()
	if n, ok := s.numberLiteral(); ok {
		i := int(n)
		qpp.Min = &i
	}
	s.skipWhitespace()
	if s.consumeByte(',') || s.consumeString("..") {
		s.skipWhitespace()
		if n, ok := s.numberLiteral(); ok {
			i := int(n)
			qpp.Max = &i
		}
	}
	s.skipWhitespace()
	if !s.consumeByte('}') {
		s.reset(mark)
		return nil, false
	}

	mark3 := s.mark()
	s.skipWhitespace()
	if s.keyword("WHERE") {
		s.skipWhitespace()
		expr, ok := p.parseWhereExpression()
		if ok {
			qpp.InnerWhere = &WhereClause{Expression: expr}
		} else {
			s.reset(mark3)
		}
	} else {
		s.reset(mark3)
	}

	qpp.Span = Span{start, s.pos}
	return qpp, true
}

// stripInnerQuantifiers implements the quantifier-normalization design note:
// a relationship inside a QPP must not also carry its own *min..max, since
// the QPP's {min,max} is already the single repetition authority.
func stripInnerQuantifiers(elements []PatternElement) []PatternElement {
	for _, el := range elements {
		if rel, ok := el.(*RelationshipPattern); ok {
			rel.Length = nil
		}
	}
	return elements
}

// parseMatchElement parses one pattern sequence, optionally preceded by a
// path variable binding the whole element (`p = (a)-->(b)`).
func (p *Parser) parseMatchElement() (MatchElement, bool) {
	s := p.s
	mark := s.mark()
	var pathVar string
	s.skipWhitespace()
	if v, ok := s.identifier(); ok {
		mark2 := s.mark()
		s.skipWhitespace()
		if s.consumeByte('=') {
			mark3 := s.mark()
			s.skipWhitespace()
			if s.peek() == '(' {
				pathVar = v
			} else {
				s.reset(mark3)
				s.reset(mark2)
			}
		} else {
			s.reset(mark2)
		}
	}

	pattern, ok := p.parsePatternElementSequence()
	if !ok {
		s.reset(mark)
		return MatchElement{}, false
	}
	return MatchElement{PathVariable: pathVar, Pattern: pattern}, true
}

// parseMatchElementList parses a comma-separated list of match elements.
func (p *Parser) parseMatchElementList() ([]MatchElement, bool) {
	s := p.s
	var elements []MatchElement
	for {
		s.skipWhitespace()
		el, ok := p.parseMatchElement()
		if !ok {
			return nil, false
		}
		elements = append(elements, el)
		mark := s.mark()
		s.skipWhitespace()
		if !s.consumeByte(',') {
			s.reset(mark)
			break
		}
	}
	return elements, true
}
