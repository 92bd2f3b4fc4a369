package cyquery

import "github.com/neo4j-field/cypher-guard/pkg/cgerrors"

func (p *Parser) parseMatchClauseBody(optional bool, offset int) (*MatchClause, bool) {
	s := p.s
	s.skipWhitespace()
	elements, ok := p.parseMatchElementList()
	if !ok {
		return nil, false
	}
	clause := &MatchClause{Elements: elements, Optional: optional, Offset: offset}

	mark := s.mark()
	s.skipWhitespace()
	if s.keyword("WHERE") {
		whereOffset := s.pos - len("WHERE")
		s.skipWhitespace()
		expr, ok := p.parseWhereExpression()
		if !ok {
			return nil, false
		}
		clause.Where = &WhereClause{Expression: expr, Offset: whereOffset}
	} else {
		s.reset(mark)
	}
	return clause, true
}

func (p *Parser) parseSetItemList() ([]SetItem, bool) {
	s := p.s
	var items []SetItem
	for {
		s.skipWhitespace()
		variable, ok := s.identifier()
		if !ok {
			return nil, false
		}
		s.skipWhitespace()
		if !s.consumeByte('.') {
			return nil, false
		}
		property, ok := s.identifier()
		if !ok {
			return nil, false
		}
		s.skipWhitespace()
		if !s.consumeByte('=') {
			return nil, false
		}
		s.skipWhitespace()
		value, ok := p.parsePropertyValue()
		if !ok {
			return nil, false
		}
		items = append(items, SetItem{Variable: variable, Property: property, Value: value})
		mark := s.mark()
		s.skipWhitespace()
		if !s.consumeByte(',') {
			s.reset(mark)
			break
		}
	}
	return items, true
}

func (p *Parser) parseMergeClauseBody(offset int) (*MergeClause, bool) {
	s := p.s
	s.skipWhitespace()
	element, ok := p.parseMatchElement()
	if !ok {
		return nil, false
	}
	clause := &MergeClause{Element: element, Offset: offset}

	for {
		mark := s.mark()
		s.skipWhitespace()
		if s.keyword("ON") {
			s.skipWhitespace()
			switch {
			case s.keyword("CREATE"):
				s.skipWhitespace()
				if !s.keyword("SET") {
					return nil, false
				}
				items, ok := p.parseSetItemList()
				if !ok {
					return nil, false
				}
				clause.OnCreate = append(clause.OnCreate, items...)
			case s.keyword("MATCH"):
				s.skipWhitespace()
				if !s.keyword("SET") {
					return nil, false
				}
				items, ok := p.parseSetItemList()
				if !ok {
					return nil, false
				}
				clause.OnMatch = append(clause.OnMatch, items...)
			default:
				return nil, false
			}
			continue
		}
		s.reset(mark)
		break
	}
	return clause, true
}

func (p *Parser) parseCreateClauseBody(offset int) (*CreateClause, bool) {
	elements, ok := p.parseMatchElementList()
	if !ok {
		return nil, false
	}
	return &CreateClause{Elements: elements, Offset: offset}, true
}

func (p *Parser) parseReturnItemList() ([]ReturnItem, bool) {
	s := p.s
	var items []ReturnItem
	for {
		s.skipWhitespace()
		expr, ok := p.parsePropertyValue()
		if !ok {
			return nil, false
		}
		item := ReturnItem{Expression: expr}
		mark := s.mark()
		s.skipWhitespace()
		if s.keyword("AS") {
			s.skipWhitespace()
			alias, ok := s.identifier()
			if !ok {
				return nil, false
			}
			item.Alias = alias
		} else {
			s.reset(mark)
		}
		items = append(items, item)
		mark = s.mark()
		s.skipWhitespace()
		if !s.consumeByte(',') {
			s.reset(mark)
			break
		}
	}
	return items, true
}

func (p *Parser) parseOrderByList() ([]OrderItem, bool) {
	s := p.s
	var items []OrderItem
	for {
		s.skipWhitespace()
		expr, ok := p.parsePropertyValue()
		if !ok {
			return nil, false
		}
		item := OrderItem{Expression: expr}
		mark := s.mark()
		s.skipWhitespace()
		if s.keyword("DESC") {
			item.Descending = true
		} else if s.keyword("ASC") {
			item.Descending = false
		} else {
			s.reset(mark)
		}
		items = append(items, item)
		mark = s.mark()
		s.skipWhitespace()
		if !s.consumeByte(',') {
			s.reset(mark)
			break
		}
	}
	return items, true
}

// parseTrailingModifiers parses the optional ORDER BY / SKIP / LIMIT suffix
// shared by RETURN and WITH.
func (p *Parser) parseTrailingModifiers() ([]OrderItem, *int, *int, bool) {
	s := p.s
	var orderBy []OrderItem
	var skip, limit *int

	mark := s.mark()
	s.skipWhitespace()
	if s.keyword("ORDER") {
		s.skipWhitespace()
		if !s.keyword("BY") {
			return nil, nil, nil, false
		}
		items, ok := p.parseOrderByList()
		if !ok {
			return nil, nil, nil, false
		}
		orderBy = items
	} else {
		s.reset(mark)
	}

	mark = s.mark()
	s.skipWhitespace()
	if s.keyword("SKIP") {
		s.skipWhitespace()
		n, ok := s.numberLiteral()
		if !ok {
			return nil, nil, nil, false
		}
		i := int(n)
		skip = &i
	} else {
		s.reset(mark)
	}

	mark = s.mark()
	s.skipWhitespace()
	if s.keyword("LIMIT") {
		s.skipWhitespace()
		n, ok := s.numberLiteral()
		if !ok {
			return nil, nil, nil, false
		}
		i := int(n)
		limit = &i
	} else {
		s.reset(mark)
	}

	return orderBy, skip, limit, true
}

func (p *Parser) parseReturnClauseBody(offset int) (*ReturnClause, bool) {
	items, ok := p.parseReturnItemList()
	if !ok {
		return nil, false
	}
	orderBy, skip, limit, ok := p.parseTrailingModifiers()
	if !ok {
		return nil, false
	}
	return &ReturnClause{Items: items, OrderBy: orderBy, Skip: skip, Limit: limit, Offset: offset}, true
}

func (p *Parser) parseWithClauseBody(offset int) (*WithClause, bool) {
	s := p.s
	items, ok := p.parseReturnItemList()
	if !ok {
		return nil, false
	}
	clause := &WithClause{Items: items, Offset: offset}

	mark := s.mark()
	s.skipWhitespace()
	if s.keyword("WHERE") {
		whereOffset := s.pos - len("WHERE")
		s.skipWhitespace()
		expr, ok := p.parseWhereExpression()
		if !ok {
			return nil, false
		}
		clause.Where = &WhereClause{Expression: expr, Offset: whereOffset}
	} else {
		s.reset(mark)
	}

	orderBy, skip, limit, ok := p.parseTrailingModifiers()
	if !ok {
		return nil, false
	}
	clause.OrderBy, clause.Skip, clause.Limit = orderBy, skip, limit
	return clause, true
}

func (p *Parser) parseUnwindClauseBody(offset int) (*UnwindClause, bool) {
	s := p.s
	expr, ok := p.parsePropertyValue()
	if !ok {
		return nil, false
	}
	s.skipWhitespace()
	if !s.keyword("AS") {
		return nil, false
	}
	s.skipWhitespace()
	variable, ok := s.identifier()
	if !ok {
		return nil, false
	}
	return &UnwindClause{Expression: expr, Variable: variable, Offset: offset}, true
}

func (p *Parser) parseSetClauseBody(offset int) (*SetClause, bool) {
	items, ok := p.parseSetItemList()
	if !ok {
		return nil, false
	}
	return &SetClause{Items: items, Offset: offset}, true
}

func (p *Parser) parseDeleteClauseBody(detach bool, offset int) (*DeleteClause, bool) {
	s := p.s
	var vars []string
	for {
		s.skipWhitespace()
		v, ok := s.identifier()
		if !ok {
			return nil, false
		}
		vars = append(vars, v)
		mark := s.mark()
		s.skipWhitespace()
		if !s.consumeByte(',') {
			s.reset(mark)
			break
		}
	}
	return &DeleteClause{Variables: vars, Detach: detach, Offset: offset}, true
}

func (p *Parser) parseCallClauseBody(offset int) (*CallClause, bool) {
	s := p.s
	s.skipWhitespace()
	if s.consumeByte('{') {
		sub := newParser(p.input)
		sub.s.pos = s.pos
		query, err := parseSubquery(sub)
		if err != nil {
			return nil, false
		}
		s.pos = sub.s.pos
		s.skipWhitespace()
		if !s.consumeByte('}') {
			return nil, false
		}
		return &CallClause{Subquery: query, Offset: offset}, true
	}

	first, ok := s.identifier()
	if !ok {
		return nil, false
	}
	namespace := ""
	procedure := first
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
		if namespace == "" {
			namespace = procedure
		} else {
			namespace = namespace + "." + procedure
		}
		procedure = next
	}

	clause := &CallClause{Namespace: namespace, Procedure: procedure, Offset: offset}
	s.skipWhitespace()
	if s.peek() == '(' {
		args, ok := p.parseArgList()
		if !ok {
			return nil, false
		}
		clause.Args = args
	}

	mark := s.mark()
	s.skipWhitespace()
	if s.keyword("YIELD") {
		var names []string
		for {
			s.skipWhitespace()
			name, ok := s.identifier()
			if !ok {
				return nil, false
			}
			names = append(names, name)
			mark2 := s.mark()
			s.skipWhitespace()
			if !s.consumeByte(',') {
				s.reset(mark2)
				break
			}
		}
		clause.Yield = names
	} else {
		s.reset(mark)
	}
	return clause, true
}

// parseSubquery parses the clause sequence inside `CALL { ... }` up to (but
// not consuming) the closing brace. It accepts only MATCH, WITH, and RETURN
// clauses and runs the clause-order check over them; the top-level
// empty-query check is not applied.
func parseSubquery(p *Parser) (*Query, *cgerrors.ParsingError) {
	s := p.s
	for {
		s.skipWhitespace()
		if s.eof() || s.peek() == '}' {
			break
		}
		offset := s.pos
		switch {
		case s.keyword("MATCH"):
			clause, ok := p.parseMatchClauseBody(false, offset)
			if !ok {
				return nil, p.syntaxErrorAt(offset, "MATCH")
			}
			p.query.MatchClauses = append(p.query.MatchClauses, clause)
			p.record(KindMatch, offset)
		case s.keyword("WITH"):
			clause, ok := p.parseWithClauseBody(offset)
			if !ok {
				return nil, p.syntaxErrorAt(offset, "WITH")
			}
			p.query.WithClauses = append(p.query.WithClauses, clause)
			p.record(KindWith, offset)
		case s.keyword("RETURN"):
			clause, ok := p.parseReturnClauseBody(offset)
			if !ok {
				return nil, p.syntaxErrorAt(offset, "RETURN")
			}
			p.query.ReturnClauses = append(p.query.ReturnClauses, clause)
			p.record(KindReturn, offset)
		default:
			return nil, p.syntaxErrorAt(offset, "a clause keyword")
		}
	}
	if err := checkClauseOrder(p.query, p.input); err != nil {
		return nil, err
	}
	return p.query, nil
}

var afterReturnKind = map[ClauseKind]cgerrors.ParsingKind{
	KindMatch:  cgerrors.MatchAfterReturn,
	KindCreate: cgerrors.CreateAfterReturn,
	KindMerge:  cgerrors.MergeAfterReturn,
	KindDelete: cgerrors.DeleteAfterReturn,
	KindSet:    cgerrors.SetAfterReturn,
	KindWhere:  cgerrors.WhereAfterReturn,
	KindWith:   cgerrors.WithAfterReturn,
	KindUnwind: cgerrors.UnwindAfterReturn,
	KindInsert: cgerrors.CreateAfterReturn,
	KindCall:   cgerrors.ReturnBeforeOtherClause,
}

// checkClauseOrder implements the six clause-ordering rules over a fully
// parsed query's clause trail: nothing but ORDER BY/SKIP/LIMIT may follow
// RETURN, RETURN may not repeat, WHERE must directly follow MATCH/UNWIND/WITH,
// and ORDER BY/SKIP/LIMIT each require an appropriate clause already seen.
func checkClauseOrder(q *Query, input string) *cgerrors.ParsingError {
	seenReturn := false
	seenReturnOrWith := false
	seenOrderBy := false
	seenSkip := false

	for i, entry := range q.Order {
		pos := OffsetToLineColumn(input, entry.Offset)

		if entry.Kind == KindReturn {
			if seenReturn {
				return cgerrors.NewClauseOrderViolation(cgerrors.ReturnAfterReturn, pos.Line, pos.Column)
			}
			seenReturn = true
			seenReturnOrWith = true
			continue
		}

		if seenReturn {
			if kind, ok := afterReturnKind[entry.Kind]; ok {
				return cgerrors.NewClauseOrderViolation(kind, pos.Line, pos.Column)
			}
		}

		switch entry.Kind {
		case KindWith:
			seenReturnOrWith = true
		case KindWhere:
			if i == 0 {
				return cgerrors.NewClauseOrderViolation(cgerrors.WhereBeforeMatch, pos.Line, pos.Column)
			}
			prev := q.Order[i-1].Kind
			if prev != KindMatch && prev != KindUnwind && prev != KindWith {
				return cgerrors.NewClauseOrderViolation(cgerrors.WhereBeforeMatch, pos.Line, pos.Column)
			}
		case KindOrderBy:
			if !seenReturnOrWith {
				return cgerrors.NewClauseOrderViolation(cgerrors.OrderByBeforeReturn, pos.Line, pos.Column)
			}
			seenOrderBy = true
		case KindSkip:
			if !seenReturnOrWith && !seenOrderBy {
				return cgerrors.NewClauseOrderViolation(cgerrors.SkipBeforeReturn, pos.Line, pos.Column)
			}
			seenSkip = true
		case KindLimit:
			if !seenReturnOrWith && !seenOrderBy && !seenSkip {
				return cgerrors.NewClauseOrderViolation(cgerrors.LimitBeforeReturn, pos.Line, pos.Column)
			}
		}
	}
	return nil
}
