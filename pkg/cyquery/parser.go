package cyquery

import "github.com/neo4j-field/cypher-guard/pkg/cgerrors"

// Parser drives the clause-level grammar (C5) over a scanner, accumulating
// the Query being built and the clause-order bookkeeping the post-parse
// ordering check (also C5) needs.
type Parser struct {
	s     *scanner
	input string
	query *Query
}

func newParser(input string) *Parser {
	return &Parser{s: newScanner(input), input: input, query: &Query{}}
}

// record appends one entry to the query's clause-order trail.
func (p *Parser) record(kind ClauseKind, offset int) {
	p.query.Order = append(p.query.Order, ClausePosition{Kind: kind, Offset: offset})
}

// Parse parses one full query string into a Query AST, or a single
// ParsingError describing the first point of failure. Parsing is
// schema-independent; it never looks beyond the query text.
func Parse(query string) (*Query, *cgerrors.ParsingError) {
	p := newParser(query)
	s := p.s

	for {
		s.skipWhitespace()
		if s.eof() {
			break
		}
		offset := s.pos

		switch {
		case s.keyword("OPTIONAL"):
			s.skipWhitespace()
			if !s.keyword("MATCH") {
				return nil, cgerrors.NewInvalidSyntax("expected MATCH after OPTIONAL")
			}
			clause, ok := p.parseMatchClauseBody(true, offset)
			if !ok {
				return nil, p.syntaxErrorAt(offset, "MATCH")
			}
			p.query.MatchClauses = append(p.query.MatchClauses, clause)
			p.record(KindMatch, offset)
			if clause.Where != nil {
				p.record(KindWhere, clause.Where.Offset)
			}

		case s.keyword("MATCH"):
			clause, ok := p.parseMatchClauseBody(false, offset)
			if !ok {
				return nil, p.syntaxErrorAt(offset, "MATCH")
			}
			p.query.MatchClauses = append(p.query.MatchClauses, clause)
			p.record(KindMatch, offset)
			if clause.Where != nil {
				p.record(KindWhere, clause.Where.Offset)
			}

		case s.keyword("MERGE"):
			clause, ok := p.parseMergeClauseBody(offset)
			if !ok {
				return nil, p.syntaxErrorAt(offset, "MERGE")
			}
			p.query.MergeClauses = append(p.query.MergeClauses, clause)
			p.record(KindMerge, offset)

		case s.keyword("CREATE"):
			clause, ok := p.parseCreateClauseBody(offset)
			if !ok {
				return nil, p.syntaxErrorAt(offset, "CREATE")
			}
			p.query.CreateClauses = append(p.query.CreateClauses, clause)
			p.record(KindCreate, offset)

		case s.keyword("INSERT"):
			clause, ok := p.parseCreateClauseBody(offset)
			if !ok {
				return nil, p.syntaxErrorAt(offset, "INSERT")
			}
			p.query.InsertClauses = append(p.query.InsertClauses, clause)
			p.record(KindInsert, offset)

		case s.keyword("WITH"):
			clause, ok := p.parseWithClauseBody(offset)
			if !ok {
				return nil, p.syntaxErrorAt(offset, "WITH")
			}
			p.query.WithClauses = append(p.query.WithClauses, clause)
			p.record(KindWith, offset)
			if clause.Where != nil {
				p.record(KindWhere, clause.Where.Offset)
			}
			if len(clause.OrderBy) > 0 {
				p.record(KindOrderBy, offset)
			}
			if clause.Skip != nil {
				p.record(KindSkip, offset)
			}
			if clause.Limit != nil {
				p.record(KindLimit, offset)
			}

		case s.keyword("UNWIND"):
			clause, ok := p.parseUnwindClauseBody(offset)
			if !ok {
				return nil, p.syntaxErrorAt(offset, "UNWIND")
			}
			p.query.UnwindClauses = append(p.query.UnwindClauses, clause)
			p.record(KindUnwind, offset)

		case s.keyword("SET"):
			clause, ok := p.parseSetClauseBody(offset)
			if !ok {
				return nil, p.syntaxErrorAt(offset, "SET")
			}
			p.query.SetClauses = append(p.query.SetClauses, clause)
			p.record(KindSet, offset)

		case s.keyword("DETACH"):
			s.skipWhitespace()
			if !s.keyword("DELETE") {
				return nil, cgerrors.NewInvalidSyntax("expected DELETE after DETACH")
			}
			clause, ok := p.parseDeleteClauseBody(true, offset)
			if !ok {
				return nil, p.syntaxErrorAt(offset, "DELETE")
			}
			p.query.DeleteClauses = append(p.query.DeleteClauses, clause)
			p.record(KindDelete, offset)

		case s.keyword("DELETE"):
			clause, ok := p.parseDeleteClauseBody(false, offset)
			if !ok {
				return nil, p.syntaxErrorAt(offset, "DELETE")
			}
			p.query.DeleteClauses = append(p.query.DeleteClauses, clause)
			p.record(KindDelete, offset)

		case s.keyword("RETURN"):
			clause, ok := p.parseReturnClauseBody(offset)
			if !ok {
				return nil, p.syntaxErrorAt(offset, "RETURN")
			}
			p.query.ReturnClauses = append(p.query.ReturnClauses, clause)
			p.record(KindReturn, offset)
			if len(clause.OrderBy) > 0 {
				p.record(KindOrderBy, offset)
			}
			if clause.Skip != nil {
				p.record(KindSkip, offset)
			}
			if clause.Limit != nil {
				p.record(KindLimit, offset)
			}

		case s.keyword("CALL"):
			clause, ok := p.parseCallClauseBody(offset)
			if !ok {
				return nil, p.syntaxErrorAt(offset, "CALL")
			}
			p.query.CallClauses = append(p.query.CallClauses, clause)
			p.record(KindCall, offset)

		case s.keyword("WHERE"):
			s.skipWhitespace()
			expr, ok := p.parseWhereExpression()
			if !ok {
				return nil, p.syntaxErrorAt(offset, "WHERE condition")
			}
			where := &WhereClause{Expression: expr, Offset: offset}
			p.query.WhereClauses = append(p.query.WhereClauses, where)
			p.record(KindWhere, offset)

		default:
			return nil, p.syntaxErrorAt(offset, "a clause keyword")
		}
	}

	if len(p.query.Order) == 0 {
		return nil, cgerrors.NewMissingRequiredClause("at least one clause")
	}

	if err := checkClauseOrder(p.query, p.input); err != nil {
		return nil, err
	}

	return p.query, nil
}

func (p *Parser) syntaxErrorAt(offset int, expected string) *cgerrors.ParsingError {
	pos := OffsetToLineColumn(p.input, offset)
	found := "end of input"
	if offset < len(p.input) {
		end := offset + 1
		if end > len(p.input) {
			end = len(p.input)
		}
		found = p.input[offset:end]
	}
	return cgerrors.NewExpectedToken(expected, found, pos.Line, pos.Column)
}
