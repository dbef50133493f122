package graphdb

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
)

// StatementType defines the kinds of query statements
type StatementType int

const (
	StmtRecommend StatementType = iota
	StmtSimilarity
	StmtNeighbours
	StmtShow
	StmtStats
)

// Statement is a parsed query
type Statement struct {
	Type StatementType

	// Games holds the input titles of RECOMMEND and SIMILARITY
	Games []string
	// Kinds holds the raw names of a BY clause
	Kinds []string
	// Platforms holds the names of an ON clause
	Platforms []string
	// Limit is 0 when no LIMIT clause was given
	Limit     int
	MaxPrice  *float64
	MinRating *float64

	// Item and Kind address the vertex of NEIGHBOURS and SHOW
	Item string
	Kind string
}

// Parser converts tokens into a Statement
type Parser struct {
	tokens []Token
	pos    int
}

// NewParser initializes a new Parser
func NewParser(tokens []Token) *Parser {
	return &Parser{
		tokens: tokens,
		pos:    0,
	}
}

// Parse parses a single statement
func (p *Parser) Parse() (Statement, error) {
	log := logrus.WithField("component", "Parser")
	if p.peek().Type == TokenEOF {
		return Statement{}, errors.Wrap(ErrInvalidArgument, "empty query")
	}

	stmt, err := p.statement()
	if err != nil {
		log.WithError(err).Debug("Failed to parse query")
		return Statement{}, err
	}
	p.accept(TokenSymbol, ";")
	if p.peek().Type != TokenEOF {
		return Statement{}, p.errorf("unexpected %s %q", p.peek().Type, p.peek().Value)
	}
	log.WithField("statement", stmt.Type).Debug("Parsing complete")
	return stmt, nil
}

// statement dispatches on the leading keyword
func (p *Parser) statement() (Statement, error) {
	tok := p.peek()
	if tok.Type != TokenKeyword {
		return Statement{}, p.errorf("expected a statement keyword, got %q", tok.Value)
	}
	switch strings.ToUpper(tok.Value) {
	case "RECOMMEND":
		return p.recommendStatement()
	case "SIMILARITY":
		return p.similarityStatement()
	case "NEIGHBOURS":
		return p.neighboursStatement()
	case "SHOW":
		p.pos++
		title, err := p.str()
		if err != nil {
			return Statement{}, err
		}
		return Statement{Type: StmtShow, Item: title, Kind: KindGame.String()}, nil
	case "STATS":
		p.pos++
		return Statement{Type: StmtStats}, nil
	default:
		return Statement{}, p.errorf("%s cannot start a statement", tok.Value)
	}
}

// recommendStatement parses RECOMMEND "a", "b" followed by optional clauses in any order
func (p *Parser) recommendStatement() (Statement, error) {
	p.pos++
	stmt := Statement{Type: StmtRecommend}
	games, err := p.stringList()
	if err != nil {
		return Statement{}, err
	}
	stmt.Games = games

	seen := make(map[string]bool)
	for p.peek().Type == TokenKeyword {
		clause := strings.ToUpper(p.peek().Value)
		if seen[clause] {
			return Statement{}, p.errorf("duplicate %s clause", clause)
		}
		seen[clause] = true
		p.pos++

		switch clause {
		case "BY":
			if stmt.Kinds, err = p.identifierList(); err != nil {
				return Statement{}, err
			}
		case "ON":
			if stmt.Platforms, err = p.identifierList(); err != nil {
				return Statement{}, err
			}
		case "LIMIT":
			n, err := p.number()
			if err != nil {
				return Statement{}, err
			}
			if n != float64(int(n)) || n < 1 {
				return Statement{}, p.errorf("LIMIT must be a positive integer")
			}
			stmt.Limit = int(n)
		case "MAXPRICE":
			n, err := p.number()
			if err != nil {
				return Statement{}, err
			}
			stmt.MaxPrice = Bound(n)
		case "MINRATING":
			n, err := p.number()
			if err != nil {
				return Statement{}, err
			}
			stmt.MinRating = Bound(n)
		default:
			return Statement{}, p.errorf("unexpected keyword %s in RECOMMEND", clause)
		}
	}
	return stmt, nil
}

// similarityStatement parses SIMILARITY "a", "b" [BY kinds]
func (p *Parser) similarityStatement() (Statement, error) {
	p.pos++
	stmt := Statement{Type: StmtSimilarity}
	games, err := p.stringList()
	if err != nil {
		return Statement{}, err
	}
	if len(games) != 2 {
		return Statement{}, p.errorf("SIMILARITY needs exactly two games, got %d", len(games))
	}
	stmt.Games = games
	if p.accept(TokenKeyword, "BY") {
		if stmt.Kinds, err = p.identifierList(); err != nil {
			return Statement{}, err
		}
	}
	return stmt, nil
}

// neighboursStatement parses NEIGHBOURS kind "item"
func (p *Parser) neighboursStatement() (Statement, error) {
	p.pos++
	if !p.expect(TokenIdentifier, "") {
		return Statement{}, p.errorf("expected a kind after NEIGHBOURS")
	}
	kind := p.tokens[p.pos-1].Value
	item, err := p.str()
	if err != nil {
		return Statement{}, err
	}
	return Statement{Type: StmtNeighbours, Item: item, Kind: kind}, nil
}

// stringList parses "a" {, "b"}
func (p *Parser) stringList() ([]string, error) {
	var out []string
	for {
		s, err := p.str()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
		if !p.accept(TokenSymbol, ",") {
			return out, nil
		}
	}
}

// identifierList parses ident {, ident}
func (p *Parser) identifierList() ([]string, error) {
	var out []string
	for {
		if !p.expect(TokenIdentifier, "") {
			return nil, p.errorf("expected a name, got %q", p.peek().Value)
		}
		out = append(out, p.tokens[p.pos-1].Value)
		if !p.accept(TokenSymbol, ",") {
			return out, nil
		}
	}
}

// str parses a quoted string
func (p *Parser) str() (string, error) {
	if !p.expect(TokenString, "") {
		return "", p.errorf("expected a quoted title, got %q", p.peek().Value)
	}
	return p.tokens[p.pos-1].Value, nil
}

// number parses a numeric literal
func (p *Parser) number() (float64, error) {
	if !p.expect(TokenNumber, "") {
		return 0, p.errorf("expected a number, got %q", p.peek().Value)
	}
	raw := p.tokens[p.pos-1].Value
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidArgument, "invalid number %q", raw)
	}
	return n, nil
}

// peek returns the current token without consuming it
func (p *Parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: TokenEOF}
	}
	return p.tokens[p.pos]
}

// expect checks and consumes a token. An empty value matches any token of
// the type; keywords compare case-insensitively.
func (p *Parser) expect(tokenType TokenType, value string) bool {
	current := p.peek()
	if current.Type != tokenType {
		return false
	}
	switch {
	case value == "":
	case tokenType == TokenKeyword && strings.EqualFold(current.Value, value):
	case current.Value == value:
	default:
		return false
	}
	p.pos++
	return true
}

// accept consumes the token if it matches
func (p *Parser) accept(tokenType TokenType, value string) bool {
	return p.expect(tokenType, value)
}

func (p *Parser) errorf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidArgument, "at position %d: "+format, append([]interface{}{p.peek().Pos}, args...)...)
}

func (st StatementType) String() string {
	switch st {
	case StmtRecommend:
		return "RECOMMEND"
	case StmtSimilarity:
		return "SIMILARITY"
	case StmtNeighbours:
		return "NEIGHBOURS"
	case StmtShow:
		return "SHOW"
	case StmtStats:
		return "STATS"
	default:
		return "UNKNOWN"
	}
}
