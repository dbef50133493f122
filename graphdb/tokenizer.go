package graphdb

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
)

// TokenType defines types of tokens
type TokenType int

const (
	TokenKeyword TokenType = iota
	TokenIdentifier
	TokenString
	TokenNumber
	TokenSymbol
	TokenEOF
)

var keywords = map[string]bool{
	"RECOMMEND":  true,
	"SIMILARITY": true,
	"NEIGHBOURS": true,
	"SHOW":       true,
	"STATS":      true,
	"BY":         true,
	"LIMIT":      true,
	"MAXPRICE":   true,
	"MINRATING":  true,
	"ON":         true,
}

// Token represents a lexical token
type Token struct {
	Type  TokenType
	Value string
	Pos   int
}

// Tokenizer breaks a query into tokens
type Tokenizer struct {
	input  []rune
	pos    int
	tokens []Token
	err    error
}

// NewTokenizer initializes a new Tokenizer
func NewTokenizer(input string) *Tokenizer {
	return &Tokenizer{
		input:  []rune(input),
		pos:    0,
		tokens: []Token{},
	}
}

// Tokenize processes the input query into tokens
func (t *Tokenizer) Tokenize() ([]Token, error) {
	log := logrus.WithField("component", "Tokenizer")
	for t.pos < len(t.input) && t.err == nil {
		r := t.input[t.pos]
		switch {
		case unicode.IsSpace(r):
			t.pos++
		case unicode.IsLetter(r):
			t.readIdentifierOrKeyword()
		case r == '"':
			t.readString()
		case unicode.IsDigit(r), r == '.' && t.pos+1 < len(t.input) && unicode.IsDigit(t.input[t.pos+1]):
			t.readNumber()
		default:
			t.readSymbol()
		}
	}
	if t.err != nil {
		log.WithError(t.err).Debug("Tokenization failed")
		return nil, t.err
	}
	t.tokens = append(t.tokens, Token{Type: TokenEOF, Pos: t.pos})
	log.WithField("token_count", len(t.tokens)).Debug("Tokenization complete")
	return t.tokens, nil
}

// readIdentifierOrKeyword reads an identifier or keyword
func (t *Tokenizer) readIdentifierOrKeyword() {
	start := t.pos
	for t.pos < len(t.input) && (unicode.IsLetter(t.input[t.pos]) || unicode.IsDigit(t.input[t.pos]) || t.input[t.pos] == '_' || t.input[t.pos] == '-') {
		t.pos++
	}
	value := string(t.input[start:t.pos])
	tokenType := TokenIdentifier
	if keywords[strings.ToUpper(value)] {
		tokenType = TokenKeyword
	}
	t.tokens = append(t.tokens, Token{Type: tokenType, Value: value, Pos: start})
}

// readString reads a double-quoted string; \" and \\ are unescaped
func (t *Tokenizer) readString() {
	start := t.pos
	t.pos++ // Skip opening quote
	var sb strings.Builder
	for t.pos < len(t.input) {
		r := t.input[t.pos]
		switch {
		case r == '\\' && t.pos+1 < len(t.input):
			sb.WriteRune(t.input[t.pos+1])
			t.pos += 2
		case r == '"':
			t.pos++
			t.tokens = append(t.tokens, Token{Type: TokenString, Value: sb.String(), Pos: start})
			return
		default:
			sb.WriteRune(r)
			t.pos++
		}
	}
	t.err = errors.Wrapf(ErrInvalidArgument, "unterminated string at position %d", start)
}

// readNumber reads an integer or decimal number
func (t *Tokenizer) readNumber() {
	start := t.pos
	seenDot := false
	for t.pos < len(t.input) {
		r := t.input[t.pos]
		if r == '.' && !seenDot {
			seenDot = true
		} else if !unicode.IsDigit(r) {
			break
		}
		t.pos++
	}
	t.tokens = append(t.tokens, Token{Type: TokenNumber, Value: string(t.input[start:t.pos]), Pos: start})
}

// readSymbol reads a symbol
func (t *Tokenizer) readSymbol() {
	r := t.input[t.pos]
	switch r {
	case ',', ';':
		t.tokens = append(t.tokens, Token{Type: TokenSymbol, Value: string(r), Pos: t.pos})
		t.pos++
	default:
		t.err = errors.Wrapf(ErrInvalidArgument, "unexpected character %q at position %d", r, t.pos)
	}
}

func (tt TokenType) String() string {
	switch tt {
	case TokenKeyword:
		return "keyword"
	case TokenIdentifier:
		return "identifier"
	case TokenString:
		return "string"
	case TokenNumber:
		return "number"
	case TokenSymbol:
		return "symbol"
	case TokenEOF:
		return "end of input"
	default:
		return fmt.Sprintf("token(%d)", int(tt))
	}
}
