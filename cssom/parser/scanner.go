package parser

import (
	"strings"

	"github.com/gorilla/css/scanner"
)

// token is a token of the gorilla scanner with its position translated to the
// complete input.
type token struct {
	tok    scanner.Token
	text   string
	line   int
	column int
}

func (t token) isChar(c byte) bool {
	return t.tok.Type == scanner.TokenChar && len(t.text) == 1 && t.text[0] == c
}

func (t token) isEOF() bool {
	return t.tok.Type == scanner.TokenEOF
}

func (t token) isSpace() bool {
	return t.tok.Type == scanner.TokenS
}

// tokenizer wraps a gorilla/css scanner. Comments are dropped.
//
// The gorilla scanner stops at unclosed strings. The tokenizer recovers the way
// CSS does: the string becomes a bad string token ending at the end of the
// line, and scanning resumes from there.
type tokenizer struct {
	input   string
	sc      *scanner.Scanner
	base    int // byte offset of the current scanner's input
	offset  int // byte offset of the next token
	line0   int // line of base, 1-based
	column0 int // column of base, 1-based
	peeked  *token
}

func newTokenizer(input string) *tokenizer {
	input = strings.TrimPrefix(input, "\uFEFF")
	// byte offsets have to stay in sync with the scanner's view of the input
	input = strings.ToValidUTF8(input, "\uFFFD")
	input = strings.ReplaceAll(input, "\r\n", "\n")
	return &tokenizer{
		input:   input,
		sc:      scanner.New(input),
		line0:   1,
		column0: 1,
	}
}

// peek returns the next token without consuming it.
func (tz *tokenizer) peek() token {
	if tz.peeked == nil {
		t := tz.scan()
		tz.peeked = &t
	}
	return *tz.peeked
}

// next consumes the next token.
func (tz *tokenizer) next() token {
	t := tz.peek()
	if !t.isEOF() {
		tz.peeked = nil
	}
	return t
}

// skipSpace consumes whitespace.
func (tz *tokenizer) skipSpace() {
	for tz.peek().isSpace() {
		tz.next()
	}
}

func (tz *tokenizer) scan() token {
	for {
		t := tz.sc.Next()
		pos := tz.position(t)
		switch t.Type {
		case scanner.TokenComment, scanner.TokenBOM:
			tz.offset += len(t.Value)
			continue
		case scanner.TokenEOF:
			return pos
		case scanner.TokenError:
			if !strings.HasPrefix(tz.input[tz.offset:], "/*") {
				return tz.recoverBadString(pos)
			}
			// unclosed comment extends to end of input
			tz.offset = len(tz.input)
			return token{tok: scanner.Token{Type: scanner.TokenEOF}, line: pos.line, column: pos.column}
		}
		tz.offset += len(t.Value)
		return pos
	}
}

func (tz *tokenizer) position(t *scanner.Token) token {
	pos := token{tok: *t, text: t.Value, line: tz.line0 + t.Line - 1, column: t.Column}
	if t.Line == 1 {
		pos.column = tz.column0 + t.Column - 1
	}
	return pos
}

// recoverBadString consumes an unclosed string up to the end of its line and
// restarts scanning after it.
func (tz *tokenizer) recoverBadString(pos token) token {
	rest := tz.input[tz.offset:]
	end := strings.IndexAny(rest, "\n\r\f")
	if end < 0 {
		end = len(rest)
	}
	bad := token{tok: scanner.Token{Type: scanner.TokenString, Value: rest[:end]}, text: rest[:end], line: pos.line, column: pos.column}
	tz.offset += end
	tz.base = tz.offset
	tz.line0 = pos.line
	tz.column0 = pos.column + len([]rune(rest[:end]))
	tz.sc = scanner.New(tz.input[tz.base:])
	tracer().Debugf("css: %d:%d: unclosed string", pos.line, pos.column)
	return bad
}
