// Some of the scanner package is adapted from the Go source code:
// https://cs.opensource.google/go/go/+/refs/tags/go1.22.1:src/go/scanner/scanner.go
//
// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scanner implements the lazy, one-token-at-a-time lexer that feeds
// the compiler's Pratt parser directly, without ever materializing a full
// token slice.
package scanner

import (
	"github.com/dolthub/swiss"
	"github.com/ico-lang/ico/lang/token"
)

// Token is one lexical token: its kind, its source lexeme, and the 1-based
// source line it ends on (for a string literal spanning newlines, the line
// of its closing quote; an unterminated string reports its opening line).
// For an ILLEGAL token, Lexeme is a static message, not source text.
type Token struct {
	Type   token.Token
	Lexeme string
	Line   int
}

// keywords is consulted once an identifier-shaped lexeme has been accepted.
// Built with swiss instead of a plain Go map: this lookup is not part of the
// spec's hash-table component (section 4.5), so it has no tombstone/resize
// contract to honor, and is free to use whichever general-purpose map the
// corpus favors for this kind of fixed, read-mostly set.
var keywords = func() *swiss.Map[string, token.Token] {
	m := swiss.NewMap[string, token.Token](uint32(len(token.Keywords)))
	for word, tok := range token.Keywords {
		m.Put(word, tok)
	}
	return m
}()

// Scanner tokenizes a single source buffer, producing tokens on demand.
type Scanner struct {
	src     string
	start   int // start of the lexeme currently being scanned
	current int // offset of the next unread byte
	line    int
}

// Init prepares s to scan src from the beginning.
func (s *Scanner) Init(src string) {
	s.src = src
	s.start = 0
	s.current = 0
	s.line = 1
}

// Next returns the next token in the source. After the source is exhausted
// it returns an EOF token forever.
func (s *Scanner) Next() Token {
	s.skipIgnorable()
	s.start = s.current

	if s.atEnd() {
		return s.make(token.EOF)
	}

	c := s.advance()
	switch {
	case isAlpha(c):
		return s.identifier()
	case isDigit(c):
		return s.number()
	}

	switch c {
	case '(':
		return s.make(token.LPAREN)
	case ')':
		return s.make(token.RPAREN)
	case '{':
		return s.make(token.LBRACE)
	case '}':
		return s.make(token.RBRACE)
	case ';':
		return s.make(token.SEMI)
	case ',':
		return s.make(token.COMMA)
	case '.':
		return s.make(token.DOT)
	case '-':
		return s.make(token.MINUS)
	case '+':
		return s.make(token.PLUS)
	case '/':
		return s.make(token.SLASH)
	case '*':
		return s.make(token.STAR)
	case '%':
		return s.make(token.PERCENT)
	case '^':
		return s.make(token.CARET)
	case '!':
		if s.match('=') {
			return s.make(token.BANG_EQ)
		}
		return s.make(token.BANG)
	case '=':
		if s.match('=') {
			return s.make(token.EQ_EQ)
		}
		return s.make(token.EQ)
	case '<':
		if s.match('=') {
			return s.make(token.LE)
		}
		return s.make(token.LT)
	case '>':
		if s.match('=') {
			return s.make(token.GE)
		}
		return s.make(token.GT)
	case '"':
		return s.string()
	}

	return s.errorToken("unexpected character")
}

func (s *Scanner) atEnd() bool { return s.current >= len(s.src) }

func (s *Scanner) advance() byte {
	c := s.src[s.current]
	s.current++
	return c
}

func (s *Scanner) peek() byte {
	if s.atEnd() {
		return 0
	}
	return s.src[s.current]
}

func (s *Scanner) peekNext() byte {
	if s.current+1 >= len(s.src) {
		return 0
	}
	return s.src[s.current+1]
}

func (s *Scanner) match(want byte) bool {
	if s.atEnd() || s.src[s.current] != want {
		return false
	}
	s.current++
	return true
}

// skipIgnorable consumes whitespace and "//" line comments, tracking line
// numbers as it goes.
func (s *Scanner) skipIgnorable() {
	for {
		switch s.peek() {
		case ' ', '\r', '\t':
			s.advance()
		case '\n':
			s.line++
			s.advance()
		case '/':
			if s.peekNext() == '/' {
				for s.peek() != '\n' && !s.atEnd() {
					s.advance()
				}
			} else {
				return
			}
		default:
			return
		}
	}
}

func (s *Scanner) identifier() Token {
	for isAlpha(s.peek()) || isDigit(s.peek()) {
		s.advance()
	}
	lexeme := s.src[s.start:s.current]
	if tok, ok := keywords.Get(lexeme); ok {
		return s.make(tok)
	}
	return s.make(token.IDENT)
}

func (s *Scanner) number() Token {
	for isDigit(s.peek()) {
		s.advance()
	}

	tok := token.INT
	if s.peek() == '.' && isDigit(s.peekNext()) {
		tok = token.FLOAT
		s.advance() // consume '.'
		for isDigit(s.peek()) {
			s.advance()
		}
	}
	return s.make(tok)
}

func (s *Scanner) string() Token {
	startLine := s.line
	for s.peek() != '"' && !s.atEnd() {
		if s.peek() == '\n' {
			s.line++
		}
		s.advance()
	}
	if s.atEnd() {
		return Token{Type: token.ILLEGAL, Lexeme: "unterminated string", Line: startLine}
	}
	s.advance() // closing quote
	return s.make(token.STRING)
}

func (s *Scanner) make(t token.Token) Token {
	return Token{Type: t, Lexeme: s.src[s.start:s.current], Line: s.line}
}

func (s *Scanner) errorToken(msg string) Token {
	return Token{Type: token.ILLEGAL, Lexeme: msg, Line: s.line}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlpha(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
