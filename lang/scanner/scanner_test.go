package scanner_test

import (
	"testing"

	"github.com/ico-lang/ico/lang/scanner"
	"github.com/ico-lang/ico/lang/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scanAll(t *testing.T, src string) []scanner.Token {
	t.Helper()
	var s scanner.Scanner
	s.Init(src)
	var toks []scanner.Token
	for {
		tok := s.Next()
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			return toks
		}
	}
}

func TestScanPunctuationAndOperators(t *testing.T) {
	toks := scanAll(t, "(){};,.+-*/%^!!====<=<>>=")
	want := []token.Token{
		token.LPAREN, token.RPAREN, token.LBRACE, token.RBRACE, token.SEMI,
		token.COMMA, token.DOT, token.PLUS, token.MINUS, token.STAR, token.SLASH,
		token.PERCENT, token.CARET, token.BANG, token.BANG_EQ, token.EQ_EQ,
		token.EQ, token.LE, token.LT, token.GT, token.GE, token.EOF,
	}
	require.Len(t, toks, len(want))
	for i, w := range want {
		assert.Equalf(t, w, toks[i].Type, "token %d", i)
	}
}

func TestScanKeywordsVsIdentifiers(t *testing.T) {
	toks := scanAll(t, "var x = fun orbit")
	want := []token.Token{token.VAR, token.IDENT, token.EQ, token.FUN, token.IDENT, token.EOF}
	require.Len(t, toks, len(want))
	for i, w := range want {
		assert.Equalf(t, w, toks[i].Type, "token %d", i)
	}
	assert.Equal(t, "x", toks[1].Lexeme)
	assert.Equal(t, "orbit", toks[4].Lexeme)
}

func TestScanNumbers(t *testing.T) {
	toks := scanAll(t, "123 4.5 6.")
	require.Len(t, toks, 5)
	assert.Equal(t, token.INT, toks[0].Type)
	assert.Equal(t, "123", toks[0].Lexeme)
	assert.Equal(t, token.FLOAT, toks[1].Type)
	assert.Equal(t, "4.5", toks[1].Lexeme)
	// a trailing dot with no digit after it is not part of the number
	assert.Equal(t, token.INT, toks[2].Type)
	assert.Equal(t, "6", toks[2].Lexeme)
	assert.Equal(t, token.DOT, toks[3].Type)
}

func TestScanStrings(t *testing.T) {
	toks := scanAll(t, `"hello" "multi
line"`)
	require.Len(t, toks, 3)
	assert.Equal(t, token.STRING, toks[0].Type)
	assert.Equal(t, `"hello"`, toks[0].Lexeme)
	assert.Equal(t, token.STRING, toks[1].Type)
	assert.Equal(t, 1, toks[0].Line)
	assert.Equal(t, 2, toks[1].Line)
}

func TestScanUnterminatedString(t *testing.T) {
	toks := scanAll(t, `"oops`)
	require.Len(t, toks, 2)
	assert.Equal(t, token.ILLEGAL, toks[0].Type)
	assert.Equal(t, "unterminated string", toks[0].Lexeme)
}

func TestScanLineCommentsAndWhitespace(t *testing.T) {
	toks := scanAll(t, "1 // a comment\n2")
	require.Len(t, toks, 3)
	assert.Equal(t, "1", toks[0].Lexeme)
	assert.Equal(t, 1, toks[0].Line)
	assert.Equal(t, "2", toks[1].Lexeme)
	assert.Equal(t, 2, toks[1].Line)
}

func TestScanIllegalCharacter(t *testing.T) {
	toks := scanAll(t, "@")
	require.Len(t, toks, 2)
	assert.Equal(t, token.ILLEGAL, toks[0].Type)
	assert.Equal(t, "unexpected character", toks[0].Lexeme)
}
