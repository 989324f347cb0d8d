package compiler

import "github.com/ico-lang/ico/lang/token"

// parseFn is a prefix or infix handler bound to one token type. canAssign is
// threaded through from parseWithPrecedence so only handlers invoked at or
// below assignment precedence treat a following '=' as part of their own
// production (spec 4.2, "Parsing").
type parseFn func(p *Parser, canAssign bool)

type rule struct {
	prefix     parseFn
	infix      parseFn
	precedence Precedence
}

// rules is indexed by token.Token; entries left at the zero value have no
// prefix/infix handler and PrecNone, which is exactly right for punctuation
// and keywords that never start or continue an expression (e.g. ';', '}').
var rules = [...]rule{
	token.LPAREN:  {prefix: (*Parser).grouping, infix: (*Parser).call, precedence: PrecCall},
	token.MINUS:   {prefix: (*Parser).unary, infix: (*Parser).binary, precedence: PrecTerm},
	token.PLUS:    {infix: (*Parser).binary, precedence: PrecTerm},
	token.SLASH:   {infix: (*Parser).binary, precedence: PrecFactor},
	token.STAR:    {infix: (*Parser).binary, precedence: PrecFactor},
	token.PERCENT: {infix: (*Parser).binary, precedence: PrecFactor},
	token.CARET:   {infix: (*Parser).binary, precedence: PrecPower},
	token.BANG:    {prefix: (*Parser).unary},
	token.BANG_EQ: {infix: (*Parser).binary, precedence: PrecEquality},
	token.EQ_EQ:   {infix: (*Parser).binary, precedence: PrecEquality},
	token.GT:      {infix: (*Parser).binary, precedence: PrecComparison},
	token.GE:      {infix: (*Parser).binary, precedence: PrecComparison},
	token.LT:      {infix: (*Parser).binary, precedence: PrecComparison},
	token.LE:      {infix: (*Parser).binary, precedence: PrecComparison},
	token.IDENT:   {prefix: (*Parser).variable},
	token.STRING:  {prefix: (*Parser).stringLiteral},
	token.INT:     {prefix: (*Parser).numberLiteral},
	token.FLOAT:   {prefix: (*Parser).numberLiteral},
	token.AND:     {infix: (*Parser).and, precedence: PrecAnd},
	token.OR:      {infix: (*Parser).or, precedence: PrecOr},
	token.FALSE:   {prefix: (*Parser).literal},
	token.TRUE:    {prefix: (*Parser).literal},
	token.NULL:    {prefix: (*Parser).literal},

	// WHILE is the last token kind declared in package token; naming it here
	// (even with a zero rule) sizes the array to cover every token kind, so
	// ruleFor never indexes out of range regardless of what follows an
	// expression.
	token.WHILE: {},
}

func ruleFor(t token.Token) *rule { return &rules[t] }
