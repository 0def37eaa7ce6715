package compiler

import (
	"strconv"

	"github.com/xirelogy/golox/internal/bytecode"
	"github.com/xirelogy/golox/internal/token"
	"github.com/xirelogy/golox/internal/value"
)

// Precedence orders binding strength from loosest to tightest.
type Precedence int

const (
	PrecNone Precedence = iota
	PrecAssignment
	PrecOr
	PrecAnd
	PrecEquality
	PrecComparison
	PrecTerm
	PrecFactor
	PrecUnary
	PrecCall
	PrecPrimary
)

// parseFn names a parse routine; dispatch happens in parseWith.
type parseFn int

const (
	fnNone parseFn = iota
	fnGrouping
	fnUnary
	fnBinary
	fnNumber
	fnString
	fnLiteral
	fnVariable
	fnAnd
	fnOr
)

type parseRule struct {
	prefix     parseFn
	infix      parseFn
	precedence Precedence
}

func getRule(t token.Type) parseRule {
	switch t {
	case token.LeftParen:
		return parseRule{fnGrouping, fnNone, PrecNone}
	case token.Minus:
		return parseRule{fnUnary, fnBinary, PrecTerm}
	case token.Plus:
		return parseRule{fnNone, fnBinary, PrecTerm}
	case token.Slash, token.Star:
		return parseRule{fnNone, fnBinary, PrecFactor}
	case token.Bang:
		return parseRule{fnUnary, fnNone, PrecNone}
	case token.BangEqual, token.EqualEqual:
		return parseRule{fnNone, fnBinary, PrecEquality}
	case token.Greater, token.GreaterEqual, token.Less, token.LessEqual:
		return parseRule{fnNone, fnBinary, PrecComparison}
	case token.Identifier:
		return parseRule{fnVariable, fnNone, PrecNone}
	case token.String:
		return parseRule{fnString, fnNone, PrecNone}
	case token.Number:
		return parseRule{fnNumber, fnNone, PrecNone}
	case token.And:
		return parseRule{fnNone, fnAnd, PrecAnd}
	case token.Or:
		return parseRule{fnNone, fnOr, PrecOr}
	case token.False, token.True, token.Nil:
		return parseRule{fnLiteral, fnNone, PrecNone}
	default:
		return parseRule{fnNone, fnNone, PrecNone}
	}
}

func (c *compiler) parseWith(fn parseFn, canAssign bool) {
	switch fn {
	case fnGrouping:
		c.grouping()
	case fnUnary:
		c.unary()
	case fnBinary:
		c.binary()
	case fnNumber:
		c.number()
	case fnString:
		c.string()
	case fnLiteral:
		c.literal()
	case fnVariable:
		c.variable(canAssign)
	case fnAnd:
		c.and()
	case fnOr:
		c.or()
	}
}

func (c *compiler) expression() {
	c.parsePrecedence(PrecAssignment)
}

func (c *compiler) parsePrecedence(prec Precedence) {
	c.advance()
	prefix := getRule(c.previous.Type).prefix
	if prefix == fnNone {
		c.error("Expect expression.")
		return
	}

	canAssign := prec <= PrecAssignment
	c.parseWith(prefix, canAssign)

	for prec <= getRule(c.current.Type).precedence {
		c.advance()
		c.parseWith(getRule(c.previous.Type).infix, canAssign)
	}

	if canAssign && c.match(token.Equal) {
		c.error("Invalid assignment target.")
	}
}

func (c *compiler) grouping() {
	c.expression()
	c.consume(token.RightParen, "Expect ')' after expression.")
}

func (c *compiler) number() {
	n, err := strconv.ParseFloat(c.previous.Lexeme, 64)
	if err != nil {
		c.error("Invalid number literal.")
		return
	}
	c.emitConstant(value.Number(n))
}

func (c *compiler) string() {
	lexeme := c.previous.Lexeme
	s := c.heap.CopyString(lexeme[1 : len(lexeme)-1])
	c.emitConstant(value.FromObject(s))
}

func (c *compiler) literal() {
	switch c.previous.Type {
	case token.False:
		c.emitByte(bytecode.OP_FALSE)
	case token.True:
		c.emitByte(bytecode.OP_TRUE)
	case token.Nil:
		c.emitByte(bytecode.OP_NIL)
	}
}

func (c *compiler) unary() {
	op := c.previous.Type
	c.parsePrecedence(PrecUnary)
	switch op {
	case token.Minus:
		c.emitByte(bytecode.OP_NEGATE)
	case token.Bang:
		c.emitByte(bytecode.OP_NOT)
	}
}

func (c *compiler) binary() {
	op := c.previous.Type
	c.parsePrecedence(getRule(op).precedence + 1)

	switch op {
	case token.BangEqual:
		c.emitBytes(bytecode.OP_EQUAL, bytecode.OP_NOT)
	case token.EqualEqual:
		c.emitByte(bytecode.OP_EQUAL)
	case token.Greater:
		c.emitByte(bytecode.OP_GREATER)
	case token.GreaterEqual:
		c.emitBytes(bytecode.OP_LESS, bytecode.OP_NOT)
	case token.Less:
		c.emitByte(bytecode.OP_LESS)
	case token.LessEqual:
		c.emitBytes(bytecode.OP_GREATER, bytecode.OP_NOT)
	case token.Plus:
		c.emitByte(bytecode.OP_ADD)
	case token.Minus:
		c.emitByte(bytecode.OP_SUBTRACT)
	case token.Star:
		c.emitByte(bytecode.OP_MULTIPLY)
	case token.Slash:
		c.emitByte(bytecode.OP_DIVIDE)
	}
}

// and leaves the left operand when it is falsey, otherwise the right one.
func (c *compiler) and() {
	endJump := c.emitJump(bytecode.OP_JUMP_IF_FALSE)
	c.emitByte(bytecode.OP_POP)
	c.parsePrecedence(PrecAnd)
	c.patchJump(endJump)
}

// or leaves the left operand when it is truthy, otherwise the right one.
func (c *compiler) or() {
	elseJump := c.emitJump(bytecode.OP_JUMP_IF_FALSE)
	endJump := c.emitJump(bytecode.OP_JUMP)

	c.patchJump(elseJump)
	c.emitByte(bytecode.OP_POP)

	c.parsePrecedence(PrecOr)
	c.patchJump(endJump)
}

func (c *compiler) variable(canAssign bool) {
	c.namedVariable(c.previous, canAssign)
}

func (c *compiler) namedVariable(name token.Token, canAssign bool) {
	var getShort, getLong, setShort, setLong byte
	index := c.resolveLocal(name)
	local := index != -1
	if local {
		getShort, getLong = bytecode.OP_GET_LOCAL, bytecode.OP_GET_LOCAL_LONG
		setShort, setLong = bytecode.OP_SET_LOCAL, bytecode.OP_SET_LOCAL_LONG
	} else {
		index = c.identifierConstant(name)
		getShort, getLong = bytecode.OP_GET_GLOBAL, bytecode.OP_GET_GLOBAL_LONG
		setShort, setLong = bytecode.OP_SET_GLOBAL, bytecode.OP_SET_GLOBAL_LONG
	}

	short, long := getShort, getLong
	if canAssign && c.match(token.Equal) {
		c.expression()
		short, long = setShort, setLong
	}
	if local {
		c.emitIndexed(short, long, index, "Too many local variables in function.")
	} else {
		c.emitGlobal(short, long, index)
	}
}
