// Package compiler turns source text into a bytecode chunk in a single pass.
// Parsing and code generation are fused: there is no syntax tree.
package compiler

import (
	"fmt"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/xirelogy/golox/internal/bytecode"
	"github.com/xirelogy/golox/internal/heap"
	"github.com/xirelogy/golox/internal/scanner"
	"github.com/xirelogy/golox/internal/table"
	"github.com/xirelogy/golox/internal/token"
)

var log = commonlog.GetLogger("golox.compiler")

// Diagnostic is one compile error.
type Diagnostic struct {
	Line int
	// Where is " at 'lexeme'", " at end", or empty for scanner errors.
	Where   string
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("[line %d] Error%s: %s", d.Line, d.Where, d.Message)
}

// Error carries every diagnostic reported while compiling one source.
type Error struct {
	Diagnostics []Diagnostic
}

func (e *Error) Error() string {
	lines := make([]string, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		lines[i] = d.String()
	}
	return strings.Join(lines, "\n")
}

// Compile compiles source into a chunk. String constants are interned through
// h. When any error is reported no chunk is returned and the error is an
// *Error listing every diagnostic.
func Compile(source string, h *heap.Heap) (*bytecode.Chunk, error) {
	c := &compiler{
		scanner: scanner.New(source),
		chunk:   bytecode.NewChunk(),
		heap:    h,
		globals: table.New(),
	}

	c.advance()
	for !c.match(token.EOF) {
		c.declaration()
	}
	c.emitByte(bytecode.OP_RETURN)

	if c.hadError {
		log.Debugf("compile failed with %d diagnostic(s)", len(c.diagnostics))
		return nil, &Error{Diagnostics: c.diagnostics}
	}
	log.Debugf("compiled %d bytes, %d constants", len(c.chunk.Code), len(c.chunk.Constants))
	return c.chunk, nil
}

type compiler struct {
	scanner  *scanner.Scanner
	current  token.Token
	previous token.Token

	hadError    bool
	panicMode   bool
	diagnostics []Diagnostic

	chunk *bytecode.Chunk
	heap  *heap.Heap
	// global name -> constant index, so each name occupies one slot
	globals *table.Table

	locals     []Local
	scopeDepth int
}

func (c *compiler) advance() {
	c.previous = c.current
	for {
		c.current = c.scanner.ScanToken()
		if c.current.Type != token.Error {
			break
		}
		c.errorAtCurrent(c.current.Lexeme)
	}
}

func (c *compiler) consume(t token.Type, msg string) {
	if c.current.Type == t {
		c.advance()
		return
	}
	c.errorAtCurrent(msg)
}

func (c *compiler) check(t token.Type) bool {
	return c.current.Type == t
}

func (c *compiler) match(t token.Type) bool {
	if !c.check(t) {
		return false
	}
	c.advance()
	return true
}

func (c *compiler) errorAtCurrent(msg string) { c.errorAt(c.current, msg) }
func (c *compiler) error(msg string)          { c.errorAt(c.previous, msg) }

func (c *compiler) errorAt(tok token.Token, msg string) {
	if c.panicMode {
		return
	}
	c.panicMode = true
	c.hadError = true

	d := Diagnostic{Line: tok.Line, Message: msg}
	switch tok.Type {
	case token.EOF:
		d.Where = " at end"
	case token.Error:
		// the lexeme is the message itself
	default:
		d.Where = fmt.Sprintf(" at '%s'", tok.Lexeme)
	}
	c.diagnostics = append(c.diagnostics, d)
}

// synchronize skips tokens until a likely statement boundary.
func (c *compiler) synchronize() {
	c.panicMode = false
	for c.current.Type != token.EOF {
		if c.previous.Type == token.Semicolon {
			return
		}
		switch c.current.Type {
		case token.Class, token.Fun, token.Var, token.For,
			token.If, token.While, token.Print, token.Return:
			return
		}
		c.advance()
	}
}

func (c *compiler) declaration() {
	if c.match(token.Var) {
		c.varDeclaration()
	} else {
		c.statement()
	}
	if c.panicMode {
		c.synchronize()
	}
}

func (c *compiler) varDeclaration() {
	global := c.parseVariable("Expect variable name.")
	if c.match(token.Equal) {
		c.expression()
	} else {
		c.emitByte(bytecode.OP_NIL)
	}
	c.consume(token.Semicolon, "Expect ';' after variable declaration.")
	c.defineVariable(global)
}

func (c *compiler) statement() {
	switch {
	case c.match(token.Print):
		c.printStatement()
	case c.match(token.If):
		c.ifStatement()
	case c.match(token.While):
		c.whileStatement()
	case c.match(token.For):
		c.forStatement()
	case c.match(token.LeftBrace):
		c.beginScope()
		c.block()
		c.endScope()
	default:
		c.expressionStatement()
	}
}

func (c *compiler) block() {
	for !c.check(token.RightBrace) && !c.check(token.EOF) {
		c.declaration()
	}
	c.consume(token.RightBrace, "Expect '}' after block.")
}

func (c *compiler) printStatement() {
	c.expression()
	c.consume(token.Semicolon, "Expect ';' after value.")
	c.emitByte(bytecode.OP_PRINT)
}

func (c *compiler) expressionStatement() {
	c.expression()
	c.consume(token.Semicolon, "Expect ';' after expression.")
	c.emitByte(bytecode.OP_POP)
}

func (c *compiler) ifStatement() {
	c.consume(token.LeftParen, "Expect '(' after 'if'.")
	c.expression()
	c.consume(token.RightParen, "Expect ')' after condition.")

	thenJump := c.emitJump(bytecode.OP_JUMP_IF_FALSE)
	c.emitByte(bytecode.OP_POP)
	c.statement()

	elseJump := c.emitJump(bytecode.OP_JUMP)
	c.patchJump(thenJump)
	c.emitByte(bytecode.OP_POP)

	if c.match(token.Else) {
		c.statement()
	}
	c.patchJump(elseJump)
}

func (c *compiler) whileStatement() {
	loopStart := len(c.chunk.Code)
	c.consume(token.LeftParen, "Expect '(' after 'while'.")
	c.expression()
	c.consume(token.RightParen, "Expect ')' after condition.")

	exitJump := c.emitJump(bytecode.OP_JUMP_IF_FALSE)
	c.emitByte(bytecode.OP_POP)
	c.statement()
	c.emitLoop(loopStart)

	c.patchJump(exitJump)
	c.emitByte(bytecode.OP_POP)
}

// forStatement desugars into a while loop. The increment clause is compiled
// before the body, so a jump skips it on entry and the body loops back to it.
func (c *compiler) forStatement() {
	c.beginScope()
	c.consume(token.LeftParen, "Expect '(' after 'for'.")
	switch {
	case c.match(token.Semicolon):
		// no initializer
	case c.match(token.Var):
		c.varDeclaration()
	default:
		c.expressionStatement()
	}

	loopStart := len(c.chunk.Code)
	exitJump := -1
	if !c.match(token.Semicolon) {
		c.expression()
		c.consume(token.Semicolon, "Expect ';' after loop condition.")
		exitJump = c.emitJump(bytecode.OP_JUMP_IF_FALSE)
		c.emitByte(bytecode.OP_POP)
	}

	if !c.match(token.RightParen) {
		bodyJump := c.emitJump(bytecode.OP_JUMP)
		incrementStart := len(c.chunk.Code)
		c.expression()
		c.emitByte(bytecode.OP_POP)
		c.consume(token.RightParen, "Expect ')' after for clauses.")

		c.emitLoop(loopStart)
		loopStart = incrementStart
		c.patchJump(bodyJump)
	}

	c.statement()
	c.emitLoop(loopStart)

	if exitJump != -1 {
		c.patchJump(exitJump)
		c.emitByte(bytecode.OP_POP)
	}
	c.endScope()
}
