package compiler

import (
	"github.com/xirelogy/golox/internal/bytecode"
	"github.com/xirelogy/golox/internal/token"
)

// MaxLocals bounds the number of locals live at once.
const MaxLocals = 1 << 15

// Local is a block-scoped variable living in a stack slot. Depth is -1 while
// the variable's initializer is being compiled.
type Local struct {
	Name  token.Token
	Depth int
}

func (c *compiler) beginScope() {
	c.scopeDepth++
}

func (c *compiler) endScope() {
	c.scopeDepth--
	for len(c.locals) > 0 && c.locals[len(c.locals)-1].Depth > c.scopeDepth {
		c.emitByte(bytecode.OP_POP)
		c.locals = c.locals[:len(c.locals)-1]
	}
}

// addLocal reserves the next stack slot for name.
func (c *compiler) addLocal(name token.Token) {
	if len(c.locals) == MaxLocals {
		c.error("Too many local variables in function.")
		return
	}
	c.locals = append(c.locals, Local{Name: name, Depth: -1})
}

// resolveLocal returns the slot of the innermost local called name, or -1.
func (c *compiler) resolveLocal(name token.Token) int {
	for i := len(c.locals) - 1; i >= 0; i-- {
		local := &c.locals[i]
		if local.Name.Lexeme != name.Lexeme {
			continue
		}
		if local.Depth == -1 {
			c.error("Can't read local variable in its own initializer.")
		}
		return i
	}
	return -1
}

func (c *compiler) declareVariable() {
	if c.scopeDepth == 0 {
		return
	}
	name := c.previous
	for i := len(c.locals) - 1; i >= 0; i-- {
		local := &c.locals[i]
		if local.Depth != -1 && local.Depth < c.scopeDepth {
			break
		}
		if local.Name.Lexeme == name.Lexeme {
			c.error("Already a variable with this name in this scope.")
		}
	}
	c.addLocal(name)
}

// parseVariable consumes a variable name. Globals return their name
// constant; locals return 0 and are addressed by slot instead.
func (c *compiler) parseVariable(msg string) int {
	c.consume(token.Identifier, msg)
	c.declareVariable()
	if c.scopeDepth > 0 {
		return 0
	}
	return c.identifierConstant(c.previous)
}

func (c *compiler) markInitialized() {
	c.locals[len(c.locals)-1].Depth = c.scopeDepth
}

func (c *compiler) defineVariable(global int) {
	if c.scopeDepth > 0 {
		// addLocal may have refused the slot
		if len(c.locals) > 0 && c.locals[len(c.locals)-1].Depth == -1 {
			c.markInitialized()
		}
		return
	}
	c.emitGlobal(bytecode.OP_DEFINE_GLOBAL, bytecode.OP_DEFINE_GLOBAL_LONG, global)
}
