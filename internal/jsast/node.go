// Package jsast provides a tolerant lexer and expression parser for the
// script dialects used by the application layer. It recovers only the node
// shapes the guard rules consult: string literals, template literals with
// interpolation slots, identifiers, property/element accesses, call
// expressions, and `+` concatenation chains. Everything else is preserved as
// an opaque raw node so traversal never fails on unknown syntax.
package jsast

// Node is one recovered syntax node. Offsets are byte positions into the
// original file text.
type Node interface {
	Pos() int
	End() int
}

type span struct {
	pos int
	end int
}

func (s span) Pos() int { return s.pos }
func (s span) End() int { return s.end }

// StringLit is a plain single- or double-quoted string literal.
type StringLit struct {
	span
	Value string
}

// TemplateLit is a backtick template. Statics holds the cooked static
// segments; a template with N interpolation slots has N+1 statics. Slots
// holds every expression recovered from the interpolation slots, in order.
type TemplateLit struct {
	span
	Statics []string
	Slots   []Node
}

// SlotCount returns the number of interpolation slots. A template with zero
// slots is a no-substitution literal.
func (t *TemplateLit) SlotCount() int {
	if len(t.Statics) == 0 {
		return 0
	}
	return len(t.Statics) - 1
}

// StaticText returns the concatenation of the static segments only;
// interpolated values cannot be known statically.
func (t *TemplateLit) StaticText() string {
	out := ""
	for _, s := range t.Statics {
		out += s
	}
	return out
}

// Ident is a bare identifier reference.
type Ident struct {
	span
	Name string
}

// PropertyAccess is `object.property` (or optional-chained `object?.property`).
type PropertyAccess struct {
	span
	Object   Node
	Property string
}

// ElementAccess is `object[index]`.
type ElementAccess struct {
	span
	Object Node
	Index  Node
}

// Call is a call expression with its recovered arguments.
type Call struct {
	span
	Callee Node
	Args   []Node
}

// Add is one `+` binary expression. Chains parse left-associated, so the
// outermost Add of a chain is the only one whose parent is not an Add.
type Add struct {
	span
	Left  Node
	Right Node
}

// Raw is the fallback arm for anything the parser does not model. It is
// expected and common, not an error.
type Raw struct {
	span
	Text string
}

// CalleeName resolves the simple name a call dispatches to: the identifier
// itself, or the final property of an access chain. Unresolvable callees
// (element accesses, immediately-invoked results) yield "".
func CalleeName(callee Node) string {
	switch n := callee.(type) {
	case *Ident:
		return n.Name
	case *PropertyAccess:
		return n.Property
	default:
		return ""
	}
}

// Walk visits node and every child depth-first. The visitor receives the
// current node and its parent (nil for roots).
func Walk(node Node, parent Node, visit func(n, parent Node)) {
	if node == nil {
		return
	}
	visit(node, parent)
	switch n := node.(type) {
	case *TemplateLit:
		for _, slot := range n.Slots {
			Walk(slot, node, visit)
		}
	case *PropertyAccess:
		Walk(n.Object, node, visit)
	case *ElementAccess:
		Walk(n.Object, node, visit)
		Walk(n.Index, node, visit)
	case *Call:
		Walk(n.Callee, node, visit)
		for _, arg := range n.Args {
			Walk(arg, node, visit)
		}
	case *Add:
		Walk(n.Left, node, visit)
		Walk(n.Right, node, visit)
	}
}
