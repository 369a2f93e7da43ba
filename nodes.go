package equation

import (
	"strconv"

	"github.com/zephyrtronium/equation/lex"
)

// Node is one element of a parsed expression in postfix order. Evaluating the
// nodes left to right with a stack gives the value of the expression.
type Node struct {
	Kind NodeKind
	// Span is the source range the node came from. For functions, it covers
	// the name through the closing bracket.
	Span lex.Span
	// Name is the name of a constant or function, or the literal text of a
	// decimal number. It is a substring of the source.
	Name string
	// Int is the value of an integer literal.
	Int int64
	// Args is the number of arguments a function call passes.
	Args int
}

// NodeKind is the kind of a node.
type NodeKind int8

const (
	nodeNone NodeKind = iota

	NodeInt      // push Int
	NodeDecimal  // push the decimal number spelled by Name
	NodeConstant // push resolve(Name)
	NodeFunction // pop Args operands, push call(Name, args)

	NodeAdd // pop r, pop l, push l + r
	NodeSub // pop r, pop l, push l - r
	NodeMul // pop r, pop l, push l * r
	NodeDiv // pop r, pop l, push l / r
	NodeMod // pop r, pop l, push l % r
	NodePow // pop r, pop l, push l ^ r

	NodeEq  // pop r, pop l, push l = r
	NodeNeq // pop r, pop l, push l != r
	NodeGe  // pop r, pop l, push l > r
	NodeLe  // pop r, pop l, push l < r
)

var nodenames = [...]string{
	nodeNone:     "None",
	NodeInt:      "Int",
	NodeDecimal:  "Decimal",
	NodeConstant: "Constant",
	NodeFunction: "Function",
	NodeAdd:      "Add",
	NodeSub:      "Sub",
	NodeMul:      "Mul",
	NodeDiv:      "Div",
	NodeMod:      "Mod",
	NodePow:      "Pow",
	NodeEq:       "Eq",
	NodeNeq:      "Neq",
	NodeGe:       "Ge",
	NodeLe:       "Le",
}

func (k NodeKind) String() string {
	if k >= 0 && int(k) < len(nodenames) {
		return nodenames[k]
	}
	return "NodeKind(" + strconv.Itoa(int(k)) + ")"
}

// IsUnary reports whether k is a leaf operand.
func (k NodeKind) IsUnary() bool {
	return NodeInt <= k && k <= NodeConstant
}

// IsOperator reports whether k is an arithmetic operator.
func (k NodeKind) IsOperator() bool {
	return NodeAdd <= k && k <= NodePow
}

// IsEquation reports whether k is a comparison.
func (k NodeKind) IsEquation() bool {
	return NodeEq <= k && k <= NodeLe
}

// Symbol returns the operator or comparison symbol for k, or the empty string
// if k is neither.
func (k NodeKind) Symbol() string {
	switch k {
	case NodeAdd:
		return "+"
	case NodeSub:
		return "-"
	case NodeMul:
		return "*"
	case NodeDiv:
		return "/"
	case NodeMod:
		return "%"
	case NodePow:
		return "^"
	case NodeEq:
		return "="
	case NodeNeq:
		return "!="
	case NodeGe:
		return ">"
	case NodeLe:
		return "<"
	default:
		return ""
	}
}

// String formats the node the way it appears in a postfix listing.
func (n Node) String() string {
	switch n.Kind {
	case NodeInt:
		return strconv.FormatInt(n.Int, 10)
	case NodeDecimal, NodeConstant:
		return n.Name
	case NodeFunction:
		return n.Name + "/" + strconv.Itoa(n.Args)
	default:
		if s := n.Kind.Symbol(); s != "" {
			return s
		}
		return "$" + n.Kind.String() + "$"
	}
}
