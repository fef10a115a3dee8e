// Package expr implements the filter-expression language: a small
// Pratt-precedence boolean grammar evaluated against a candidate's
// tags and the selection context built up so far during rendering.
//
//	expr    := or
//	or      := and ("||" and)*
//	and     := not ("&&" not)*
//	not     := "!" not | primary
//	primary := "(" expr ")"
//	         | "tags." IDENT [ ("==" | "!=") literal ]
//	         | "ref:" IDENT ("." IDENT)* [ "in" "tags." IDENT ]
//	literal := "\"" STRING "\"" | NUMBER | "true" | "false"
//
// Every AST node kind is a distinct Go type rather than a
// string-tagged enum. Evaluation never errors: a missing reference or
// tag always resolves to false rather than aborting; validation is
// what statically prevents authors from relying on references that
// can never be missing.
package expr

// Node is one AST node of a filter expression.
type Node interface {
	Eval(ctx *EvalContext) bool
}

// And is a short-circuiting conjunction.
type And struct{ Left, Right Node }

func (n *And) Eval(ctx *EvalContext) bool { return n.Left.Eval(ctx) && n.Right.Eval(ctx) }

// Or is a short-circuiting disjunction.
type Or struct{ Left, Right Node }

func (n *Or) Eval(ctx *EvalContext) bool { return n.Left.Eval(ctx) || n.Right.Eval(ctx) }

// Not negates its operand.
type Not struct{ Inner Node }

func (n *Not) Eval(ctx *EvalContext) bool { return !n.Inner.Eval(ctx) }

// CompareOp is the comparison operator of a Comparison node.
type CompareOp int

const (
	OpEq CompareOp = iota
	OpNe
)

// LiteralKind identifies the type of a parsed literal value.
type LiteralKind int

const (
	LitString LiteralKind = iota
	LitNumber
	LitBool
)

// Literal is a parsed "..."/NUMBER/true/false token.
type Literal struct {
	Kind   LiteralKind
	String string
	Number float64
	Bool   bool
}

// Comparison is `tags.X == lit` or `tags.X != lit`. A missing tag
// never matches either operator.
type Comparison struct {
	Tag   string
	Op    CompareOp
	Value Literal
}

func (n *Comparison) Eval(ctx *EvalContext) bool {
	v, ok := ctx.Tags[n.Tag]
	if !ok {
		return false
	}
	matches := literalEquals(n.Value, v)
	if n.Op == OpEq {
		return matches
	}
	return !matches
}

// TagCheck is a bare `tags.X` existence-and-truthiness check.
type TagCheck struct{ Tag string }

func (n *TagCheck) Eval(ctx *EvalContext) bool {
	v, ok := ctx.Tags[n.Tag]
	if !ok {
		return false
	}
	return truthy(v)
}

// RefAccess is `ref:R`, `ref:R.text`, or `ref:R.tags.X`. FieldPath is
// nil/empty for the bare and `.text` forms (they are equivalent); for
// `.tags.X` it is ["tags", "X"].
type RefAccess struct {
	RefName   string
	FieldPath []string
}

func (n *RefAccess) Eval(ctx *EvalContext) bool {
	sel, ok := ctx.Selections[n.RefName]
	if !ok {
		return false
	}
	if len(n.FieldPath) == 0 || (len(n.FieldPath) == 1 && n.FieldPath[0] == "text") {
		return sel.Text != ""
	}
	if len(n.FieldPath) == 2 && n.FieldPath[0] == "tags" {
		v, ok := sel.Tags[n.FieldPath[1]]
		if !ok {
			return false
		}
		return truthy(v)
	}
	return false
}

// InList is `ref:R[.text] in tags.L`.
type InList struct {
	Ref     RefAccess
	ListTag string
}

func (n *InList) Eval(ctx *EvalContext) bool {
	sel, ok := ctx.Selections[n.Ref.RefName]
	if !ok {
		return false
	}
	v := sel.Text
	list, ok := ctx.Tags[n.ListTag]
	if !ok {
		return false
	}
	switch l := list.(type) {
	case []any:
		for _, item := range l {
			if s, ok := item.(string); ok && s == v {
				return true
			}
		}
		return false
	case string:
		return l == v
	default:
		return false
	}
}

// Selection is the Phase-1 selection-context entry for one reference:
// the first selected value's text and tags.
type Selection struct {
	Text string
	Tags map[string]any
}

// EvalContext bundles the two inputs evaluation needs: the current
// candidate's tags, and the selection-context map of
// previously-resolved references.
type EvalContext struct {
	Tags       map[string]any
	Selections map[string]Selection
}

func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	case int:
		return t != 0
	case []any, map[string]any:
		return true
	case nil:
		return false
	default:
		return true
	}
}

func literalEquals(lit Literal, v any) bool {
	switch lit.Kind {
	case LitString:
		s, ok := v.(string)
		return ok && s == lit.String
	case LitBool:
		b, ok := v.(bool)
		return ok && b == lit.Bool
	case LitNumber:
		switch n := v.(type) {
		case float64:
			return n == lit.Number
		case int:
			return float64(n) == lit.Number
		default:
			return false
		}
	default:
		return false
	}
}

// ExtractRefDependencies returns the set of reference names
// syntactically appearing in RefAccess/InList nodes of expr, used to
// build the selection-order dependency graph before rendering.
func ExtractRefDependencies(n Node) map[string]bool {
	out := map[string]bool{}
	var walk func(Node)
	walk = func(n Node) {
		switch t := n.(type) {
		case *And:
			walk(t.Left)
			walk(t.Right)
		case *Or:
			walk(t.Left)
			walk(t.Right)
		case *Not:
			walk(t.Inner)
		case *RefAccess:
			out[t.RefName] = true
		case *InList:
			out[t.Ref.RefName] = true
		}
	}
	walk(n)
	return out
}
