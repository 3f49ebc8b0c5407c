package sparql

import "github.com/opd-ai/rdfstore/term"

// Form is the query form.
type Form uint8

const (
	FormSelect Form = iota
	FormAsk
	FormConstruct
	FormDescribe
)

// String returns the SPARQL keyword for the form.
func (f Form) String() string {
	switch f {
	case FormSelect:
		return "SELECT"
	case FormAsk:
		return "ASK"
	case FormConstruct:
		return "CONSTRUCT"
	case FormDescribe:
		return "DESCRIBE"
	default:
		return "UNKNOWN"
	}
}

// Query is a parsed query.
type Query struct {
	Form     Form
	Distinct bool
	Reduced  bool

	// Variables is the SELECT projection; nil means "*".
	Variables []string

	// Template holds CONSTRUCT triple templates.
	Template []TriplePattern

	// Describe holds DESCRIBE targets, variables or IRIs.
	Describe []Node

	Where   []TriplePattern
	Filters []Expr
	OrderBy []OrderCondition

	// Limit is -1 when absent.
	Limit  int
	Offset int
}

// Node is a pattern position: a variable, a constant term or, in CONSTRUCT
// templates, a blank node label.
type Node struct {
	Var   string
	Blank string
	Term  term.Term
}

// IsVar reports whether the node is a variable.
func (n Node) IsVar() bool { return n.Var != "" }

// TriplePattern is one triple of a basic graph pattern or template.
type TriplePattern struct {
	Subject, Predicate, Object Node
}

// OrderCondition is one ORDER BY key.
type OrderCondition struct {
	Expr       Expr
	Descending bool
}

// Expr is a FILTER or ORDER BY expression.
type Expr interface {
	expr()
}

// VarExpr references a variable.
type VarExpr struct{ Name string }

// ConstExpr is a constant term.
type ConstExpr struct{ Value term.Term }

// UnaryExpr applies "!", "-" or "+" to an operand.
type UnaryExpr struct {
	Op      string
	Operand Expr
}

// BinaryExpr applies a logical, comparison or arithmetic operator.
type BinaryExpr struct {
	Op          string
	Left, Right Expr
}

// CallExpr invokes a built-in function. Name is upper-cased.
type CallExpr struct {
	Name string
	Args []Expr
}

func (VarExpr) expr()    {}
func (ConstExpr) expr()  {}
func (UnaryExpr) expr()  {}
func (BinaryExpr) expr() {}
func (CallExpr) expr()   {}

// Datatype IRIs used by the parser and evaluator.
const (
	xsdNS         = "http://www.w3.org/2001/XMLSchema#"
	xsdString     = xsdNS + "string"
	xsdBoolean    = xsdNS + "boolean"
	xsdInteger    = xsdNS + "integer"
	xsdDecimal    = xsdNS + "decimal"
	xsdDouble     = xsdNS + "double"
	xsdFloat      = xsdNS + "float"
	rdfType       = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"
	rdfLangString = "http://www.w3.org/1999/02/22-rdf-syntax-ns#langString"
)
