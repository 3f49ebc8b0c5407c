package sparql

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/opd-ai/rdfstore/term"
)

// binding maps variable names to values for one solution.
type binding map[string]term.Term

// errType is the SPARQL type error; a FILTER that raises it rejects the row.
var errType = errors.New("type error")

var (
	trueLiteral  = term.NewTypedLiteral("true", xsdBoolean)
	falseLiteral = term.NewTypedLiteral("false", xsdBoolean)
)

func boolLiteral(v bool) term.Term {
	if v {
		return trueLiteral
	}
	return falseLiteral
}

var numericTypes = map[string]bool{
	xsdInteger: true, xsdDecimal: true, xsdDouble: true, xsdFloat: true,
	xsdNS + "int": true, xsdNS + "long": true, xsdNS + "short": true, xsdNS + "byte": true,
	xsdNS + "nonNegativeInteger": true, xsdNS + "positiveInteger": true,
	xsdNS + "negativeInteger": true, xsdNS + "nonPositiveInteger": true,
	xsdNS + "unsignedInt": true, xsdNS + "unsignedLong": true,
	xsdNS + "unsignedShort": true, xsdNS + "unsignedByte": true,
}

func isNumeric(t term.Term) bool {
	return t.IsLiteral() && t.Lang() == "" && numericTypes[t.Datatype()]
}

func isSimple(t term.Term) bool {
	return t.IsLiteral() && t.Lang() == "" && t.Datatype() == ""
}

func isBoolean(t term.Term) bool {
	return t.IsLiteral() && t.Datatype() == xsdBoolean
}

func numericValue(t term.Term) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(t.Value()), 64)
	if err != nil {
		return 0, errType
	}
	return f, nil
}

func booleanValue(t term.Term) bool {
	v := strings.TrimSpace(t.Value())
	return v == "true" || v == "1"
}

// ebv computes the effective boolean value of t.
func ebv(t term.Term) (bool, error) {
	switch {
	case isBoolean(t):
		return booleanValue(t), nil
	case isNumeric(t):
		f, err := numericValue(t)
		if err != nil {
			return false, nil
		}
		return f != 0 && !math.IsNaN(f), nil
	case isSimple(t), t.IsLiteral() && t.Datatype() == xsdString:
		return t.Value() != "", nil
	default:
		return false, errType
	}
}

func evalEBV(e Expr, b binding) (bool, error) {
	v, err := eval(e, b)
	if err != nil {
		return false, err
	}
	return ebv(v)
}

func eval(e Expr, b binding) (term.Term, error) {
	switch e := e.(type) {
	case VarExpr:
		v, ok := b[e.Name]
		if !ok {
			return term.Term{}, errType
		}
		return v, nil
	case ConstExpr:
		return e.Value, nil
	case UnaryExpr:
		return evalUnary(e, b)
	case BinaryExpr:
		return evalBinary(e, b)
	case CallExpr:
		return evalCall(e, b)
	default:
		return term.Term{}, errType
	}
}

func evalUnary(e UnaryExpr, b binding) (term.Term, error) {
	if e.Op == "!" {
		v, err := evalEBV(e.Operand, b)
		if err != nil {
			return term.Term{}, err
		}
		return boolLiteral(!v), nil
	}
	v, err := eval(e.Operand, b)
	if err != nil {
		return term.Term{}, err
	}
	if !isNumeric(v) {
		return term.Term{}, errType
	}
	if e.Op == "+" {
		return v, nil
	}
	f, err := numericValue(v)
	if err != nil {
		return term.Term{}, err
	}
	return numericLiteral(-f, v.Datatype()), nil
}

func evalBinary(e BinaryExpr, b binding) (term.Term, error) {
	switch e.Op {
	case "||":
		l, lerr := evalEBV(e.Left, b)
		if lerr == nil && l {
			return trueLiteral, nil
		}
		r, rerr := evalEBV(e.Right, b)
		if rerr == nil && r {
			return trueLiteral, nil
		}
		if lerr != nil {
			return term.Term{}, lerr
		}
		if rerr != nil {
			return term.Term{}, rerr
		}
		return falseLiteral, nil
	case "&&":
		l, lerr := evalEBV(e.Left, b)
		if lerr == nil && !l {
			return falseLiteral, nil
		}
		r, rerr := evalEBV(e.Right, b)
		if rerr == nil && !r {
			return falseLiteral, nil
		}
		if lerr != nil {
			return term.Term{}, lerr
		}
		if rerr != nil {
			return term.Term{}, rerr
		}
		return trueLiteral, nil
	}

	l, err := eval(e.Left, b)
	if err != nil {
		return term.Term{}, err
	}
	r, err := eval(e.Right, b)
	if err != nil {
		return term.Term{}, err
	}

	switch e.Op {
	case "=":
		eq, err := valueEqual(l, r)
		if err != nil {
			return term.Term{}, err
		}
		return boolLiteral(eq), nil
	case "!=":
		eq, err := valueEqual(l, r)
		if err != nil {
			return term.Term{}, err
		}
		return boolLiteral(!eq), nil
	case "<", ">", "<=", ">=":
		c, err := valueCompare(l, r)
		if err != nil {
			return term.Term{}, err
		}
		switch e.Op {
		case "<":
			return boolLiteral(c < 0), nil
		case ">":
			return boolLiteral(c > 0), nil
		case "<=":
			return boolLiteral(c <= 0), nil
		default:
			return boolLiteral(c >= 0), nil
		}
	case "+", "-", "*", "/":
		return arithmetic(e.Op, l, r)
	default:
		return term.Term{}, errType
	}
}

func valueEqual(l, r term.Term) (bool, error) {
	switch {
	case isNumeric(l) && isNumeric(r):
		a, err := numericValue(l)
		if err != nil {
			return false, err
		}
		c, err := numericValue(r)
		if err != nil {
			return false, err
		}
		return a == c, nil
	case isBoolean(l) && isBoolean(r):
		return booleanValue(l) == booleanValue(r), nil
	case isStringLike(l) && isStringLike(r):
		return l.Value() == r.Value(), nil
	default:
		return l == r, nil
	}
}

func isStringLike(t term.Term) bool {
	return isSimple(t) || t.IsLiteral() && t.Datatype() == xsdString
}

func valueCompare(l, r term.Term) (int, error) {
	switch {
	case isNumeric(l) && isNumeric(r):
		a, err := numericValue(l)
		if err != nil {
			return 0, err
		}
		c, err := numericValue(r)
		if err != nil {
			return 0, err
		}
		return compareFloat(a, c), nil
	case isStringLike(l) && isStringLike(r):
		return strings.Compare(l.Value(), r.Value()), nil
	case isBoolean(l) && isBoolean(r):
		a, c := booleanValue(l), booleanValue(r)
		switch {
		case a == c:
			return 0, nil
		case !a:
			return -1, nil
		default:
			return 1, nil
		}
	default:
		return 0, errType
	}
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// numericRank orders the numeric type promotion hierarchy.
func numericRank(datatype string) int {
	switch datatype {
	case xsdDouble:
		return 3
	case xsdFloat:
		return 2
	case xsdDecimal:
		return 1
	default:
		return 0
	}
}

func arithmetic(op string, l, r term.Term) (term.Term, error) {
	if !isNumeric(l) || !isNumeric(r) {
		return term.Term{}, errType
	}
	a, err := numericValue(l)
	if err != nil {
		return term.Term{}, err
	}
	c, err := numericValue(r)
	if err != nil {
		return term.Term{}, err
	}

	datatype := xsdInteger
	rank := max(numericRank(l.Datatype()), numericRank(r.Datatype()))
	switch rank {
	case 3:
		datatype = xsdDouble
	case 2:
		datatype = xsdFloat
	case 1:
		datatype = xsdDecimal
	}

	var v float64
	switch op {
	case "+":
		v = a + c
	case "-":
		v = a - c
	case "*":
		v = a * c
	case "/":
		if c == 0 && rank < 2 {
			return term.Term{}, errType
		}
		if datatype == xsdInteger {
			datatype = xsdDecimal
		}
		v = a / c
	}
	return numericLiteral(v, datatype), nil
}

func numericLiteral(v float64, datatype string) term.Term {
	if datatype == "" || numericRank(datatype) == 0 {
		if v == math.Trunc(v) && math.Abs(v) < 1<<53 {
			return term.NewTypedLiteral(strconv.FormatInt(int64(v), 10), xsdInteger)
		}
		datatype = xsdDecimal
	}
	return term.NewTypedLiteral(strconv.FormatFloat(v, 'f', -1, 64), datatype)
}

func evalCall(e CallExpr, b binding) (term.Term, error) {
	if e.Name == "BOUND" {
		_, ok := b[e.Args[0].(VarExpr).Name]
		return boolLiteral(ok), nil
	}

	args := make([]term.Term, len(e.Args))
	for i, a := range e.Args {
		v, err := eval(a, b)
		if err != nil {
			return term.Term{}, err
		}
		args[i] = v
	}
	v := args[0]

	switch e.Name {
	case "ISIRI", "ISURI":
		return boolLiteral(v.IsIRI()), nil
	case "ISBLANK":
		return boolLiteral(v.IsBlankNode()), nil
	case "ISLITERAL":
		return boolLiteral(v.IsLiteral()), nil
	case "STR":
		if v.IsBlankNode() {
			return term.Term{}, errType
		}
		return term.NewLiteral(v.Value()), nil
	case "LANG":
		if !v.IsLiteral() {
			return term.Term{}, errType
		}
		return term.NewLiteral(v.Lang()), nil
	case "DATATYPE":
		if !v.IsLiteral() {
			return term.Term{}, errType
		}
		dt := v.Datatype()
		switch {
		case v.Lang() != "":
			dt = rdfLangString
		case dt == "":
			dt = xsdString
		}
		iri, err := term.NewIRI(dt)
		if err != nil {
			return term.Term{}, errType
		}
		return iri, nil
	case "SAMETERM":
		return boolLiteral(v == args[1]), nil
	default:
		return term.Term{}, errType
	}
}

// orderCompare orders values for ORDER BY: unbound, then blank nodes, then
// IRIs, then literals.
func orderCompare(a, b term.Term, aOK, bOK bool) int {
	switch {
	case !aOK && !bOK:
		return 0
	case !aOK:
		return -1
	case !bOK:
		return 1
	}
	if ra, rb := orderRank(a), orderRank(b); ra != rb {
		return ra - rb
	}
	if a.IsLiteral() {
		if c, err := valueCompare(a, b); err == nil {
			return c
		}
		if c := strings.Compare(a.Value(), b.Value()); c != 0 {
			return c
		}
		if c := strings.Compare(a.Datatype(), b.Datatype()); c != 0 {
			return c
		}
		return strings.Compare(a.Lang(), b.Lang())
	}
	return strings.Compare(a.Value(), b.Value())
}

func orderRank(t term.Term) int {
	switch t.Kind() {
	case term.KindBlankNode:
		return 1
	case term.KindIRI:
		return 2
	case term.KindLiteral:
		return 3
	default:
		return 0
	}
}
