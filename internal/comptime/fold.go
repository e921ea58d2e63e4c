package comptime

import (
	"math"
	"math/bits"
	"strconv"

	"github.com/sunholo/pyzig/internal/ast"
)

// pureBuiltins is the allow-list of builtins safe to evaluate at compile
// time: each is deterministic, side-effect free, and operates purely on
// its arguments.
var pureBuiltins = map[string]bool{
	"abs": true, "min": true, "max": true, "len": true, "round": true,
	"int": true, "float": true, "str": true, "bool": true, "sum": true,
}

// Fold attempts to reduce expr to a constant Value given a set of
// already-known constant bindings (typically prior top-level
// assignments). It returns ok=false for anything requiring runtime
// state: unresolved names, I/O, mutation, or a call outside the pure
// builtin allow-list.
func Fold(expr ast.Expr, consts map[string]Value) (Value, bool) {
	switch e := expr.(type) {
	case *ast.Constant:
		return foldConstant(e)
	case *ast.Name:
		v, ok := consts[e.Id]
		return v, ok
	case *ast.UnaryOp:
		return foldUnary(e, consts)
	case *ast.BinOp:
		return foldBinOp(e, consts)
	case *ast.BoolOp:
		return foldBoolOp(e, consts)
	case *ast.Compare:
		return foldCompare(e, consts)
	case *ast.IfExpr:
		cond, ok := Fold(e.Test, consts)
		if !ok {
			return nil, false
		}
		if truthy(cond) {
			return Fold(e.Body, consts)
		}
		return Fold(e.Orelse, consts)
	case *ast.TupleExpr:
		vals, ok := foldAll(e.Elts, consts)
		if !ok {
			return nil, false
		}
		return TupleValue(vals), true
	case *ast.ListExpr:
		vals, ok := foldAll(e.Elts, consts)
		if !ok {
			return nil, false
		}
		return ListValue(vals), true
	case *ast.Call:
		return foldCall(e, consts)
	default:
		return nil, false
	}
}

func foldAll(exprs []ast.Expr, consts map[string]Value) ([]Value, bool) {
	out := make([]Value, len(exprs))
	for i, e := range exprs {
		v, ok := Fold(e, consts)
		if !ok {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

func foldConstant(c *ast.Constant) (Value, bool) {
	switch c.Kind {
	case ast.ConstInt:
		switch v := c.Value.(type) {
		case int64:
			return IntValue(v), true
		case int:
			return IntValue(v), true
		case string:
			// overflowed into bigint territory; not foldable here since
			// bigint arithmetic isn't part of the pure-fold subset.
			return nil, false
		}
	case ast.ConstFloat:
		if v, ok := c.Value.(float64); ok {
			return FloatValue(v), true
		}
	case ast.ConstString:
		if v, ok := c.Value.(string); ok {
			return StringValue(v), true
		}
	case ast.ConstBool:
		if v, ok := c.Value.(bool); ok {
			return BoolValue(v), true
		}
	case ast.ConstNone:
		return NoneValue{}, true
	}
	return nil, false
}

func truthy(v Value) bool {
	switch val := v.(type) {
	case BoolValue:
		return bool(val)
	case IntValue:
		return val != 0
	case FloatValue:
		return val != 0
	case StringValue:
		return val != ""
	case NoneValue:
		return false
	case ListValue:
		return len(val) > 0
	case TupleValue:
		return len(val) > 0
	}
	return true
}

func foldUnary(e *ast.UnaryOp, consts map[string]Value) (Value, bool) {
	v, ok := Fold(e.Operand, consts)
	if !ok {
		return nil, false
	}
	switch e.Op {
	case "not":
		return BoolValue(!truthy(v)), true
	case "-":
		switch val := v.(type) {
		case IntValue:
			return -val, true
		case FloatValue:
			return -val, true
		}
	case "+":
		return v, true
	}
	return nil, false
}

func asFloat(v Value) (float64, bool) {
	switch val := v.(type) {
	case IntValue:
		return float64(val), true
	case FloatValue:
		return float64(val), true
	case BoolValue:
		if val {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

func bothInt(a, b Value) (int64, int64, bool) {
	ai, ok1 := a.(IntValue)
	bi, ok2 := b.(IntValue)
	if ok1 && ok2 {
		return int64(ai), int64(bi), true
	}
	return 0, 0, false
}

// addOverflows computes a+b; its ok result is false when the signed 64-bit
// result overflowed (spec.md §4.6: "numeric arithmetic with overflow detection",
// "Returns None on: ... overflow"). bits.Add64 computes the wrapped
// 64-bit sum the same way native int64 addition would; the two-sided
// sign check after it is what actually detects the overflow bits.Add64's
// own carry-out bit can't express for a signed interpretation.
func addOverflows(a, b int64) (int64, bool) {
	sum, _ := bits.Add64(uint64(a), uint64(b), 0)
	result := int64(sum)
	if (a >= 0) == (b >= 0) && (result >= 0) != (a >= 0) {
		return 0, false
	}
	return result, true
}

// subOverflows computes a-b; ok is false when the signed 64-bit result
// overflowed. It works via the same add-with-negation identity a-b = a+(-b) —
// guarded separately against negating math.MinInt64, which has no
// positive int64 counterpart.
func subOverflows(a, b int64) (int64, bool) {
	if b == math.MinInt64 {
		return 0, false
	}
	return addOverflows(a, -b)
}

// mulOverflows computes a*b; ok is false when the signed 64-bit result
// overflowed. bits.Mul64 gives the full 128-bit product of the operands'
// magnitudes; a nonzero high word, or a low word past what int64 can
// represent with the resolved sign, means the product doesn't fit.
func mulOverflows(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if a == math.MinInt64 || b == math.MinInt64 {
		// MinInt64 times 1 is itself; times anything else (including
		// -1, which gives MaxInt64+1) it overflows.
		if a == 1 {
			return b, true
		}
		if b == 1 {
			return a, true
		}
		return 0, false
	}
	neg := (a < 0) != (b < 0)
	ua, ub := uint64(a), uint64(b)
	if a < 0 {
		ua = uint64(-a)
	}
	if b < 0 {
		ub = uint64(-b)
	}
	hi, lo := bits.Mul64(ua, ub)
	if hi != 0 {
		return 0, false
	}
	if neg {
		if lo > uint64(math.MaxInt64)+1 {
			return 0, false
		}
		return -int64(lo), true
	}
	if lo > uint64(math.MaxInt64) {
		return 0, false
	}
	return int64(lo), true
}

// intPow computes base**exp by squaring, checking for overflow at every
// multiply instead of routing through float64 and truncating back (which
// silently wraps for any result wider than a float64 mantissa can carry
// exactly).
func intPow(base, exp int64) (int64, bool) {
	result := int64(1)
	b := base
	e := exp
	for e > 0 {
		if e&1 == 1 {
			var ok bool
			result, ok = mulOverflows(result, b)
			if !ok {
				return 0, false
			}
		}
		e >>= 1
		if e > 0 {
			var ok bool
			b, ok = mulOverflows(b, b)
			if !ok {
				return 0, false
			}
		}
	}
	return result, true
}

// shiftLeftOverflows computes li<<ri; ok is false when any set bit was
// shifted out past bit 63 — detected by shifting the result back right
// and checking it reproduces li exactly.
func shiftLeftOverflows(li, ri int64) (int64, bool) {
	if ri < 0 || ri >= 64 {
		return 0, false
	}
	shifted := li << uint(ri)
	if shifted>>uint(ri) != li {
		return 0, false
	}
	return shifted, true
}

func foldBinOp(e *ast.BinOp, consts map[string]Value) (Value, bool) {
	left, ok := Fold(e.Left, consts)
	if !ok {
		return nil, false
	}
	right, ok := Fold(e.Right, consts)
	if !ok {
		return nil, false
	}

	if ls, ok := left.(StringValue); ok {
		if e.Op == "+" {
			if rs, ok := right.(StringValue); ok {
				return StringValue(string(ls) + string(rs)), true
			}
		}
		if e.Op == "*" {
			if ri, ok := right.(IntValue); ok {
				out := ""
				for i := int64(0); i < int64(ri); i++ {
					out += string(ls)
				}
				return StringValue(out), true
			}
		}
		return nil, false
	}

	if li, ri, ok := bothInt(left, right); ok {
		switch e.Op {
		case "+":
			sum, ok := addOverflows(li, ri)
			if !ok {
				return nil, false
			}
			return IntValue(sum), true
		case "-":
			diff, ok := subOverflows(li, ri)
			if !ok {
				return nil, false
			}
			return IntValue(diff), true
		case "*":
			prod, ok := mulOverflows(li, ri)
			if !ok {
				return nil, false
			}
			return IntValue(prod), true
		case "//":
			if ri == 0 {
				return nil, false
			}
			return IntValue(int64(math.Floor(float64(li) / float64(ri)))), true
		case "%":
			if ri == 0 {
				return nil, false
			}
			m := li % ri
			if (m != 0) && ((m < 0) != (ri < 0)) {
				m += ri
			}
			return IntValue(m), true
		case "/":
			if ri == 0 {
				return nil, false
			}
			return FloatValue(float64(li) / float64(ri)), true
		case "**":
			if ri < 0 {
				return FloatValue(math.Pow(float64(li), float64(ri))), true
			}
			pow, ok := intPow(li, ri)
			if !ok {
				return nil, false
			}
			return IntValue(pow), true
		case "&":
			return IntValue(li & ri), true
		case "|":
			return IntValue(li | ri), true
		case "^":
			return IntValue(li ^ ri), true
		case "<<":
			shifted, ok := shiftLeftOverflows(li, ri)
			if !ok {
				return nil, false
			}
			return IntValue(shifted), true
		case ">>":
			return IntValue(li >> uint(ri)), true
		}
		return nil, false
	}

	lf, ok1 := asFloat(left)
	rf, ok2 := asFloat(right)
	if !ok1 || !ok2 {
		return nil, false
	}
	switch e.Op {
	case "+":
		return FloatValue(lf + rf), true
	case "-":
		return FloatValue(lf - rf), true
	case "*":
		return FloatValue(lf * rf), true
	case "/":
		if rf == 0 {
			return nil, false
		}
		return FloatValue(lf / rf), true
	case "//":
		if rf == 0 {
			return nil, false
		}
		return FloatValue(math.Floor(lf / rf)), true
	case "%":
		if rf == 0 {
			return nil, false
		}
		return FloatValue(math.Mod(lf, rf)), true
	case "**":
		return FloatValue(math.Pow(lf, rf)), true
	}
	return nil, false
}

func foldBoolOp(e *ast.BoolOp, consts map[string]Value) (Value, bool) {
	var last Value
	for _, v := range e.Values {
		val, ok := Fold(v, consts)
		if !ok {
			return nil, false
		}
		last = val
		if e.Op == "and" && !truthy(val) {
			return val, true
		}
		if e.Op == "or" && truthy(val) {
			return val, true
		}
	}
	return last, true
}

func foldCompare(e *ast.Compare, consts map[string]Value) (Value, bool) {
	left, ok := Fold(e.Left, consts)
	if !ok {
		return nil, false
	}
	for i, op := range e.Ops {
		right, ok := Fold(e.Comparators[i], consts)
		if !ok {
			return nil, false
		}
		result, ok := compareOne(left, op, right)
		if !ok {
			return nil, false
		}
		if !result {
			return BoolValue(false), true
		}
		left = right
	}
	return BoolValue(true), true
}

func compareOne(left Value, op string, right Value) (bool, bool) {
	if lf, ok1 := asFloat(left); ok1 {
		if rf, ok2 := asFloat(right); ok2 {
			switch op {
			case "==":
				return lf == rf, true
			case "!=":
				return lf != rf, true
			case "<":
				return lf < rf, true
			case "<=":
				return lf <= rf, true
			case ">":
				return lf > rf, true
			case ">=":
				return lf >= rf, true
			}
			return false, false
		}
	}
	ls, ok1 := left.(StringValue)
	rs, ok2 := right.(StringValue)
	if ok1 && ok2 {
		switch op {
		case "==":
			return ls == rs, true
		case "!=":
			return ls != rs, true
		case "<":
			return ls < rs, true
		case "<=":
			return ls <= rs, true
		case ">":
			return ls > rs, true
		case ">=":
			return ls >= rs, true
		}
	}
	return false, false
}

func foldCall(e *ast.Call, consts map[string]Value) (Value, bool) {
	name, ok := e.Func.(*ast.Name)
	if !ok || !pureBuiltins[name.Id] || len(e.Keywords) > 0 || e.StarArgs != nil {
		return nil, false
	}
	args, ok := foldAll(e.Args, consts)
	if !ok {
		return nil, false
	}
	switch name.Id {
	case "abs":
		if len(args) != 1 {
			return nil, false
		}
		switch v := args[0].(type) {
		case IntValue:
			if v < 0 {
				return -v, true
			}
			return v, true
		case FloatValue:
			return FloatValue(math.Abs(float64(v))), true
		}
	case "len":
		if len(args) != 1 {
			return nil, false
		}
		switch v := args[0].(type) {
		case StringValue:
			return IntValue(len([]rune(string(v)))), true
		case ListValue:
			return IntValue(len(v)), true
		case TupleValue:
			return IntValue(len(v)), true
		}
	case "int":
		if len(args) != 1 {
			return nil, false
		}
		switch v := args[0].(type) {
		case IntValue:
			return v, true
		case FloatValue:
			return IntValue(int64(v)), true
		case BoolValue:
			if v {
				return IntValue(1), true
			}
			return IntValue(0), true
		case StringValue:
			n, err := strconv.ParseInt(string(v), 10, 64)
			if err != nil {
				return nil, false
			}
			return IntValue(n), true
		}
	case "float":
		if len(args) != 1 {
			return nil, false
		}
		if f, ok := asFloat(args[0]); ok {
			return FloatValue(f), true
		}
	case "str":
		if len(args) != 1 {
			return nil, false
		}
		return StringValue(args[0].String()), true
	case "bool":
		if len(args) != 1 {
			return nil, false
		}
		return BoolValue(truthy(args[0])), true
	case "min", "max":
		if len(args) == 0 {
			return nil, false
		}
		best := args[0]
		for _, v := range args[1:] {
			bf, ok1 := asFloat(best)
			vf, ok2 := asFloat(v)
			if !ok1 || !ok2 {
				return nil, false
			}
			if (name.Id == "min" && vf < bf) || (name.Id == "max" && vf > bf) {
				best = v
			}
		}
		return best, true
	case "round":
		if len(args) != 1 {
			return nil, false
		}
		if f, ok := asFloat(args[0]); ok {
			return IntValue(int64(math.Round(f))), true
		}
	case "sum":
		if len(args) != 1 {
			return nil, false
		}
		list, ok := args[0].(ListValue)
		if !ok {
			return nil, false
		}
		total := 0.0
		allInt := true
		for _, v := range list {
			f, ok := asFloat(v)
			if !ok {
				return nil, false
			}
			if _, ok := v.(FloatValue); ok {
				allInt = false
			}
			total += f
		}
		if allInt {
			return IntValue(int64(total)), true
		}
		return FloatValue(total), true
	}
	return nil, false
}
