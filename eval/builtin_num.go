package eval

import (
	"math"
	"strings"
)

func toFloat(v Value) (float64, bool) {
	switch v := v.(type) {
	case int64:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}

func arith(name string, a, b Value, intOp func(x, y int64) int64, floatOp func(x, y float64) float64) (Value, error) {
	ai, aInt := a.(int64)
	bi, bInt := b.(int64)
	if aInt && bInt {
		return intOp(ai, bi), nil
	}
	af, aOk := toFloat(a)
	bf, bOk := toFloat(b)
	if !aOk || !bOk {
		return nil, unsupported(name, a, b)
	}
	return floatOp(af, bf), nil
}

func unsupported(op string, a, b Value) error {
	return NewException("unsupported operand type(s) for %s: '%s' and '%s'", op, TypeName(a), TypeName(b))
}

func add(_ *State, args []Value) (Value, error) {
	if len(args) == 0 {
		return int64(0), nil
	}
	if _, ok := args[0].(string); ok {
		var sb strings.Builder
		for _, a := range args {
			s, ok := a.(string)
			if !ok {
				return nil, unsupported("+", args[0], a)
			}
			sb.WriteString(s)
		}
		return sb.String(), nil
	}
	acc := args[0]
	if _, ok := toFloat(acc); !ok {
		return nil, NewException("bad operand type for +: '%s'", TypeName(acc))
	}
	for _, a := range args[1:] {
		v, err := arith("+", acc, a,
			func(x, y int64) int64 { return x + y },
			func(x, y float64) float64 { return x + y })
		if err != nil {
			return nil, err
		}
		acc = v
	}
	return acc, nil
}

func sub(_ *State, args []Value) (Value, error) {
	if err := arity("-", args, 1, -1); err != nil {
		return nil, err
	}
	if len(args) == 1 {
		return arith("-", int64(0), args[0],
			func(x, y int64) int64 { return x - y },
			func(x, y float64) float64 { return x - y })
	}
	acc := args[0]
	for _, a := range args[1:] {
		v, err := arith("-", acc, a,
			func(x, y int64) int64 { return x - y },
			func(x, y float64) float64 { return x - y })
		if err != nil {
			return nil, err
		}
		acc = v
	}
	return acc, nil
}

func mul(_ *State, args []Value) (Value, error) {
	var acc Value = int64(1)
	for _, a := range args {
		v, err := arith("*", acc, a,
			func(x, y int64) int64 { return x * y },
			func(x, y float64) float64 { return x * y })
		if err != nil {
			return nil, err
		}
		acc = v
	}
	return acc, nil
}

// 除算は常に浮動小数点数を返す
func div(_ *State, args []Value) (Value, error) {
	if err := arity("/", args, 1, -1); err != nil {
		return nil, err
	}
	if len(args) == 1 {
		args = []Value{int64(1), args[0]}
	}
	acc, ok := toFloat(args[0])
	if !ok {
		return nil, unsupported("/", args[0], args[1])
	}
	for _, a := range args[1:] {
		f, ok := toFloat(a)
		if !ok {
			return nil, unsupported("/", args[0], a)
		}
		if f == 0 {
			return nil, NewException("division by zero")
		}
		acc /= f
	}
	return acc, nil
}

// 剰余の符号は除数に合わせる
func mod(_ *State, args []Value) (Value, error) {
	if err := arity("%", args, 2, 2); err != nil {
		return nil, err
	}
	if f, ok := toFloat(args[1]); ok && f == 0 {
		return nil, NewException("division by zero")
	}
	return arith("%", args[0], args[1],
		func(x, y int64) int64 {
			m := x % y
			if m != 0 && (m < 0) != (y < 0) {
				m += y
			}
			return m
		},
		func(x, y float64) float64 {
			m := math.Mod(x, y)
			if m != 0 && (m < 0) != (y < 0) {
				m += y
			}
			return m
		})
}

func inc(s *State, args []Value) (Value, error) {
	if err := arity("inc", args, 1, 1); err != nil {
		return nil, err
	}
	return add(s, []Value{args[0], int64(1)})
}

func dec(s *State, args []Value) (Value, error) {
	if err := arity("dec", args, 1, 1); err != nil {
		return nil, err
	}
	return sub(s, []Value{args[0], int64(1)})
}

// compare は数値同士または文字列同士を比較する
func compare(op string, a, b Value) (int, error) {
	if af, ok := toFloat(a); ok {
		if bf, ok := toFloat(b); ok {
			switch {
			case af < bf:
				return -1, nil
			case af > bf:
				return 1, nil
			default:
				return 0, nil
			}
		}
	}
	if as, ok := a.(string); ok {
		if bs, ok := b.(string); ok {
			return strings.Compare(as, bs), nil
		}
	}
	return 0, NewException("'%s' not supported between instances of '%s' and '%s'", op, TypeName(a), TypeName(b))
}

func comparison(op string, ok func(c int) bool) func(*State, []Value) (Value, error) {
	return func(_ *State, args []Value) (Value, error) {
		if err := arity(op, args, 1, -1); err != nil {
			return nil, err
		}
		for i := 0; i+1 < len(args); i++ {
			c, err := compare(op, args[i], args[i+1])
			if err != nil {
				return nil, err
			}
			if !ok(c) {
				return false, nil
			}
		}
		return true, nil
	}
}

func equal(_ *State, args []Value) (Value, error) {
	if err := arity("=", args, 1, -1); err != nil {
		return nil, err
	}
	for i := 0; i+1 < len(args); i++ {
		if !Equal(args[i], args[i+1]) {
			return false, nil
		}
	}
	return true, nil
}

func notEqual(_ *State, args []Value) (Value, error) {
	if err := arity("!=", args, 2, 2); err != nil {
		return nil, err
	}
	return !Equal(args[0], args[1]), nil
}

func not(_ *State, args []Value) (Value, error) {
	if err := arity("not", args, 1, 1); err != nil {
		return nil, err
	}
	return !Truthy(args[0]), nil
}
