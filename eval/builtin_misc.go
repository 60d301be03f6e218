package eval

import (
	"fmt"
	"strings"
)

// arity は引数の数を検査する。maxが負の場合は上限なし
func arity(name string, args []Value, min, max int) error {
	switch {
	case len(args) < min:
		return NewException("%s() takes at least %d argument(s) (%d given)", name, min, len(args))
	case max >= 0 && len(args) > max:
		return NewException("%s() takes at most %d argument(s) (%d given)", name, max, len(args))
	}
	return nil
}

func builtins() []*Builtin {
	return []*Builtin{
		{Name: "+", Doc: "sum of numbers or concatenation of strings", Impl: add},
		{Name: "-", Doc: "subtraction or negation", Impl: sub},
		{Name: "*", Doc: "product of numbers", Impl: mul},
		{Name: "/", Doc: "true division", Impl: div},
		{Name: "%", Doc: "modulo", Impl: mod},
		{Name: "inc", Doc: "add one", Impl: inc},
		{Name: "dec", Doc: "subtract one", Impl: dec},
		{Name: "=", Doc: "structural equality", Impl: equal},
		{Name: "!=", Doc: "structural inequality", Impl: notEqual},
		{Name: "<", Impl: comparison("<", func(c int) bool { return c < 0 })},
		{Name: ">", Impl: comparison(">", func(c int) bool { return c > 0 })},
		{Name: "<=", Impl: comparison("<=", func(c int) bool { return c <= 0 })},
		{Name: ">=", Impl: comparison(">=", func(c int) bool { return c >= 0 })},
		{Name: "not", Doc: "logical negation", Impl: not},
		{Name: "list", Doc: "make a list", Impl: list},
		{Name: "vector", Doc: "make a vector", Impl: vector},
		{Name: "hash-map", Doc: "make a dict from key value pairs", Impl: hashMap},
		{Name: "first", Doc: "first element or nil", Impl: first},
		{Name: "rest", Doc: "all but the first element", Impl: rest},
		{Name: "cons", Doc: "prepend to a sequence", Impl: cons},
		{Name: "conj", Doc: "add to a collection", Impl: conj},
		{Name: "count", Doc: "number of elements", Impl: count},
		{Name: "get", Doc: "lookup by key or index", Impl: get},
		{Name: "assoc", Doc: "associate keys with values", Impl: assoc},
		{Name: "keys", Doc: "keys of a dict", Impl: keys},
		{Name: "vals", Doc: "values of a dict", Impl: vals},
		{Name: "nth", Doc: "element at index", Impl: nth},
		{Name: "concat", Doc: "concatenate sequences", Impl: concat},
		{Name: "range", Doc: "list of integers", Impl: rangeFn},
		{Name: "empty?", Doc: "true for empty sequences", Impl: isEmpty},
		{Name: "nil?", Doc: "true for nil", Impl: isNil},
		{Name: "list?", Doc: "true for lists", Impl: isList},
		{Name: "map", Doc: "apply a function to each element", Impl: mapFn},
		{Name: "filter", Doc: "elements for which the predicate holds", Impl: filter},
		{Name: "reduce", Doc: "fold a sequence", Impl: reduce},
		{Name: "apply", Doc: "call with arguments from a sequence", Impl: apply},
		{Name: "str", Doc: "concatenate as strings", Impl: str},
		{Name: "upper", Doc: "upper case", Impl: upper},
		{Name: "lower", Doc: "lower case", Impl: lower},
		{Name: "split", Doc: "split a string", Impl: split},
		{Name: "join", Doc: "join strings with a separator", Impl: join},
		{Name: "print", Doc: "print values separated by spaces", Impl: printFn},
		{Name: "println", Doc: "print values separated by spaces", Impl: printFn},
		{Name: "type", Doc: "name of the type of a value", Impl: typeFn},
		{Name: "gensym", Doc: "fresh symbol", Impl: gensym},
		{Name: "throw", Doc: "raise a value as an exception", Impl: throw},
	}
}

// 複数の列が渡された場合は最も短い列に合わせる
func mapFn(s *State, args []Value) (Value, error) {
	if err := arity("map", args, 2, -1); err != nil {
		return nil, err
	}
	colls := make([][]Value, 0, len(args)-1)
	n := -1
	for _, a := range args[1:] {
		items, err := seqOf("map", a)
		if err != nil {
			return nil, err
		}
		colls = append(colls, items)
		if n < 0 || len(items) < n {
			n = len(items)
		}
	}
	out := make([]Value, 0, n)
	for i := 0; i < n; i++ {
		callArgs := make([]Value, len(colls))
		for j, c := range colls {
			callArgs[j] = c[i]
		}
		v, err := Call(s, args[0], callArgs)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return NewList(out...), nil
}

func filter(s *State, args []Value) (Value, error) {
	if err := arity("filter", args, 2, 2); err != nil {
		return nil, err
	}
	items, err := seqOf("filter", args[1])
	if err != nil {
		return nil, err
	}
	var out []Value
	for _, item := range items {
		v, err := Call(s, args[0], []Value{item})
		if err != nil {
			return nil, err
		}
		if Truthy(v) {
			out = append(out, item)
		}
	}
	return NewList(out...), nil
}

func reduce(s *State, args []Value) (Value, error) {
	if err := arity("reduce", args, 2, 3); err != nil {
		return nil, err
	}
	items, err := seqOf("reduce", args[len(args)-1])
	if err != nil {
		return nil, err
	}
	var acc Value
	if len(args) == 3 {
		acc = args[1]
	} else {
		if len(items) == 0 {
			return nil, NewException("reduce() of empty sequence with no initial value")
		}
		acc, items = items[0], items[1:]
	}
	for _, item := range items {
		acc, err = Call(s, args[0], []Value{acc, item})
		if err != nil {
			return nil, err
		}
	}
	return acc, nil
}

func apply(s *State, args []Value) (Value, error) {
	if err := arity("apply", args, 2, -1); err != nil {
		return nil, err
	}
	last, err := seqOf("apply", args[len(args)-1])
	if err != nil {
		return nil, err
	}
	callArgs := append(append([]Value(nil), args[1:len(args)-1]...), last...)
	return Call(s, args[0], callArgs)
}

func str(_ *State, args []Value) (Value, error) {
	var sb strings.Builder
	for _, a := range args {
		if a == nil {
			continue
		}
		sb.WriteString(Str(a))
	}
	return sb.String(), nil
}

func stringArg(name string, v Value) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", NewException("%s: expected str, got '%s'", name, TypeName(v))
	}
	return s, nil
}

func upper(_ *State, args []Value) (Value, error) {
	if err := arity("upper", args, 1, 1); err != nil {
		return nil, err
	}
	s, err := stringArg("upper", args[0])
	if err != nil {
		return nil, err
	}
	return strings.ToUpper(s), nil
}

func lower(_ *State, args []Value) (Value, error) {
	if err := arity("lower", args, 1, 1); err != nil {
		return nil, err
	}
	s, err := stringArg("lower", args[0])
	if err != nil {
		return nil, err
	}
	return strings.ToLower(s), nil
}

// 区切り文字を省略した場合は空白で分割する
func split(_ *State, args []Value) (Value, error) {
	if err := arity("split", args, 1, 2); err != nil {
		return nil, err
	}
	s, err := stringArg("split", args[0])
	if err != nil {
		return nil, err
	}
	var parts []string
	if len(args) == 2 {
		sep, err := stringArg("split", args[1])
		if err != nil {
			return nil, err
		}
		if sep == "" {
			return nil, NewException("split: empty separator")
		}
		parts = strings.Split(s, sep)
	} else {
		parts = strings.Fields(s)
	}
	out := make([]Value, len(parts))
	for i, p := range parts {
		out[i] = p
	}
	return NewList(out...), nil
}

func join(_ *State, args []Value) (Value, error) {
	if err := arity("join", args, 2, 2); err != nil {
		return nil, err
	}
	sep, err := stringArg("join", args[0])
	if err != nil {
		return nil, err
	}
	items, err := seqOf("join", args[1])
	if err != nil {
		return nil, err
	}
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = Str(item)
	}
	return strings.Join(parts, sep), nil
}

func printFn(s *State, args []Value) (Value, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = Str(a)
	}
	if _, err := fmt.Fprintln(s.Interp().Out, strings.Join(parts, " ")); err != nil {
		return nil, NewException("print: %v", err)
	}
	return nil, nil
}

func typeFn(_ *State, args []Value) (Value, error) {
	if err := arity("type", args, 1, 1); err != nil {
		return nil, err
	}
	return TypeName(args[0]), nil
}

func gensym(s *State, args []Value) (Value, error) {
	if err := arity("gensym", args, 0, 1); err != nil {
		return nil, err
	}
	prefix := ""
	if len(args) == 1 {
		prefix = Str(args[0])
	}
	return s.Interp().Gensym(prefix), nil
}

func throw(_ *State, args []Value) (Value, error) {
	if err := arity("throw", args, 1, 1); err != nil {
		return nil, err
	}
	return nil, &Exception{Reason: args[0]}
}
