package eval

import "unicode/utf8"

func seqOf(name string, v Value) ([]Value, error) {
	items, ok := Items(v)
	if !ok {
		return nil, NewException("%s: '%s' object is not iterable", name, TypeName(v))
	}
	return items, nil
}

func toIndex(name string, v Value) (int, error) {
	i, ok := v.(int64)
	if !ok {
		return 0, NewException("%s: indices must be integers, not '%s'", name, TypeName(v))
	}
	return int(i), nil
}

func list(_ *State, args []Value) (Value, error) {
	return NewList(append([]Value(nil), args...)...), nil
}

func vector(_ *State, args []Value) (Value, error) {
	return NewVector(append([]Value(nil), args...)...), nil
}

func hashMap(_ *State, args []Value) (Value, error) {
	if len(args)%2 != 0 {
		return nil, NewException("hash-map: odd number of arguments")
	}
	return MapOf(args...), nil
}

func first(_ *State, args []Value) (Value, error) {
	if err := arity("first", args, 1, 1); err != nil {
		return nil, err
	}
	items, err := seqOf("first", args[0])
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return items[0], nil
}

func rest(_ *State, args []Value) (Value, error) {
	if err := arity("rest", args, 1, 1); err != nil {
		return nil, err
	}
	items, err := seqOf("rest", args[0])
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return NewList(), nil
	}
	return NewList(append([]Value(nil), items[1:]...)...), nil
}

func cons(_ *State, args []Value) (Value, error) {
	if err := arity("cons", args, 2, 2); err != nil {
		return nil, err
	}
	items, err := seqOf("cons", args[1])
	if err != nil {
		return nil, err
	}
	return NewList(append([]Value{args[0]}, items...)...), nil
}

// conj はベクタには末尾、リストには先頭、辞書には[k v]の組を追加する
func conj(_ *State, args []Value) (Value, error) {
	if err := arity("conj", args, 1, -1); err != nil {
		return nil, err
	}
	switch coll := args[0].(type) {
	case nil:
		return NewVector(append([]Value(nil), args[1:]...)...), nil
	case *Vector:
		return NewVector(append(append([]Value(nil), coll.Items...), args[1:]...)...), nil
	case *List:
		items := append([]Value(nil), coll.Items...)
		for _, a := range args[1:] {
			items = append([]Value{a}, items...)
		}
		return NewList(items...), nil
	case *Map:
		m := coll
		for _, a := range args[1:] {
			pair, ok := a.(*Vector)
			if !ok || len(pair.Items) != 2 {
				return nil, NewException("conj: dict entries must be [key value] vectors")
			}
			m = m.Assoc(pair.Items[0], pair.Items[1])
		}
		return m, nil
	default:
		return nil, NewException("conj: unsupported collection '%s'", TypeName(coll))
	}
}

func count(_ *State, args []Value) (Value, error) {
	if err := arity("count", args, 1, 1); err != nil {
		return nil, err
	}
	switch v := args[0].(type) {
	case string:
		return int64(utf8.RuneCountInString(v)), nil
	case *Map:
		return int64(v.Len()), nil
	}
	items, err := seqOf("count", args[0])
	if err != nil {
		return nil, err
	}
	return int64(len(items)), nil
}

// get は見つからない場合にデフォルト値(省略時はnil)を返す
func get(_ *State, args []Value) (Value, error) {
	if err := arity("get", args, 2, 3); err != nil {
		return nil, err
	}
	var dflt Value
	if len(args) == 3 {
		dflt = args[2]
	}
	if m, ok := args[0].(*Map); ok {
		if v, ok := m.Get(args[1]); ok {
			return v, nil
		}
		return dflt, nil
	}
	if args[0] == nil {
		return dflt, nil
	}
	items, err := seqOf("get", args[0])
	if err != nil {
		return nil, err
	}
	i, ok := args[1].(int64)
	if !ok || i < 0 || int(i) >= len(items) {
		return dflt, nil
	}
	return items[i], nil
}

func assoc(_ *State, args []Value) (Value, error) {
	if err := arity("assoc", args, 3, -1); err != nil {
		return nil, err
	}
	if len(args)%2 != 1 {
		return nil, NewException("assoc: expects even number of key/value arguments")
	}
	switch coll := args[0].(type) {
	case nil, *Map:
		m, ok := coll.(*Map)
		if !ok {
			m = NewMap()
		}
		for i := 1; i < len(args); i += 2 {
			m = m.Assoc(args[i], args[i+1])
		}
		return m, nil
	case *Vector:
		items := append([]Value(nil), coll.Items...)
		for i := 1; i < len(args); i += 2 {
			idx, err := toIndex("assoc", args[i])
			if err != nil {
				return nil, err
			}
			switch {
			case idx == len(items):
				items = append(items, args[i+1])
			case idx < 0 || idx > len(items):
				return nil, NewException("assoc: index out of range")
			default:
				items[idx] = args[i+1]
			}
		}
		return NewVector(items...), nil
	default:
		return nil, NewException("assoc: unsupported collection '%s'", TypeName(coll))
	}
}

func keys(_ *State, args []Value) (Value, error) {
	if err := arity("keys", args, 1, 1); err != nil {
		return nil, err
	}
	m, ok := args[0].(*Map)
	if !ok {
		return nil, NewException("keys: expected dict, got '%s'", TypeName(args[0]))
	}
	return NewList(m.Keys()...), nil
}

func vals(_ *State, args []Value) (Value, error) {
	if err := arity("vals", args, 1, 1); err != nil {
		return nil, err
	}
	m, ok := args[0].(*Map)
	if !ok {
		return nil, NewException("vals: expected dict, got '%s'", TypeName(args[0]))
	}
	return NewList(m.Vals()...), nil
}

func nth(_ *State, args []Value) (Value, error) {
	if err := arity("nth", args, 2, 2); err != nil {
		return nil, err
	}
	items, err := seqOf("nth", args[0])
	if err != nil {
		return nil, err
	}
	i, err := toIndex("nth", args[1])
	if err != nil {
		return nil, err
	}
	if i < 0 || i >= len(items) {
		return nil, NewException("index out of range")
	}
	return items[i], nil
}

func concat(_ *State, args []Value) (Value, error) {
	var out []Value
	for _, a := range args {
		items, err := seqOf("concat", a)
		if err != nil {
			return nil, err
		}
		out = append(out, items...)
	}
	return NewList(out...), nil
}

func rangeFn(_ *State, args []Value) (Value, error) {
	if err := arity("range", args, 1, 3); err != nil {
		return nil, err
	}
	bounds := make([]int64, len(args))
	for i, a := range args {
		n, ok := a.(int64)
		if !ok {
			return nil, NewException("range: '%s' object cannot be interpreted as an integer", TypeName(a))
		}
		bounds[i] = n
	}
	start, stop, step := int64(0), bounds[0], int64(1)
	if len(bounds) >= 2 {
		start, stop = bounds[0], bounds[1]
	}
	if len(bounds) == 3 {
		step = bounds[2]
	}
	if step == 0 {
		return nil, NewException("range: step must not be zero")
	}
	var out []Value
	for i := start; (step > 0 && i < stop) || (step < 0 && i > stop); i += step {
		out = append(out, i)
	}
	return NewList(out...), nil
}

func isEmpty(_ *State, args []Value) (Value, error) {
	if err := arity("empty?", args, 1, 1); err != nil {
		return nil, err
	}
	items, err := seqOf("empty?", args[0])
	if err != nil {
		return nil, err
	}
	return len(items) == 0, nil
}

func isNil(_ *State, args []Value) (Value, error) {
	if err := arity("nil?", args, 1, 1); err != nil {
		return nil, err
	}
	return args[0] == nil, nil
}

func isList(_ *State, args []Value) (Value, error) {
	if err := arity("list?", args, 1, 1); err != nil {
		return nil, err
	}
	_, ok := args[0].(*List)
	return ok, nil
}
