package eval

// Map は挿入順を保持する連想配列。Assocは新しいMapを返す
type Map struct {
	keys  []Value
	vals  []Value
	index map[string]int
}

func NewMap() *Map {
	return &Map{index: map[string]int{}}
}

// MapOf はキーと値を交互に並べた列からMapを作る
func MapOf(kvs ...Value) *Map {
	m := NewMap()
	for i := 0; i+1 < len(kvs); i += 2 {
		m.set(kvs[i], kvs[i+1])
	}
	return m
}

func (m *Map) Len() int {
	return len(m.keys)
}

func (m *Map) Get(k Value) (Value, bool) {
	i, ok := m.index[hashKey(k)]
	if !ok {
		return nil, false
	}
	return m.vals[i], true
}

func (m *Map) Keys() []Value {
	return append([]Value(nil), m.keys...)
}

func (m *Map) Vals() []Value {
	return append([]Value(nil), m.vals...)
}

// Assoc はキーに値を対応させたコピーを返す
func (m *Map) Assoc(k, v Value) *Map {
	c := &Map{
		keys:  append([]Value(nil), m.keys...),
		vals:  append([]Value(nil), m.vals...),
		index: make(map[string]int, len(m.index)+1),
	}
	for key, i := range m.index {
		c.index[key] = i
	}
	c.set(k, v)
	return c
}

func (m *Map) set(k, v Value) {
	h := hashKey(k)
	if i, ok := m.index[h]; ok {
		m.vals[i] = v
		return
	}
	m.index[h] = len(m.keys)
	m.keys = append(m.keys, k)
	m.vals = append(m.vals, v)
}

// 整数と浮動小数点数の等しい値は同じキーになる
func hashKey(k Value) string {
	if f, ok := toFloat(k); ok {
		return "n:" + Repr(f)
	}
	return TypeName(k) + ":" + Repr(k)
}
