package eval

import (
	"maps"
	"slices"
	"strings"
)

// Env は名前と値の対応を保持するスコープ。親をたどって名前を解決する
type Env struct {
	vars   map[string]Value
	parent *Env
}

func NewEnv(parent *Env) *Env {
	return &Env{
		vars:   map[string]Value{},
		parent: parent,
	}
}

func (e *Env) Get(name string) (Value, bool) {
	name = Mangle(name)
	for env := e; env != nil; env = env.parent {
		if v, ok := env.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Define は現在のスコープに名前を束縛する
func (e *Env) Define(name string, v Value) {
	e.vars[Mangle(name)] = v
}

// Names は現在のスコープから見えるすべての名前をソートして返す
func (e *Env) Names() []string {
	seen := map[string]bool{}
	for env := e; env != nil; env = env.parent {
		for name := range env.vars {
			seen[name] = true
		}
	}
	return slices.Sorted(maps.Keys(seen))
}

// Parent は親のスコープを返す
func (e *Env) Parent() *Env {
	return e.parent
}

// Mangle は名前の中の_を-に揃える。先頭の_はそのまま残す。
// foo_barとfoo-barは同じ名前として扱われる
func Mangle(name string) string {
	body := strings.TrimLeft(name, "_")
	if body == "" || !strings.Contains(body, "_") {
		return name
	}
	return name[:len(name)-len(body)] + strings.ReplaceAll(body, "_", "-")
}
