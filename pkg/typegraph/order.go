package typegraph

import "fmt"

// InvariantViolation is the panic value raised when the builder detects a
// broken engine invariant, such as a reference cycle or a dangling reference.
// It signals a defect, never a property of the input.
type InvariantViolation struct {
	Detail string
}

func (v InvariantViolation) Error() string {
	return "typegraph: invariant violation: " + v.Detail
}

// order sorts declarations so that each one follows everything it
// references. Ties keep discovery order.
func order(decls []*Declaration) []Declaration {
	const (
		unvisited = iota
		visiting
		done
	)

	byName := make(map[string]*Declaration, len(decls))
	for _, d := range decls {
		if _, dup := byName[d.Name]; dup {
			panic(InvariantViolation{Detail: fmt.Sprintf("duplicate declaration %q", d.Name)})
		}
		byName[d.Name] = d
	}

	state := make(map[string]int, len(decls))
	out := make([]Declaration, 0, len(decls))

	var visit func(d *Declaration, path []string)
	visit = func(d *Declaration, path []string) {
		switch state[d.Name] {
		case done:
			return
		case visiting:
			panic(InvariantViolation{Detail: fmt.Sprintf("reference cycle through %v", append(path, d.Name))})
		}
		state[d.Name] = visiting
		for _, ref := range d.Refs() {
			dep, ok := byName[ref]
			if !ok {
				panic(InvariantViolation{Detail: fmt.Sprintf("%q references undeclared %q", d.Name, ref)})
			}
			visit(dep, append(path, d.Name))
		}
		state[d.Name] = done
		out = append(out, *d)
	}

	for _, d := range decls {
		visit(d, nil)
	}
	return out
}
