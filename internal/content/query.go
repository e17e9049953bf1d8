package content

import "strings"

// Matcher selects nodes during a tree search.
type Matcher func(Node) bool

// Tag matches elements with the given (lower-case) name.
func Tag(name string) Matcher {
	return func(n Node) bool {
		return n.Kind() == KindElement && n.Tag() == name
	}
}

// TestID matches elements whose data-testid attribute equals id.
func TestID(id string) Matcher {
	return AttrEquals("data-testid", id)
}

func AttrEquals(key, value string) Matcher {
	return func(n Node) bool {
		v, ok := n.Attr(key)
		return ok && v == value
	}
}

func AttrPrefix(key, prefix string) Matcher {
	return func(n Node) bool {
		v, ok := n.Attr(key)
		return ok && strings.HasPrefix(v, prefix)
	}
}

func AttrContains(key, substr string) Matcher {
	return func(n Node) bool {
		v, ok := n.Attr(key)
		return ok && strings.Contains(v, substr)
	}
}

// All matches when every matcher matches.
func All(ms ...Matcher) Matcher {
	return func(n Node) bool {
		for _, m := range ms {
			if !m(n) {
				return false
			}
		}
		return true
	}
}

// Any matches when at least one matcher matches.
func Any(ms ...Matcher) Matcher {
	return func(n Node) bool {
		for _, m := range ms {
			if m(n) {
				return true
			}
		}
		return false
	}
}

// Find returns the first element matching m in document order, starting
// with root itself. It returns nil when nothing matches.
func Find(root Node, m Matcher) Node {
	if root == nil {
		return nil
	}
	if root.Kind() == KindElement && m(root) {
		return root
	}
	for _, c := range root.ChildNodes() {
		if found := Find(c, m); found != nil {
			return found
		}
	}
	return nil
}

// FindAll returns every element matching m in document order, root included.
func FindAll(root Node, m Matcher) []Node {
	var out []Node
	var walk func(Node)
	walk = func(n Node) {
		if n.Kind() == KindElement && m(n) {
			out = append(out, n)
		}
		for _, c := range n.ChildNodes() {
			walk(c)
		}
	}
	if root != nil {
		walk(root)
	}
	return out
}

// FindIn returns the first match of inner inside the first match of outer.
func FindIn(root Node, outer, inner Matcher) Node {
	return Find(Find(root, outer), inner)
}
