package index

// nilNode marks an empty child slot in the node arena.
const nilNode = -1

type orderedNode[T any] struct {
	key   int64
	value T
	left  int
	right int
}

// OrderedIndex is an unbalanced binary search tree keyed by int64.
//
// Nodes live in a slice and reference their children by position, so Clear
// only has to truncate the arena. No rebalancing is performed: keys inserted
// in ascending order produce a right-leaning chain and linear lookups.
type OrderedIndex[T any] struct {
	nodes []orderedNode[T]
	root  int
}

// NewOrderedIndex creates an empty index.
func NewOrderedIndex[T any]() *OrderedIndex[T] {
	return &OrderedIndex[T]{root: nilNode}
}

// Insert adds key with value. If key is already present the existing value
// is kept and the call does nothing.
func (t *OrderedIndex[T]) Insert(key int64, value T) {
	if t.root == nilNode {
		t.root = t.alloc(key, value)
		return
	}

	cur := t.root
	for {
		n := &t.nodes[cur]
		switch {
		case key < n.key:
			if n.left == nilNode {
				idx := t.alloc(key, value)
				t.nodes[cur].left = idx
				return
			}
			cur = n.left
		case key > n.key:
			if n.right == nilNode {
				idx := t.alloc(key, value)
				t.nodes[cur].right = idx
				return
			}
			cur = n.right
		default:
			return
		}
	}
}

// Search returns the value stored under key.
func (t *OrderedIndex[T]) Search(key int64) (T, bool) {
	cur := t.root
	for cur != nilNode {
		n := &t.nodes[cur]
		switch {
		case key < n.key:
			cur = n.left
		case key > n.key:
			cur = n.right
		default:
			return n.value, true
		}
	}
	var zero T
	return zero, false
}

// Len returns the number of stored keys.
func (t *OrderedIndex[T]) Len() int {
	return len(t.nodes)
}

// Height returns the number of nodes on the longest root-to-leaf path.
func (t *OrderedIndex[T]) Height() int {
	if t.root == nilNode {
		return 0
	}

	type frame struct {
		node  int
		depth int
	}
	height := 0
	stack := []frame{{node: t.root, depth: 1}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.depth > height {
			height = f.depth
		}
		n := t.nodes[f.node]
		if n.left != nilNode {
			stack = append(stack, frame{node: n.left, depth: f.depth + 1})
		}
		if n.right != nilNode {
			stack = append(stack, frame{node: n.right, depth: f.depth + 1})
		}
	}
	return height
}

// Clear drops every node. The arena's backing storage is reused.
func (t *OrderedIndex[T]) Clear() {
	clear(t.nodes)
	t.nodes = t.nodes[:0]
	t.root = nilNode
}

func (t *OrderedIndex[T]) alloc(key int64, value T) int {
	t.nodes = append(t.nodes, orderedNode[T]{
		key:   key,
		value: value,
		left:  nilNode,
		right: nilNode,
	})
	return len(t.nodes) - 1
}
