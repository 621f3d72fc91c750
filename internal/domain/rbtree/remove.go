package rbtree

// Remove returns a tree without key. When key is absent the receiver is
// returned untouched, root included.
func (t Tree[K, V]) Remove(key K) Tree[K, V] {
	newRoot, removed := t.remove(t.root, key)
	if !removed {
		return t
	}
	if newRoot != nil {
		newRoot = t.cloneAsBlack(newRoot)
	}
	return Tree[K, V]{root: newRoot, size: t.size - 1, less: t.less, maker: t.maker}
}

func (t Tree[K, V]) remove(n *Node[K, V], key K) (*Node[K, V], bool) {
	if n == nil {
		return nil, false
	}
	if t.less(key, n.entry.Key) {
		return t.removeLeft(n, key)
	}
	if t.less(n.entry.Key, key) {
		return t.removeRight(n, key)
	}
	return t.fuse(n.left, n.right), true
}

func (t Tree[K, V]) removeLeft(n *Node[K, V], key K) (*Node[K, V], bool) {
	newLeft, removed := t.remove(n.left, key)
	if !removed {
		return n, false
	}
	newNode := t.makeRed(n.entry, newLeft, n.right)
	if isBlack(n.left) {
		// The left branch lost a black node; restore its black height.
		return t.balanceRemoveLeft(newNode), true
	}
	return newNode, true
}

func (t Tree[K, V]) removeRight(n *Node[K, V], key K) (*Node[K, V], bool) {
	newRight, removed := t.remove(n.right, key)
	if !removed {
		return n, false
	}
	newNode := t.makeRed(n.entry, n.left, newRight)
	if isBlack(n.right) {
		return t.balanceRemoveRight(newNode), true
	}
	return newNode, true
}

// fuse merges the two subtrees of a deleted node into one tree that keeps
// the search order of both sides and repairs red-black violations as the
// merge seam travels up.
func (t Tree[K, V]) fuse(left, right *Node[K, V]) *Node[K, V] {
	if left == nil {
		return right
	}
	if right == nil {
		return left
	}

	leftRed := left.color == Red
	rightRed := right.color == Red

	switch {
	case !leftRed && rightRed:
		return t.makeRed(right.entry, t.fuse(left, right.left), right.right)

	case leftRed && !rightRed:
		return t.makeRed(left.entry, left.left, t.fuse(left.right, right))

	case leftRed && rightRed:
		fused := t.fuse(left.right, right.left)
		if isRed(fused) {
			return t.makeRed(fused.entry,
				t.makeRed(left.entry, left.left, fused.left),
				t.makeRed(right.entry, fused.right, right.right))
		}
		return t.makeRed(left.entry, left.left,
			t.makeRed(right.entry, fused, right.right))

	default: // both black
		fused := t.fuse(left.right, right.left)
		if isRed(fused) {
			return t.makeRed(fused.entry,
				t.makeBlack(left.entry, left.left, fused.left),
				t.makeBlack(right.entry, fused.right, right.right))
		}
		newNode := t.makeRed(left.entry, left.left,
			t.makeBlack(right.entry, fused, right.right))
		return t.balanceRemoveLeft(newNode)
	}
}

// balanceRemoveLeft repairs a node whose left subtree is one black node
// short. The three cases mirror the sibling/nephew color analysis of
// textbook red-black deletion.
func (t Tree[K, V]) balanceRemoveLeft(n *Node[K, V]) *Node[K, V] {
	if isRed(n.left) {
		return t.makeRed(n.entry, t.cloneAsBlack(n.left), n.right)
	}
	if isBlack(n.right) {
		return t.balance(t.makeBlack(n.entry, n.left, t.cloneAsRed(n.right)))
	}
	// Sibling red, so its left child exists and is black.
	rl := n.right.left
	return t.makeRed(rl.entry,
		t.makeBlack(n.entry, n.left, rl.left),
		t.balance(t.makeBlack(n.right.entry, rl.right, t.cloneAsRed(n.right.right))))
}

// balanceRemoveRight is the mirror of balanceRemoveLeft.
func (t Tree[K, V]) balanceRemoveRight(n *Node[K, V]) *Node[K, V] {
	if isRed(n.right) {
		return t.makeRed(n.entry, n.left, t.cloneAsBlack(n.right))
	}
	if isBlack(n.left) {
		return t.balance(t.makeBlack(n.entry, t.cloneAsRed(n.left), n.right))
	}
	lr := n.left.right
	return t.makeRed(lr.entry,
		t.balance(t.makeBlack(n.left.entry, t.cloneAsRed(n.left.left), lr.left)),
		t.makeBlack(n.entry, lr.right, n.right))
}
