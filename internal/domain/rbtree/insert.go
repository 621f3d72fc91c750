package rbtree

// Insert returns a tree that maps key to value. Inserting a fresh key adds
// a red leaf and rebalances the copied path; inserting an existing key
// rebuilds the path with a replacement entry and no shape change. The
// returned root is always black.
func (t Tree[K, V]) Insert(key K, value V) Tree[K, V] {
	newRoot, added := t.insert(t.root, key, value)
	size := t.size
	if added {
		size++
	}
	return Tree[K, V]{root: t.cloneAsBlack(newRoot), size: size, less: t.less, maker: t.maker}
}

func (t Tree[K, V]) insert(n *Node[K, V], key K, value V) (*Node[K, V], bool) {
	if n == nil {
		return t.makeRed(&Entry[K, V]{Key: key, Value: value}, nil, nil), true
	}
	if t.less(key, n.entry.Key) {
		return t.insertLeft(n, key, value)
	}
	if t.less(n.entry.Key, key) {
		return t.insertRight(n, key, value)
	}
	// Equal key: same shape, fresh entry.
	return t.maker(n.color, &Entry[K, V]{Key: key, Value: value}, n.left, n.right), false
}

func (t Tree[K, V]) insertLeft(n *Node[K, V], key K, value V) (*Node[K, V], bool) {
	newLeft, added := t.insert(n.left, key, value)
	newNode := t.maker(n.color, n.entry, newLeft, n.right)
	if added && newNode.color == Black {
		return t.balance(newNode), added
	}
	return newNode, added
}

func (t Tree[K, V]) insertRight(n *Node[K, V], key K, value V) (*Node[K, V], bool) {
	newRight, added := t.insert(n.right, key, value)
	newNode := t.maker(n.color, n.entry, n.left, newRight)
	if added && newNode.color == Black {
		return t.balance(newNode), added
	}
	return newNode, added
}

// balance resolves the four red-red configurations below a black node and
// the both-children-red recoloring that pushes the red conflict upward.
// The caller guarantees n is black.
func (t Tree[K, V]) balance(n *Node[K, V]) *Node[K, V] {
	if isRed(n.left) && isRed(n.right) {
		return t.makeRed(n.entry, t.cloneAsBlack(n.left), t.cloneAsBlack(n.right))
	}

	if isRed(n.left) {
		l := n.left
		if isRed(l.left) {
			// outer-left
			ll := l.left
			return t.makeRed(l.entry,
				t.makeBlack(ll.entry, ll.left, ll.right),
				t.makeBlack(n.entry, l.right, n.right))
		}
		if isRed(l.right) {
			// inner-left
			lr := l.right
			return t.makeRed(lr.entry,
				t.makeBlack(l.entry, l.left, lr.left),
				t.makeBlack(n.entry, lr.right, n.right))
		}
	}

	if isRed(n.right) {
		r := n.right
		if isRed(r.left) {
			// inner-right
			rl := r.left
			return t.makeRed(rl.entry,
				t.makeBlack(n.entry, n.left, rl.left),
				t.makeBlack(r.entry, rl.right, r.right))
		}
		if isRed(r.right) {
			// outer-right
			rr := r.right
			return t.makeRed(r.entry,
				t.makeBlack(n.entry, n.left, r.left),
				t.makeBlack(rr.entry, rr.left, rr.right))
		}
	}

	return n
}
