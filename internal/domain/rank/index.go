// Package rank maintains an order-statistic index over player ratings.
//
// The index is a persistent tree keyed by rating in descending order, so
// an in-order walk yields the leaderboard best-first. Each node carries a
// Stats value whose LeftSize field is recomputed by the node maker every
// time the tree builds a node, which keeps the augmentation correct
// through every insert, removal and rebalance without a second pass.
package rank

import "github.com/leomash/rankdb/internal/domain/rbtree"

// Stats is the per-rating payload of the index.
type Stats struct {
	// Tied counts the players currently holding exactly this rating.
	Tied int
	// LeftSize is the sum of Tied over the node's left subtree, i.e. the
	// number of players with a strictly better rating inside that subtree.
	LeftSize int
}

// Index is an immutable rating index. Mutations return a new Index that
// shares structure with the receiver. The zero value is not usable;
// construct with NewIndex.
type Index struct {
	tree rbtree.Tree[int, Stats]
}

// NewIndex returns an empty index.
func NewIndex() Index {
	descending := func(a, b int) bool { return a > b }
	return Index{tree: rbtree.NewWith[int, Stats](descending, makeNode)}
}

// makeNode recomputes LeftSize from the freshly bound left child. When the
// value is already right the incoming entry is reused so structural
// sharing survives.
func makeNode(color rbtree.Color, entry *rbtree.Entry[int, Stats], left, right *rbtree.Node[int, Stats]) *rbtree.Node[int, Stats] {
	leftSize := 0
	if left != nil {
		lv := left.Entry().Value
		leftSize = lv.LeftSize + lv.Tied
	}
	if entry.Value.LeftSize != leftSize {
		entry = &rbtree.Entry[int, Stats]{
			Key:   entry.Key,
			Value: Stats{Tied: entry.Value.Tied, LeftSize: leftSize},
		}
	}
	return rbtree.MakeNode(color, entry, left, right)
}

// Add records one more player at rating.
func (ix Index) Add(rating int) Index {
	tied := 1
	if e, ok := ix.tree.Get(rating); ok {
		tied = e.Value.Tied + 1
	}
	// LeftSize starts at zero; the maker fills in the real value on the
	// copied path.
	return Index{tree: ix.tree.Insert(rating, Stats{Tied: tied})}
}

// Drop records one player leaving rating. Dropping an unknown rating
// returns the receiver unchanged.
func (ix Index) Drop(rating int) Index {
	e, ok := ix.tree.Get(rating)
	if !ok {
		return ix
	}
	if e.Value.Tied == 1 {
		return Index{tree: ix.tree.Remove(rating)}
	}
	return Index{tree: ix.tree.Remove(rating).Insert(rating, Stats{Tied: e.Value.Tied - 1})}
}

// RankOf returns the 1-based competitive rank of rating: one more than
// the number of players with a strictly higher rating. Players sharing a
// rating share the rank. Returns 0 when nobody holds rating.
func (ix Index) RankOf(rating int) int {
	ahead := 0
	e, ok := ix.tree.GetTrace(rating, func(from *rbtree.Entry[int, Stats], toLeft bool) {
		if !toLeft {
			// Moving right skips the whole left subtree plus the node's
			// own tie bucket; all of them rank ahead.
			ahead += from.Value.LeftSize + from.Value.Tied
		}
	})
	if !ok {
		return 0
	}
	return ahead + e.Value.LeftSize + 1
}

// Distinct returns the number of distinct ratings held.
func (ix Index) Distinct() int { return ix.tree.Len() }

// Players returns the total number of indexed players (the sum of all tie
// buckets).
func (ix Index) Players() int {
	total := 0
	ix.tree.Ascend(func(_ int, s Stats) bool {
		total += s.Tied
		return true
	})
	return total
}

// Tied returns the size of the tie bucket at rating, 0 when absent.
func (ix Index) Tied(rating int) int {
	if e, ok := ix.tree.Get(rating); ok {
		return e.Value.Tied
	}
	return 0
}

// Validate returns the black height of the underlying tree, 0 when the
// structure is corrupt.
func (ix Index) Validate() int { return ix.tree.Validate() }

// Tree exposes the underlying tree for traversal and invariant checks.
func (ix Index) Tree() rbtree.Tree[int, Stats] { return ix.tree }
