// Package leaderboard implements the versioned player database.
//
// Two persistent trees are kept in lockstep: one maps player name to
// rating, the other indexes ratings for order-statistic rank queries.
// Every successful mutation appends one new version of each tree to the
// history, so Rollback only has to truncate both histories to restore any
// earlier state. Version zero is always the empty database and is never
// dropped.
//
// The database itself is not safe for concurrent use; callers serialize
// access (see the repository adapter).
package leaderboard

import (
	"github.com/leomash/rankdb/internal/domain/rank"
	"github.com/leomash/rankdb/internal/domain/rbtree"
)

// PlayerInfo is one row of the leaderboard listing.
type PlayerInfo struct {
	Name   string
	Rating int
	Rank   int
}

// DB is the versioned leaderboard database.
type DB struct {
	ratings []rbtree.Tree[string, int]
	index   []rank.Index
}

// New returns a database holding the initial empty version.
func New() *DB {
	return &DB{
		ratings: []rbtree.Tree[string, int]{rbtree.New[string, int]()},
		index:   []rank.Index{rank.NewIndex()},
	}
}

func (db *DB) tipRatings() rbtree.Tree[string, int] {
	return db.ratings[len(db.ratings)-1]
}

func (db *DB) tipIndex() rank.Index {
	return db.index[len(db.index)-1]
}

// Register stores or replaces the rating for name. Registering an already
// known name swaps its old rating for the new one inside a single history
// step, so the index always reflects every player exactly once.
func (db *DB) Register(name string, rating int) {
	tipR := db.tipRatings()
	ix := db.tipIndex()

	if old, ok := tipR.Get(name); ok {
		ix = ix.Drop(old.Value)
	}

	db.index = append(db.index, ix.Add(rating))
	db.ratings = append(db.ratings, tipR.Insert(name, rating))
}

// Unregister removes name from the leaderboard. Unknown names are a
// silent no-op and leave the history untouched.
func (db *DB) Unregister(name string) {
	tipR := db.tipRatings()
	e, ok := tipR.Get(name)
	if !ok {
		return
	}

	db.index = append(db.index, db.tipIndex().Drop(e.Value))
	db.ratings = append(db.ratings, tipR.Remove(name))
}

// Rating returns the current rating for name.
func (db *DB) Rating(name string) (int, bool) {
	e, ok := db.tipRatings().Get(name)
	if !ok {
		return 0, false
	}
	return e.Value, true
}

// Rank returns the 1-based competitive rank of name, 0 when unknown.
// Players with equal ratings share the best rank of their bucket.
func (db *DB) Rank(name string) int {
	e, ok := db.tipRatings().Get(name)
	if !ok {
		return 0
	}
	return db.tipIndex().RankOf(e.Value)
}

// List returns every registered player with rating and rank, ordered by
// name.
func (db *DB) List() []PlayerInfo {
	tipR := db.tipRatings()
	tipI := db.tipIndex()

	rows := make([]PlayerInfo, 0, tipR.Len())
	tipR.Ascend(func(name string, rating int) bool {
		rows = append(rows, PlayerInfo{Name: name, Rating: rating, Rank: tipI.RankOf(rating)})
		return true
	})
	return rows
}

// Rollback restores the state from steps mutations ago. Values beyond the
// history depth clamp to the initial empty state; negative values clamp
// to zero and change nothing.
func (db *DB) Rollback(steps int) {
	if steps < 0 {
		steps = 0
	}
	keep := len(db.ratings) - steps
	if keep < 1 {
		keep = 1
	}
	// Zero the truncated slots so the collector can reclaim every tree
	// version that only they referenced.
	for i := keep; i < len(db.ratings); i++ {
		db.ratings[i] = rbtree.Tree[string, int]{}
		db.index[i] = rank.Index{}
	}
	db.ratings = db.ratings[:keep]
	db.index = db.index[:keep]
}

// Size returns the number of currently registered players.
func (db *DB) Size() int { return db.tipRatings().Len() }

// HistoryDepth returns the number of stored versions, the initial empty
// one included.
func (db *DB) HistoryDepth() int { return len(db.ratings) }

// Validate structurally checks both current trees. It returns false when
// either tree is corrupt or the histories have drifted apart.
func (db *DB) Validate() bool {
	if len(db.ratings) != len(db.index) {
		return false
	}
	if db.tipRatings().Validate() == 0 || db.tipIndex().Validate() == 0 {
		return false
	}
	return db.tipIndex().Players() == db.tipRatings().Len()
}
