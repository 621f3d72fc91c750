// Command loadtest registers a population of random players against a
// running rankdb instance and cross-checks the served ranks against a
// locally computed expectation, rollback included.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// Default configuration constants.
const (
	defaultPlayers  = 1000
	defaultTimeout  = 10 * time.Second
	defaultRollback = 10
	maxRating       = 100_000
)

type playerRow struct {
	Name   string `json:"name"`
	Rating int    `json:"rating"`
	Rank   int    `json:"rank"`
}

type client struct {
	baseURL string
	http    *http.Client
}

func (c *client) register(ctx context.Context, name string, rating int) error {
	body, err := json.Marshal(map[string]any{"name": name, "rating": rating})
	if err != nil {
		return errors.Wrap(err, "marshaling register body")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/players", bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "building register request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "registering player")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		return errors.Errorf("register %s: unexpected status %d", name, resp.StatusCode)
	}
	return nil
}

func (c *client) rank(ctx context.Context, name string) (playerRow, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/rank/"+name, nil)
	if err != nil {
		return playerRow{}, errors.Wrap(err, "building rank request")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return playerRow{}, errors.Wrap(err, "querying rank")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return playerRow{}, errors.Errorf("rank %s: unexpected status %d", name, resp.StatusCode)
	}

	var row playerRow
	if err := json.NewDecoder(resp.Body).Decode(&row); err != nil {
		return playerRow{}, errors.Wrap(err, "decoding rank response")
	}
	return row, nil
}

func (c *client) rollback(ctx context.Context, steps int) error {
	body, err := json.Marshal(map[string]any{"steps": steps})
	if err != nil {
		return errors.Wrap(err, "marshaling rollback body")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/rollback", bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "building rollback request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "rolling back")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		return errors.Errorf("rollback: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// expectedRanks computes competitive ranks for the given ratings: 1 plus
// the number of players with a strictly higher rating.
func expectedRanks(ratings map[string]int) map[string]int {
	counts := lo.CountValues(lo.Values(ratings))
	distinct := lo.Keys(counts)
	sort.Sort(sort.Reverse(sort.IntSlice(distinct)))

	rankByRating := make(map[int]int, len(distinct))
	ahead := 0
	for _, r := range distinct {
		rankByRating[r] = ahead + 1
		ahead += counts[r]
	}

	out := make(map[string]int, len(ratings))
	for name, r := range ratings {
		out[name] = rankByRating[r]
	}
	return out
}

func run(ctx context.Context, c *client, players, rollbackSteps int, seed int64) error {
	rng := rand.New(rand.NewSource(seed))

	ratings := make(map[string]int, players)
	order := make([]string, 0, players)
	for i := 0; i < players; i++ {
		name := uuid.New().String()
		rating := rng.Intn(maxRating)
		if err := c.register(ctx, name, rating); err != nil {
			return err
		}
		ratings[name] = rating
		order = append(order, name)
	}
	fmt.Printf("registered %d players\n", players)

	verify := func() error {
		want := expectedRanks(ratings)
		for name, wantRank := range want {
			row, err := c.rank(ctx, name)
			if err != nil {
				return err
			}
			if row.Rank != wantRank {
				return errors.Errorf("player %s: expected rank %d, got %d", name, wantRank, row.Rank)
			}
		}
		return nil
	}

	if err := verify(); err != nil {
		return err
	}
	fmt.Printf("verified %d ranks\n", len(ratings))

	if rollbackSteps > 0 {
		if rollbackSteps > players {
			rollbackSteps = players
		}
		if err := c.rollback(ctx, rollbackSteps); err != nil {
			return err
		}
		// The newest registrations disappear first.
		for _, name := range order[len(order)-rollbackSteps:] {
			delete(ratings, name)
		}
		if err := verify(); err != nil {
			return errors.Wrap(err, "after rollback")
		}
		fmt.Printf("verified %d ranks after rollback of %d\n", len(ratings), rollbackSteps)
	}
	return nil
}

func main() {
	var (
		baseURL  = flag.String("url", "http://localhost:9080", "Base URL of the service")
		players  = flag.Int("players", defaultPlayers, "Number of players to register")
		rollback = flag.Int("rollback", defaultRollback, "Rollback steps to exercise after verification")
		timeout  = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		seed     = flag.Int64("seed", time.Now().UnixNano(), "Random seed for ratings")
	)
	flag.Parse()

	ctx := context.Background()
	c := &client{baseURL: *baseURL, http: &http.Client{Timeout: *timeout}}

	if err := run(ctx, c, *players, *rollback, *seed); err != nil {
		os.Stderr.WriteString("loadtest failed: " + err.Error() + "\n")
		os.Exit(1)
	}
	fmt.Println("loadtest passed")
}
