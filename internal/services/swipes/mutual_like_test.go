package swipes_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	memrepo "github.com/AmolBhalerao8/dechico/internal/repo/memory"
	matchessvc "github.com/AmolBhalerao8/dechico/internal/services/matches"
	swipesvc "github.com/AmolBhalerao8/dechico/internal/services/swipes"
)

func TestConcurrentMutualLikesCreateOneMatch(t *testing.T) {
	decisions := memrepo.NewDecisionStore()
	matchStore := memrepo.NewMatchStore()

	matchService := matchessvc.NewService(matchessvc.Dependencies{
		Likes:    decisions,
		Matches:  matchStore,
		Profiles: memrepo.NewProfileStore(),
	})
	svc := swipesvc.NewService(swipesvc.Dependencies{
		Decisions: decisions,
		Matches:   matchService,
	}, swipesvc.Config{})
	ctx := context.Background()

	for round := 0; round < 25; round++ {
		a := fmt.Sprintf("a-%02d", round)
		b := fmt.Sprintf("b-%02d", round)

		var (
			wg      sync.WaitGroup
			start   = make(chan struct{})
			results [2]swipesvc.SwipeResult
			errs    [2]error
		)
		for i, pair := range [][2]string{{a, b}, {b, a}} {
			wg.Add(1)
			go func(i int, actor, target string) {
				defer wg.Done()
				<-start
				results[i], errs[i] = svc.Swipe(ctx, swipesvc.DecisionInput{ActorID: actor, TargetID: target, Direction: "LIKE"})
			}(i, pair[0], pair[1])
		}
		close(start)
		wg.Wait()

		for i, err := range errs {
			if err != nil {
				t.Fatalf("round %d: swipe %d failed: %v", round, i, err)
			}
		}

		stored, err := matchStore.ListByUser(ctx, a)
		if err != nil {
			t.Fatalf("list matches: %v", err)
		}
		if len(stored) != 1 {
			t.Fatalf("round %d: unexpected match count: got %d want 1", round, len(stored))
		}

		matched := 0
		for _, result := range results {
			if !result.IsMatch {
				continue
			}
			matched++
			if result.MatchID != stored[0].ID {
				t.Fatalf("round %d: isMatch result carries %q, stored match is %q", round, result.MatchID, stored[0].ID)
			}
		}
		if matched == 0 {
			t.Fatalf("round %d: the later like must observe the earlier one", round)
		}
	}
}
