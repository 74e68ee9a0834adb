package matches

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/AmolBhalerao8/dechico/internal/domain/enums"
	"github.com/AmolBhalerao8/dechico/internal/domain/model"
)

type fakeLikes struct {
	likes map[string]bool
}

func (f fakeLikes) HasLike(_ context.Context, actorID, targetID string) (bool, error) {
	return f.likes[actorID+"->"+targetID], nil
}

type fakeMatchStore struct {
	mu      sync.Mutex
	byPair  map[string]model.Match
	inserts int
}

func newFakeMatchStore(items ...model.Match) *fakeMatchStore {
	s := &fakeMatchStore{byPair: make(map[string]model.Match)}
	for _, m := range items {
		s.byPair[model.PairKey(m.UserA, m.UserB)] = m
	}
	return s
}

func (f *fakeMatchStore) GetByPair(_ context.Context, userA, userB string) (model.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.byPair[model.PairKey(userA, userB)]
	if !ok {
		return model.Match{}, ErrMatchNotFound
	}
	return m, nil
}

func (f *fakeMatchStore) Insert(_ context.Context, m model.Match) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := model.PairKey(m.UserA, m.UserB)
	if _, ok := f.byPair[key]; ok {
		return ErrMatchConflict
	}
	f.inserts++
	f.byPair[key] = m
	return nil
}

func (f *fakeMatchStore) ListByUser(_ context.Context, userID string) ([]model.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Match, 0)
	for _, m := range f.byPair {
		if m.UserA == userID || m.UserB == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

// racingMatchStore reports the pair as missing on the first read and then
// loses the insert race to an existing winner.
type racingMatchStore struct {
	winner model.Match
	reads  int
}

func (r *racingMatchStore) GetByPair(context.Context, string, string) (model.Match, error) {
	r.reads++
	if r.reads == 1 {
		return model.Match{}, ErrMatchNotFound
	}
	return r.winner, nil
}

func (r *racingMatchStore) Insert(context.Context, model.Match) error {
	return ErrMatchConflict
}

func (r *racingMatchStore) ListByUser(context.Context, string) ([]model.Match, error) {
	return nil, nil
}

type fakeProfiles map[string]model.Profile

func (f fakeProfiles) GetProfile(_ context.Context, userID string) (model.Profile, error) {
	p, ok := f[userID]
	if !ok {
		return model.Profile{}, ErrProfileNotFound
	}
	return p, nil
}

type prefixResolver struct{}

func (prefixResolver) Resolve(_ context.Context, ref string) (string, bool) {
	if strings.HasPrefix(ref, "broken/") {
		return "", false
	}
	return "https://signed.example.com/" + ref, true
}

type countingObserver struct{ created int }

func (c *countingObserver) MatchCreated() { c.created++ }

func TestEvaluateForMatchIgnoresPassAndOneSidedLike(t *testing.T) {
	store := newFakeMatchStore()
	svc := NewService(Dependencies{
		Likes:   fakeLikes{likes: map[string]bool{"u-b->u-a": true}},
		Matches: store,
	})
	ctx := context.Background()

	got, err := svc.EvaluateForMatch(ctx, "u-a", "u-b", enums.DirectionPass)
	if err != nil || got.IsMatch {
		t.Fatalf("pass must never match: %+v err=%v", got, err)
	}

	got, err = svc.EvaluateForMatch(ctx, "u-a", "u-c", enums.DirectionLike)
	if err != nil || got.IsMatch {
		t.Fatalf("one-sided like must not match: %+v err=%v", got, err)
	}
	if store.inserts != 0 {
		t.Fatalf("unexpected inserts: %d", store.inserts)
	}
}

func TestEvaluateForMatchCreatesOnceAndReplays(t *testing.T) {
	store := newFakeMatchStore()
	observer := &countingObserver{}
	svc := NewService(Dependencies{
		Likes:   fakeLikes{likes: map[string]bool{"u-b->u-a": true, "u-a->u-b": true}},
		Matches: store,
		Metrics: observer,
	})
	ctx := context.Background()

	first, err := svc.EvaluateForMatch(ctx, "u-a", "u-b", enums.DirectionLike)
	if err != nil || !first.IsMatch || first.MatchID == "" {
		t.Fatalf("expected match: %+v err=%v", first, err)
	}

	replay, err := svc.EvaluateForMatch(ctx, "u-b", "u-a", enums.DirectionLike)
	if err != nil {
		t.Fatalf("replay evaluate: %v", err)
	}
	if replay.MatchID != first.MatchID {
		t.Fatalf("replay must return the existing match: got %s want %s", replay.MatchID, first.MatchID)
	}
	if store.inserts != 1 || observer.created != 1 {
		t.Fatalf("unexpected insert count: inserts=%d created=%d", store.inserts, observer.created)
	}

	m, _ := store.GetByPair(ctx, "u-b", "u-a")
	if m.UserA != "u-a" || m.UserB != "u-b" {
		t.Fatalf("match pair must be canonical: %+v", m)
	}
}

func TestCreateMatchIfAbsentConcurrentCallersShareOneMatch(t *testing.T) {
	store := newFakeMatchStore()
	svc := NewService(Dependencies{Matches: store})
	ctx := context.Background()

	const workers = 16
	ids := make([]string, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			first, second := "u-a", "u-b"
			if i%2 == 1 {
				first, second = second, first
			}
			m, err := svc.CreateMatchIfAbsent(ctx, first, second)
			if err != nil {
				t.Errorf("create match: %v", err)
				return
			}
			ids[i] = m.ID
		}(i)
	}
	wg.Wait()

	if store.inserts != 1 {
		t.Fatalf("unexpected inserts: got %d want 1", store.inserts)
	}
	for _, id := range ids {
		if id != ids[0] {
			t.Fatalf("callers saw different matches: %v", ids)
		}
	}
}

func TestCreateMatchIfAbsentRecoversFromConflict(t *testing.T) {
	winner := model.Match{ID: "m-winner", UserA: "u-a", UserB: "u-b", MatchedAt: time.Now().UTC()}
	store := &racingMatchStore{winner: winner}
	svc := NewService(Dependencies{Matches: store})

	got, err := svc.CreateMatchIfAbsent(context.Background(), "u-b", "u-a")
	if err != nil {
		t.Fatalf("create match: %v", err)
	}
	if got.ID != "m-winner" {
		t.Fatalf("expected winner match, got %+v", got)
	}
}

func TestCreateMatchIfAbsentRejectsSelfPair(t *testing.T) {
	svc := NewService(Dependencies{Matches: newFakeMatchStore()})
	if _, err := svc.CreateMatchIfAbsent(context.Background(), "u-a", "u-a"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestListForUserOrdersAndSummarises(t *testing.T) {
	base := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	deletedAt := base
	store := newFakeMatchStore(
		model.Match{ID: "m-old", UserA: "u-a", UserB: "u-b", MatchedAt: base},
		model.Match{ID: "m-new", UserA: "u-a", UserB: "u-c", MatchedAt: base.Add(2 * time.Hour)},
		model.Match{ID: "m-missing", UserA: "u-a", UserB: "u-x", MatchedAt: base.Add(time.Hour)},
		model.Match{ID: "m-deleted", UserA: "u-a", UserB: "u-d", MatchedAt: base.Add(3 * time.Hour)},
		model.Match{ID: "m-other", UserA: "u-b", UserB: "u-c", MatchedAt: base},
	)
	svc := NewService(Dependencies{
		Matches: store,
		Profiles: fakeProfiles{
			"u-b": {UserID: "u-b", Email: "b@csuchico.edu", FirstName: "Blake", LastName: "Lee", Photos: []string{"photos/b.jpg"}},
			"u-c": {UserID: "u-c", Email: "c@csuchico.edu", Alias: "Cat", Photos: []string{"broken/c.jpg"}},
			"u-d": {UserID: "u-d", DeletedAt: &deletedAt},
		},
		Photos: prefixResolver{},
	})

	items, err := svc.ListForUser(context.Background(), "u-a")
	if err != nil {
		t.Fatalf("list for user: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("unexpected items: %+v", items)
	}

	if items[0].MatchID != "m-new" || items[1].MatchID != "m-old" {
		t.Fatalf("unexpected order: %s, %s", items[0].MatchID, items[1].MatchID)
	}
	if items[0].DisplayName != "Cat" || items[0].Alias != "Cat" || items[0].Photo != "" {
		t.Fatalf("unexpected alias-only summary: %+v", items[0])
	}
	if items[1].DisplayName != "Blake Lee" || items[1].Alias != model.DefaultAlias {
		t.Fatalf("unexpected name summary: %+v", items[1])
	}
	if items[1].Photo != "https://signed.example.com/photos/b.jpg" || items[1].Email != "b@csuchico.edu" {
		t.Fatalf("unexpected photo or email: %+v", items[1])
	}
}
