package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/delcain/drawsync/pkg/caixa"
	"github.com/delcain/drawsync/pkg/draw"
)

// FakeSource is an in-memory caixa.Client for tests. It serves the
// deterministic records from NewRecord for every draw up to its latest
// draw number and supports per-draw failure injection.
type FakeSource struct {
	mu        sync.Mutex
	latest    int
	latestErr error
	draws     map[int]draw.Record
	fail      map[int]error
	transient map[int]int
	fetches   map[int]int
	onFetch   func(number int)
}

// NewFakeSource creates a fake source reporting the given latest draw
// number, prepopulated with records for every draw in [1, latest].
func NewFakeSource(latest int) *FakeSource {
	draws := make(map[int]draw.Record, latest)
	for n := 1; n <= latest; n++ {
		draws[n] = NewRecord(n)
	}

	return &FakeSource{
		latest:    latest,
		draws:     draws,
		fail:      make(map[int]error),
		transient: make(map[int]int),
		fetches:   make(map[int]int),
	}
}

// FailWith makes every fetch of the given draw number return err.
func (f *FakeSource) FailWith(number int, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.fail[number] = err
}

// FailTransiently makes the first attempts fetches of the given draw
// number fail with caixa.ErrTransient before succeeding.
func (f *FakeSource) FailTransiently(number, attempts int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.transient[number] = attempts
}

// FailLatest makes LatestDrawNumber return err.
func (f *FakeSource) FailLatest(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.latestErr = err
}

// OnFetch registers a hook invoked at the start of every FetchDraw call.
func (f *FakeSource) OnFetch(fn func(number int)) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.onFetch = fn
}

// Fetches returns how many times the given draw number was fetched.
func (f *FakeSource) Fetches(number int) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.fetches[number]
}

// LatestDrawNumber implements caixa.Client
func (f *FakeSource) LatestDrawNumber(_ context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.latestErr != nil {
		return 0, f.latestErr
	}

	return f.latest, nil
}

// FetchDraw implements caixa.Client
func (f *FakeSource) FetchDraw(ctx context.Context, number int) (*draw.Record, error) {
	f.mu.Lock()
	f.fetches[number]++
	hook := f.onFetch

	if remaining := f.transient[number]; remaining > 0 {
		f.transient[number] = remaining - 1
		f.mu.Unlock()

		if hook != nil {
			hook(number)
		}

		return nil, fmt.Errorf("%w: injected failure", caixa.ErrTransient)
	}

	injected := f.fail[number]
	rec, ok := f.draws[number]
	f.mu.Unlock()

	if hook != nil {
		hook(number)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if injected != nil {
		return nil, injected
	}

	if !ok {
		return nil, caixa.ErrNotFound
	}

	out := rec
	out.Numbers = append([]int(nil), rec.Numbers...)

	return &out, nil
}

var _ caixa.Client = (*FakeSource)(nil)
