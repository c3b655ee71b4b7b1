package windowrank

import (
	"fmt"
	"math"
	"sort"

	"golang.org/x/exp/constraints"
)

// Unbounded is the "never evict" window size sentinel (spec.md §4.1): a
// WindowRanker constructed with it never pops its FIFO, so observe never
// evicts and the rank becomes cumulative over every value seen. Although
// its value is math.MaxInt, construction does not try to preallocate
// anything sized by it — see newWindow below.
const Unbounded = math.MaxInt

// options collects WindowRanker construction parameters (spec.md §4.1,
// §9 Open Questions). Defaults mirror the seed: N = len(seed), K0 =
// floor(sqrt(N)) clamped to at least 1.
type options[T any] struct {
	n             int
	k0            int
	alreadySorted bool
	factory       chunkFactory[T]
}

// Option configures a WindowRanker at construction time.
type Option[T any] func(*options[T])

// WithWindowSize overrides the default window size (len(seed)). n must be
// at least 1, or Unbounded for a ranker that never evicts.
func WithWindowSize[T any](n int) Option[T] {
	return func(o *options[T]) { o.n = n }
}

// WithPartitions overrides the default partition count, floor(sqrt(N)).
// 0 selects the default; anything else below 1 is rejected.
func WithPartitions[T any](k0 int) Option[T] {
	return func(o *options[T]) { o.k0 = k0 }
}

// WithAlreadySorted skips the defensive sort of seed, trusting the caller
// that it is already in ascending order per cmp. Passing an unsorted seed
// with this option breaks the ordering invariants of spec.md §3.
// CheckInvariants reports a chunk whose own values are out of order, but
// not values that are out of order between chunks.
func WithAlreadySorted[T any]() Option[T] {
	return func(o *options[T]) { o.alreadySorted = true }
}

// WithCenteredChunks selects the fixed-capacity, cursor-managed chunk
// realization (§4.2.2) instead of the default growable-slice realization.
func WithCenteredChunks[T any]() Option[T] {
	return func(o *options[T]) { o.factory = centeredChunkFactory[T]{} }
}

// WindowRanker computes the strict-less-than rank of each newly observed
// value against the trailing window of the N most recent observations
// (spec.md §4.1).
type WindowRanker[T any] struct {
	n      int
	cmp    Comparator[T]
	window *fifo[T]
	parts  *partitionSet[T]
	logger Logger
}

// New constructs a WindowRanker over an arbitrary totally-ordered domain,
// described by cmp. seed is consumed in insertion order (oldest first);
// it is sorted into ascending order internally unless WithAlreadySorted
// is given.
func New[T any](seed []T, cmp Comparator[T], opts ...Option[T]) (*WindowRanker[T], error) {
	o := options[T]{n: len(seed), factory: heapChunkFactory[T]{}}
	for _, opt := range opts {
		opt(&o)
	}
	if o.n < 1 {
		return nil, invalidArgumentf(`window size must be at least 1, got %d`, o.n)
	}
	if o.k0 == 0 {
		o.k0 = defaultPartitionCount(o.n)
	}
	if o.k0 < 1 {
		return nil, invalidArgumentf(`partition count must be at least 1, got %d`, o.k0)
	}

	effectiveSeed := seed
	if o.n != Unbounded && len(seed) > o.n {
		effectiveSeed = seed[len(seed)-o.n:]
	}

	window := newWindow[T](o.n, len(effectiveSeed))
	for _, v := range effectiveSeed {
		window.PushBack(v)
	}

	sorted := append(make([]T, 0, len(effectiveSeed)), effectiveSeed...)
	if !o.alreadySorted {
		sort.Slice(sorted, func(i, j int) bool { return cmp.less(sorted[i], sorted[j]) })
	}

	// Chunk nominal size is sized off the window length; an Unbounded
	// window has none, so size against what's actually in hand instead
	// (growth from there is handled by ordinary splitting).
	nominalBasis := o.n
	if nominalBasis == Unbounded {
		nominalBasis = len(effectiveSeed)
	}

	return &WindowRanker[T]{
		n:      o.n,
		cmp:    cmp,
		window: window,
		parts:  newPartitionSet[T](sorted, o.k0, nominalBasis, cmp, o.factory),
	}, nil
}

// NewOrdered is New specialized to a type with the standard library's
// natural order, the convenience path most callers want (spec.md §3).
func NewOrdered[T constraints.Ordered](seed []T, opts ...Option[T]) (*WindowRanker[T], error) {
	return New[T](seed, Ordered[T](), opts...)
}

// defaultPartitionCount is floor(sqrt(n)) clamped to at least 1 (spec.md
// §3): the partition count that keeps both chunk count and chunk size
// near sqrt(n).
func defaultPartitionCount(n int) int {
	if n == Unbounded {
		// No finite window to size partitions against; start at a single
		// partition and let splits grow the count organically.
		return 1
	}
	k := int(math.Sqrt(float64(n)))
	if k < 1 {
		k = 1
	}
	return k
}

// newWindow sizes the FIFO's initial backing array. An Unbounded window
// must not try to preallocate by N, so it falls back to sizing against
// the seed actually given instead.
func newWindow[T any](n, seedLen int) *fifo[T] {
	if n == Unbounded {
		return newFIFO[T](seedLen)
	}
	return newFIFO[T](n)
}

// Logger attaches (or, given nil, detaches) the optional structured
// logger used for split/evict/invariant-sweep diagnostics (spec.md §7,
// SPEC_FULL.md §4.5). It never affects control flow.
func (r *WindowRanker[T]) Logger(l Logger) {
	r.logger = l
	r.parts.SetLogger(l)
}

// Observe records x as the newest value in the window, evicting the
// oldest value first if the window was already full, and returns the
// fraction of values in the resulting window that are strictly less than
// x (spec.md §4.1).
func (r *WindowRanker[T]) Observe(x T) float64 {
	full := r.n != Unbounded && r.window.Len() == r.n
	var evictValue *T
	if full {
		v := r.window.PopFront()
		evictValue = &v
	}
	r.window.PushBack(x)
	r.parts.apply(x, evictValue)

	lb := r.parts.lowerBound(x)
	denom := r.n
	if !full {
		denom = r.window.Len()
	}
	return float64(lb) / float64(denom)
}

// Len reports the number of values currently held in the window.
func (r *WindowRanker[T]) Len() int { return r.window.Len() }

// SplitCount reports the total number of chunk splits performed so far.
func (r *WindowRanker[T]) SplitCount() int { return r.parts.splitCount }

// RemoveCount reports the total number of chunk removals performed so
// far (a chunk is removed once its last value is evicted).
func (r *WindowRanker[T]) RemoveCount() int { return r.parts.removeCount }

// Destroy releases any deterministically-freeable chunk storage (only
// relevant to the centered-buffer realization; spec.md §5, §6). The
// WindowRanker must not be used afterwards.
func (r *WindowRanker[T]) Destroy() {
	r.parts.destroy()
	r.window = nil
}

// CheckInvariants sweeps the live PartitionSet for the universal
// invariants of spec.md §8 (properties 2-4): contiguous lower bounds
// starting at zero, each chunk internally sorted, and total occupancy
// matching the window's length. It aggregates every violation found
// rather than stopping at the first (SPEC_FULL.md §4.5, §7).
func (r *WindowRanker[T]) CheckInvariants() error {
	var violations []string

	for i, c := range r.parts.chunks {
		if i == 0 {
			if c.LowerBound() != 0 {
				violations = append(violations, fmt.Sprintf(`chunk 0 lower bound = %d, want 0`, c.LowerBound()))
			}
		} else {
			prev := r.parts.chunks[i-1]
			want := prev.LowerBound() + prev.Count()
			if c.LowerBound() != want {
				violations = append(violations, fmt.Sprintf(`chunk %d lower bound = %d, want %d`, i, c.LowerBound(), want))
			}
		}
		if i > 0 && c.Count() == 0 {
			violations = append(violations, fmt.Sprintf(`chunk %d is empty`, i))
		}

		values := c.Values()
		for j := 1; j < len(values); j++ {
			if r.cmp(values[j-1], values[j]) > 0 {
				violations = append(violations, fmt.Sprintf(`chunk %d values not ascending at index %d`, i, j))
				break
			}
		}
	}

	if occupancy := r.parts.occupancy(); occupancy != r.window.Len() {
		violations = append(violations, fmt.Sprintf(`total chunk occupancy = %d, want %d`, occupancy, r.window.Len()))
	}

	err := invariantErrors(violations)
	logInvariantViolation(r.logger, err)
	return err
}
