package windowrank

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrdered_RejectsInvalidWindowSize(t *testing.T) {
	_, err := NewOrdered[int](nil, WithWindowSize[int](0))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestNewOrdered_RejectsInvalidPartitionCount(t *testing.T) {
	_, err := NewOrdered[int]([]int{1, 2, 3}, WithPartitions[int](-1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestNewOrdered_ZeroPartitionsSelectsDefault(t *testing.T) {
	r, err := NewOrdered[int]([]int{1, 2, 3}, WithPartitions[int](0))
	require.NoError(t, err)
	require.NoError(t, r.CheckInvariants())
}

func TestNewOrdered_DefaultsWindowSizeToSeedLength(t *testing.T) {
	r, err := NewOrdered[int]([]int{1, 2, 3, 4, 5})
	require.NoError(t, err)
	assert.Equal(t, 5, r.Len())
	// window size 5 means the next observation evicts rather than grows.
	r.Observe(6)
	assert.Equal(t, 5, r.Len())
}

func TestObserve_EmptySeedFirstObservationRanksZero(t *testing.T) {
	r, err := NewOrdered[int](nil, WithWindowSize[int](3))
	require.NoError(t, err)
	got := r.Observe(42)
	assert.Equal(t, 0.0, got)
	assert.Equal(t, 1, r.Len())
}

func TestObserve_RankIsStrictlyLessThanFraction(t *testing.T) {
	r, err := NewOrdered[int]([]int{10, 20, 30, 40})
	require.NoError(t, err)
	require.NoError(t, r.CheckInvariants())

	// window is full at N=4; observing 25 evicts 10 and inserts 25, giving
	// {20, 25, 30, 40}; 25 has one value (20) strictly less than it.
	got := r.Observe(25)
	assert.Equal(t, 0.25, got)
	require.NoError(t, r.CheckInvariants())
}

func TestObserve_GrowsUntilWindowFull(t *testing.T) {
	r, err := NewOrdered[int](nil, WithWindowSize[int](3))
	require.NoError(t, err)

	assert.Equal(t, 0.0, r.Observe(5))  // {5}
	assert.Equal(t, 0.5, r.Observe(10)) // {5,10}: 1 of 2 less than 10
	assert.Equal(t, 0.0, r.Observe(1))  // {5,10,1}: 0 of 3 less than 1
	require.NoError(t, r.CheckInvariants())
	assert.Equal(t, 3, r.Len())

	// window now full; next observe evicts 5.
	r.Observe(100)
	assert.Equal(t, 3, r.Len())
	require.NoError(t, r.CheckInvariants())
}

func TestWindowRanker_Unbounded_NeverEvicts(t *testing.T) {
	r, err := NewOrdered[int](nil, WithWindowSize[int](Unbounded))
	require.NoError(t, err)
	for i := 0; i < 50; i++ {
		r.Observe(i)
	}
	assert.Equal(t, 50, r.Len())
	assert.Equal(t, 0, r.RemoveCount())
}

func TestWindowRanker_SplitCountIncreasesUnderPressure(t *testing.T) {
	r, err := NewOrdered[int](nil, WithWindowSize[int](64), WithPartitions[int](2))
	require.NoError(t, err)
	src := rand.New(rand.NewSource(3))
	for i := 0; i < 256; i++ {
		r.Observe(src.Intn(1000))
	}
	assert.Greater(t, r.SplitCount(), 0)
	require.NoError(t, r.CheckInvariants())
}

func TestWindowRanker_Destroy(t *testing.T) {
	r, err := NewOrdered[int]([]int{1, 2, 3}, WithCenteredChunks[int]())
	require.NoError(t, err)
	r.Destroy()
}

func TestWindowRanker_LoggerIsNoopWhenNil(t *testing.T) {
	r, err := NewOrdered[int]([]int{1, 2, 3})
	require.NoError(t, err)
	r.Logger(nil)
	r.Observe(4)
	require.NoError(t, r.CheckInvariants())
}

// TestWindowRanker_BothChunkRealizationsAgree drives two rankers, one
// built on each chunk realization, through the same random observation
// script and checks they report identical ranks at every step (spec.md
// §8 property 7): how a realization organizes its chunks internally must
// never change the externally observable rank sequence.
func TestWindowRanker_BothChunkRealizationsAgree(t *testing.T) {
	const n = 40
	heapR, err := NewOrdered[int](nil, WithWindowSize[int](n), WithPartitions[int](5))
	require.NoError(t, err)
	centeredR, err := NewOrdered[int](nil, WithWindowSize[int](n), WithPartitions[int](5), WithCenteredChunks[int]())
	require.NoError(t, err)

	src := rand.New(rand.NewSource(99))
	for step := 0; step < 2000; step++ {
		x := src.Intn(500)
		gotHeap := heapR.Observe(x)
		gotCentered := centeredR.Observe(x)
		require.Equal(t, gotHeap, gotCentered, "step %d: value %d", step, x)
		require.NoError(t, heapR.CheckInvariants(), "heap step %d", step)
		require.NoError(t, centeredR.CheckInvariants(), "centered step %d", step)
	}
}

func TestWindowRanker_AlreadySortedSeed(t *testing.T) {
	r, err := NewOrdered[int]([]int{1, 2, 3, 4, 5}, WithAlreadySorted[int]())
	require.NoError(t, err)
	require.NoError(t, r.CheckInvariants())
}

func TestWindowRanker_SeedLongerThanWindowKeepsOnlyTail(t *testing.T) {
	r, err := NewOrdered[int]([]int{1, 2, 3, 4, 5}, WithWindowSize[int](2))
	require.NoError(t, err)
	assert.Equal(t, 2, r.Len())
}

func TestWindowRanker_SeedScenarios(t *testing.T) {
	t.Run("insert within range", func(t *testing.T) {
		r, err := NewOrdered[int]([]int{1, 2, 3, 4, 5}, WithPartitions[int](2))
		require.NoError(t, err)
		assert.Equal(t, 0.2, r.Observe(3))
	})

	t.Run("insert above range", func(t *testing.T) {
		r, err := NewOrdered[int]([]int{1, 2, 3, 4, 5}, WithPartitions[int](2))
		require.NoError(t, err)
		assert.Equal(t, 0.8, r.Observe(6))
	})

	t.Run("insert new minimum after growing", func(t *testing.T) {
		r, err := NewOrdered[int]([]int{1, 2, 3, 4, 5}, WithPartitions[int](2))
		require.NoError(t, err)
		r.Observe(6)
		assert.Equal(t, 0.0, r.Observe(0))
	})

	t.Run("insert minimum integer", func(t *testing.T) {
		r, err := NewOrdered[int]([]int{1, 2, 3, 4, 5}, WithPartitions[int](2))
		require.NoError(t, err)
		assert.Equal(t, 0.0, r.Observe(math.MinInt))
	})

	t.Run("empty seed grows to half", func(t *testing.T) {
		r, err := NewOrdered[int](nil, WithWindowSize[int](10), WithPartitions[int](1))
		require.NoError(t, err)
		assert.Equal(t, 0.0, r.Observe(5))
		assert.Equal(t, 0.5, r.Observe(6))
	})

	t.Run("duplicate values", func(t *testing.T) {
		r, err := NewOrdered[int]([]int{3, 1, 4, 1, 5, 9, 2, 6, 5, 3}, WithPartitions[int](2))
		require.NoError(t, err)
		assert.Equal(t, 0.5, r.Observe(5))
	})
}
