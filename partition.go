package windowrank

// chunkFactory selects a chunk realization (§4.2: heap-backed vs
// centered-buffer), both satisfying the same chunk[T] contract and
// interchangeable behind it (spec.md §1, §9).
type chunkFactory[T any] interface {
	New(nominal int, cmp Comparator[T]) chunk[T]
	NewFrom(values []T, nominal int, cmp Comparator[T]) chunk[T]
}

type heapChunkFactory[T any] struct{}

func (heapChunkFactory[T]) New(nominal int, cmp Comparator[T]) chunk[T] {
	return newHeapChunk[T](nominal, cmp)
}

func (heapChunkFactory[T]) NewFrom(values []T, nominal int, cmp Comparator[T]) chunk[T] {
	return newHeapChunkFrom(values, nominal, cmp)
}

type centeredChunkFactory[T any] struct{}

func (centeredChunkFactory[T]) New(nominal int, cmp Comparator[T]) chunk[T] {
	return newCenteredChunk[T](nominal, cmp)
}

func (centeredChunkFactory[T]) NewFrom(values []T, nominal int, cmp Comparator[T]) chunk[T] {
	return newCenteredChunkFromValues(values, nominal, cmp)
}

// releaser is implemented by chunk realizations that hold a deterministic,
// releasable allocation (only centeredChunk; heapChunk relies on the
// garbage collector, per spec.md §6's destroy semantics).
type releaser interface {
	Release()
}

func releaseChunk[T any](c chunk[T]) {
	if r, ok := any(c).(releaser); ok {
		r.Release()
	}
}

// partitionSet is an ordered sequence of chunks covering the live window,
// implementing §4.3.
type partitionSet[T any] struct {
	cmp         Comparator[T]
	factory     chunkFactory[T]
	chunks      []chunk[T]
	nominal     int
	splitCount  int
	removeCount int
	logger      Logger
}

func (p *partitionSet[T]) SetLogger(l Logger) { p.logger = l }

func newPartitionSet[T any](sortedSeed []T, k0, n int, cmp Comparator[T], factory chunkFactory[T]) *partitionSet[T] {
	if k0 < 1 {
		k0 = 1
	}
	nominal := nominalSize(ceilDiv(n, k0))

	p := &partitionSet[T]{cmp: cmp, factory: factory, nominal: nominal}

	total := len(sortedSeed)
	if total == 0 {
		p.chunks = []chunk[T]{factory.New(nominal, cmp)}
		return p
	}

	// A chunk that is live must hold at least one value (spec.md §3), so
	// never split the seed into more pieces than it has elements.
	k := k0
	if k > total {
		k = total
	}

	base := total / k
	rem := total % k
	pos, lb := 0, 0
	for i := 0; i < k; i++ {
		size := base
		if i == k-1 {
			size += rem
		}
		c := factory.NewFrom(sortedSeed[pos:pos+size], nominal, cmp)
		c.SetLowerBound(lb)
		p.chunks = append(p.chunks, c)
		pos += size
		lb += size
	}
	return p
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return a
	}
	return (a + b - 1) / b
}

// findOwner returns the smallest index i with chunks[i].Highest() >= v, or
// K-1 if no chunk qualifies (so a new maximum always routes to the last
// chunk). It shares the branchless search primitive used by LowerBound and
// UpperBound (spec.md §9 Open Question O3), rather than reimplementing the
// loop against chunks[i].Highest().
func (p *partitionSet[T]) findOwner(v T) int {
	k := len(p.chunks)
	if k == 1 && p.chunks[0].Count() == 0 {
		return 0
	}
	return lowerBoundIndex(0, k-1, func(i int) bool {
		return p.cmp(p.chunks[i].Highest(), v) >= 0
	})
}

// apply performs the insert (and, if evictValue is non-nil, the remove) of
// one observe() call as a single logical transaction (spec.md §4.3/§5).
func (p *partitionSet[T]) apply(insertValue T, evictValue *T) {
	iIns := p.findOwner(insertValue)
	if p.chunks[iIns].IsFull() {
		right, insertedRight := p.chunks[iIns].SplitAndInsert(insertValue)
		leftCount := p.chunks[iIns].Count()
		p.insertChunkAt(iIns+1, right)
		logSplit(p.logger, iIns, leftCount, right.Count())
		if insertedRight {
			iIns++
		}
		p.splitCount++
	} else {
		p.chunks[iIns].Insert(insertValue)
	}

	beginInc := iIns + 1
	var beginDec int

	if evictValue != nil {
		iRem := p.findOwner(*evictValue)
		if p.chunks[iRem].Count() == 1 {
			p.removeChunkAt(iRem)
			logChunkRemoved(p.logger, iRem)
			p.removeCount++
			beginDec = iRem
			if beginInc > iRem {
				beginInc--
				iIns--
			}
		} else {
			p.chunks[iRem].Remove(*evictValue)
			beginDec = iRem + 1
		}
	} else {
		beginDec = len(p.chunks)
	}

	switch {
	case beginInc < beginDec:
		for j := beginInc; j < beginDec; j++ {
			p.chunks[j].SetLowerBound(p.chunks[j].LowerBound() + 1)
		}
	case beginDec < beginInc:
		for j := beginDec; j < beginInc; j++ {
			p.chunks[j].SetLowerBound(p.chunks[j].LowerBound() - 1)
		}
	}
}

// lowerBound returns the count of elements in the window strictly less
// than v (spec.md §4.3).
func (p *partitionSet[T]) lowerBound(v T) int {
	i := p.findOwner(v)
	return p.chunks[i].LowerBound() + p.chunks[i].LocalLowerBound(v)
}

func (p *partitionSet[T]) insertChunkAt(i int, c chunk[T]) {
	p.chunks = append(p.chunks, nil)
	copy(p.chunks[i+1:], p.chunks[i:])
	p.chunks[i] = c
}

func (p *partitionSet[T]) removeChunkAt(i int) {
	releaseChunk[T](p.chunks[i])
	copy(p.chunks[i:], p.chunks[i+1:])
	p.chunks = p.chunks[:len(p.chunks)-1]
}

func (p *partitionSet[T]) occupancy() int {
	n := 0
	for _, c := range p.chunks {
		n += c.Count()
	}
	return n
}

func (p *partitionSet[T]) destroy() {
	for _, c := range p.chunks {
		releaseChunk[T](c)
	}
	p.chunks = nil
}
