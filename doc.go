// Package windowrank computes a streaming strict-less-than rank (an
// empirical, left-open CDF) of numeric values against a trailing window of
// the most recent N observations.
//
// Each call to WindowRanker.Observe inserts a value at the right edge of the
// window and, once the window is full, evicts the oldest value from the left
// edge, returning the fraction of the post-update window strictly less than
// the inserted value. The window is maintained as a partitionSet: the sorted
// window is sliced into a handful of contiguous, locally sorted chunks, so a
// single observation only has to touch one chunk's worth of values plus a
// linear sweep of chunk bookkeeping, rather than the whole window.
package windowrank
