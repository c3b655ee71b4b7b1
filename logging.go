package windowrank

import (
	"io"

	"github.com/joeycumines/izerolog"
	"github.com/joeycumines/logiface"
	"github.com/rs/zerolog"
)

// Logger receives optional split/evict/invariant-sweep diagnostics. It is
// pure observability: nothing in this package branches on whether a Logger
// is attached, beyond the nil check that makes logging a no-op. It is
// wired to github.com/rs/zerolog through github.com/joeycumines/izerolog,
// the same logiface/zerolog pairing this module's corpus (go-utilpkg) uses
// for its own structured logging.
type Logger = *logiface.Logger[*izerolog.Event]

// NewZerologLogger builds a Logger that writes JSON lines to w at level.
func NewZerologLogger(w io.Writer, level logiface.Level) Logger {
	return izerolog.L.New(
		izerolog.L.WithZerolog(zerolog.New(w)),
		izerolog.L.WithLevel(level),
	)
}

func logSplit(l Logger, chunkIndex, leftCount, rightCount int) {
	if l == nil {
		return
	}
	l.Info().
		Int(`chunk_index`, chunkIndex).
		Int(`left_count`, leftCount).
		Int(`right_count`, rightCount).
		Log(`chunk split`)
}

func logChunkRemoved(l Logger, chunkIndex int) {
	if l == nil {
		return
	}
	l.Info().Int(`chunk_index`, chunkIndex).Log(`chunk removed`)
}

func logInvariantViolation(l Logger, err error) {
	if l == nil || err == nil {
		return
	}
	l.Err().Str(`error`, err.Error()).Log(`invariant violation`)
}
