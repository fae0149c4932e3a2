package indexer

import "fmt"

// MaxWindowSize caps the block span of a single eth_getLogs query.
const MaxWindowSize uint64 = 10000

// Window is a half-open block range [Start, End).
type Window struct {
	Start uint64
	End   uint64
}

// Last returns the inclusive upper block of the window, as used for toBlock.
func (w Window) Last() uint64 {
	return w.End - 1
}

// SplitWindows splits [start, end) into consecutive windows of at most step
// blocks. The last window ends exactly at end.
func SplitWindows(start, end, step uint64) ([]Window, error) {
	if step == 0 {
		return nil, fmt.Errorf("window size must be greater than zero")
	}
	if end < start {
		return nil, fmt.Errorf("end block must be >= start block")
	}

	windows := make([]Window, 0, (end-start+step-1)/step)
	for lo := start; lo < end; {
		hi := end
		if end-lo > step {
			hi = lo + step
		}
		windows = append(windows, Window{Start: lo, End: hi})
		lo = hi
	}

	return windows, nil
}
