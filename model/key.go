package model

import "strconv"

// Key identifies a training example within a dataset.
//
// Keys are unique within one dataset and stable across coordinate-descent
// iterations so that score tables produced by other model components join
// back onto the same records.
type Key uint64

// String returns the decimal form of the key.
func (k Key) String() string {
	return strconv.FormatUint(uint64(k), 10)
}
