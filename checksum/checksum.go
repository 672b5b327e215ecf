// Package checksum implements the XOR-fold file checksum used to verify a
// transferred file's integrity without re-sending its contents. Client and
// server run the identical fold, so equal values mean equal bytes with
// coarse confidence: this is an integrity spot check, not cryptography.
package checksum

import (
	"errors"
	"fmt"
	"io"
)

// DefaultBlockSize is the read granularity the demo tooling uses.
const DefaultBlockSize = 2

var errBlockSize = errors.New("checksum: block size must be positive")

// Sum seeks to the start of f, XOR-folds every byte into a 16-bit
// accumulator reading blockSize bytes at a time, and seeks back to the
// start before returning. The file position is therefore 0 on both entry
// paths and on return, so back-to-back calls are stable.
func Sum(f io.ReadSeeker, blockSize int) (int16, error) {
	if blockSize <= 0 {
		return -1, errBlockSize
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return -1, fmt.Errorf("checksum: rewind: %w", err)
	}

	buf := make([]byte, blockSize)
	var sum int16
	for {
		n, err := f.Read(buf)
		for _, b := range buf[:n] {
			sum ^= int16(b)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return -1, fmt.Errorf("checksum: read: %w", err)
		}
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return -1, fmt.Errorf("checksum: rewind: %w", err)
	}
	return sum, nil
}
