package checksum

import (
	"bytes"
	"io"
	"testing"
)

func TestSumKnownVector(t *testing.T) {
	// 0x01 ^ 0x02 ^ 0x03 ^ 0x04 = 0x04
	r := bytes.NewReader([]byte{0x01, 0x02, 0x03, 0x04})
	sum, err := Sum(r, 2)
	if err != nil {
		t.Fatalf("Sum failed: %v", err)
	}
	if sum != 0x04 {
		t.Errorf("expected 0x04, got %#x", sum)
	}
}

func TestSumRepeatable(t *testing.T) {
	r := bytes.NewReader([]byte("the quick brown fox"))

	first, err := Sum(r, 4)
	if err != nil {
		t.Fatalf("first Sum failed: %v", err)
	}
	second, err := Sum(r, 4)
	if err != nil {
		t.Fatalf("second Sum failed: %v", err)
	}
	if first != second {
		t.Errorf("checksum not stable: %d then %d", first, second)
	}

	// position must be back at the start afterwards
	pos, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		t.Fatal(err)
	}
	if pos != 0 {
		t.Errorf("file position after Sum = %d, want 0", pos)
	}
}

func TestSumIgnoresStartingPosition(t *testing.T) {
	data := []byte{0x10, 0x20, 0x40}
	r := bytes.NewReader(data)
	if _, err := r.Seek(2, io.SeekStart); err != nil {
		t.Fatal(err)
	}

	sum, err := Sum(r, 2)
	if err != nil {
		t.Fatalf("Sum failed: %v", err)
	}
	if sum != 0x70 {
		t.Errorf("expected fold over whole file 0x70, got %#x", sum)
	}
}

func TestSumPartialFinalBlock(t *testing.T) {
	// 5 bytes with block size 4: the final short block still counts.
	r := bytes.NewReader([]byte{0x01, 0x01, 0x01, 0x01, 0xFF})
	sum, err := Sum(r, 4)
	if err != nil {
		t.Fatalf("Sum failed: %v", err)
	}
	if sum != 0xFF {
		t.Errorf("expected 0xFF, got %#x", sum)
	}
}

func TestSumEmpty(t *testing.T) {
	sum, err := Sum(bytes.NewReader(nil), 2)
	if err != nil {
		t.Fatalf("Sum failed: %v", err)
	}
	if sum != 0 {
		t.Errorf("empty file should fold to 0, got %#x", sum)
	}
}

func TestSumRejectsBadBlockSize(t *testing.T) {
	if _, err := Sum(bytes.NewReader([]byte{1}), 0); err == nil {
		t.Fatal("expected error for block size 0")
	}
	if _, err := Sum(bytes.NewReader([]byte{1}), -3); err == nil {
		t.Fatal("expected error for negative block size")
	}
}
