package domain

import (
	"fmt"
	"io"
)

const (
	PNRLength   = 6
	pnrAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	// largest multiple of len(pnrAlphabet) that fits in a byte
	pnrByteLimit = 252
)

// NewPNR draws PNRLength symbols uniformly from [A-Z0-9] using r, which
// should be crypto/rand.Reader outside tests.
func NewPNR(r io.Reader) (string, error) {
	out := make([]byte, 0, PNRLength)
	buf := make([]byte, PNRLength*2)
	for len(out) < PNRLength {
		if _, err := io.ReadFull(r, buf); err != nil {
			return "", fmt.Errorf("read pnr entropy: %w", err)
		}
		for _, b := range buf {
			if b >= pnrByteLimit {
				continue
			}
			out = append(out, pnrAlphabet[int(b)%len(pnrAlphabet)])
			if len(out) == PNRLength {
				break
			}
		}
	}
	return string(out), nil
}

func IsValidPNR(s string) bool {
	if len(s) != PNRLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= 'A' && c <= 'Z') && !(c >= '0' && c <= '9') {
			return false
		}
	}
	return true
}
