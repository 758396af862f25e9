package tensor

import "fmt"

// SizeMismatchError reports a data write or copy whose byte size does not
// match the target tensor. It is detected before any device call is issued,
// so the target's contents are unchanged.
type SizeMismatchError struct {
	Want int // byte size the target requires
	Got  int // byte size the caller supplied
}

func (e *SizeMismatchError) Error() string {
	return fmt.Sprintf("tensor: size mismatch: want %d bytes, got %d", e.Want, e.Got)
}
