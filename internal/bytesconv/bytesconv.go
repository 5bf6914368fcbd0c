package bytesconv

import "unsafe"

// StringToBytes converts a string to a byte slice without a memory allocation.
// The returned slice must not be mutated.
func StringToBytes(s string) []byte {
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

// BytesToString converts a byte slice to a string without a memory allocation.
// The input slice must not be mutated afterwards.
func BytesToString(b []byte) string {
	return unsafe.String(unsafe.SliceData(b), len(b))
}
