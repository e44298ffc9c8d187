// Package shared provides small helpers used across the client.
package shared

// WipeByteArray overwrites the contents of the provided byte slice with zeros.
// Secrets read from the terminal are wiped once they have been copied into a
// request.
//
// If the slice is nil, the function does nothing.
func WipeByteArray(b []byte) {
	if b == nil {
		return
	}
	for i := range b {
		b[i] = 0
	}
}
