package common

// WipeByteArray overwrites the buffer with zeros. Callers use it to clear
// password bytes once they are no longer needed. Safe to call with nil.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
