package domain

// Zero overwrites the buffer with zero bytes. Callers defer it so plaintext
// password and secret material is wiped on every exit path, including errors.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
