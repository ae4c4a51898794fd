package domain

// Zero overwrites b in place so derived keys and plaintext buffers do not
// linger in memory after use.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
