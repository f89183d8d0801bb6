package crypto

// Select returns a if mask is true, b otherwise, touching every byte of both
// slices regardless of which branch is taken. a and b must have equal
// length; the caller is expected to have already established that via a
// length check made on public data.
func Select(mask bool, a, b []byte) []byte {
	var m byte
	if mask {
		m = 0xFF
	}
	out := make([]byte, len(a))
	for i := range a {
		out[i] = (a[i] & m) | (b[i] &^ m)
	}
	return out
}
