package core

// itoa converts an integer to a string without the fmt package.
func itoa(n int64) string {
	if n >= 0 {
		return utoa64(uint64(n))
	}
	// -n overflows for the minimum value; go through uint64 instead
	return "-" + utoa64(uint64(-(n+1))+1)
}

// utoa converts an unsigned integer to a string
func utoa(n uint32) string {
	return utoa64(uint64(n))
}

func utoa64(n uint64) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	pos := len(buf)
	for n > 0 {
		pos--
		buf[pos] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[pos:])
}

// hex8 renders b as two lowercase hex digits.
func hex8(b byte) string {
	const digits = "0123456789abcdef"
	return string([]byte{digits[b>>4], digits[b&0x0f]})
}
