// Package secret masks credentials for display.
package secret

// Mask hides the middle of s, keeping a few characters at each end so that
// two tokens can still be told apart:
//
//	len > 15  keeps 5 at each end
//	len > 10  keeps 3
//	len > 3   keeps 1
//	otherwise everything is hidden
//
// The empty string stays empty, meaning no secret is set.
func Mask(s string) string {
	var keep int
	switch n := len(s); {
	case n == 0:
		return ""
	case n > 15:
		keep = 5
	case n > 10:
		keep = 3
	case n > 3:
		keep = 1
	default:
		return "***"
	}
	return s[:keep] + "***" + s[len(s)-keep:]
}

// MaskPtr is like Mask but returns nil for an empty secret, which encodes
// as JSON null.
func MaskPtr(s string) *string {
	if s == "" {
		return nil
	}
	m := Mask(s)
	return &m
}
