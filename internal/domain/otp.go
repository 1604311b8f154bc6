package domain

import "strings"

// OTPLength is the number of digits in a one-time password.
const OTPLength = 6

// OTPCode holds the digits entered so far. Each slot is empty or a single decimal digit.
type OTPCode [OTPLength]string

// ValidOTPDigit reports whether v may be stored in an OTP slot.
func ValidOTPDigit(v string) bool {
	if v == "" {
		return true
	}
	return len(v) == 1 && v[0] >= '0' && v[0] <= '9'
}

// Set stores v at index i. Anything but an empty string or a single digit is
// rejected and the slot is left unchanged.
func (c *OTPCode) Set(i int, v string) bool {
	if i < 0 || i >= OTPLength || !ValidOTPDigit(v) {
		return false
	}
	c[i] = v
	return true
}

// Complete reports whether every slot is filled.
func (c OTPCode) Complete() bool {
	for _, d := range c {
		if d == "" {
			return false
		}
	}
	return true
}

// String concatenates the digits.
func (c OTPCode) String() string {
	return strings.Join(c[:], "")
}
