package common

import (
	"encoding/hex"
	"strings"
)

// ToHex returns the 0x-prefixed hex encoding of b. An empty slice encodes as "0x".
func ToHex(b []byte) string {
	return "0x" + Bytes2Hex(b)
}

// FromHex decodes a hex string with or without the 0x prefix. Odd-length input
// is left-padded with a zero nibble. Invalid input yields nil.
func FromHex(s string) []byte {
	s = TrimHexPrefix(s)
	if len(s)%2 == 1 {
		s = "0" + s
	}
	return Hex2Bytes(s)
}

// TrimHexPrefix strips a leading 0x or 0X.
func TrimHexPrefix(s string) string {
	if Has0xPrefix(s) {
		return s[2:]
	}
	return s
}

func CopyBytes(b []byte) (copiedBytes []byte) {
	if b == nil {
		return nil
	}
	copiedBytes = make([]byte, len(b))
	copy(copiedBytes, b)

	return
}

func Has0xPrefix(str string) bool {
	return len(str) >= 2 && str[0] == '0' && (str[1] == 'x' || str[1] == 'X')
}

func isHexCharacter(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

// IsHex reports whether str is an even-length string of hex digits.
func IsHex(str string) bool {
	if len(str)%2 != 0 {
		return false
	}
	for _, c := range []byte(str) {
		if !isHexCharacter(c) {
			return false
		}
	}
	return true
}

func Bytes2Hex(d []byte) string {
	return hex.EncodeToString(d)
}

func Hex2Bytes(str string) []byte {
	h, _ := hex.DecodeString(str)

	return h
}

// DecodeHex is the strict variant of FromHex: the prefix is optional but the
// remainder must be valid, even-length hex.
func DecodeHex(s string) ([]byte, error) {
	return hex.DecodeString(TrimHexPrefix(s))
}

// NormalizeHex lowercases s and strips the 0x prefix.
func NormalizeHex(s string) string {
	return strings.ToLower(TrimHexPrefix(s))
}

func LeftPadBytes(slice []byte, l int) []byte {
	if l <= len(slice) {
		return slice
	}

	padded := make([]byte, l)
	copy(padded[l-len(slice):], slice)

	return padded
}
