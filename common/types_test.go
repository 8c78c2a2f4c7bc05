package common

import (
	"encoding/json"
	"testing"
)

func TestHashJSON(t *testing.T) {
	in := `"0x00000000000000000000000000000000000000000000000000000000000000ff"`
	var h Hash
	if err := json.Unmarshal([]byte(in), &h); err != nil {
		t.Fatal(err)
	}
	if h[HashLength-1] != 0xff {
		t.Errorf("unexpected hash %x", h)
	}
	out, _ := json.Marshal(h)
	if string(out) != in {
		t.Errorf("got %s, want %s", out, in)
	}
	for _, bad := range []string{`"0x00"`, `"0xzz00000000000000000000000000000000000000000000000000000000000000"`} {
		if err := json.Unmarshal([]byte(bad), &h); err == nil {
			t.Errorf("%s: expected error", bad)
		}
	}
}

func TestAddress(t *testing.T) {
	const hexAddr = "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"
	a := HexToAddress(hexAddr)
	if a.Hex() != hexAddr {
		t.Errorf("got %s", a.Hex())
	}
	var dec Address
	if err := dec.UnmarshalText([]byte(hexAddr)); err != nil || dec != a {
		t.Errorf("UnmarshalText: %v, %x", err, dec)
	}
	tests := []struct {
		input string
		want  bool
	}{
		{hexAddr, true},
		{"5aaeb6053f3e94c9b9a09f33669435e7ef1beaed", true},
		{"0x5aaeb6053f3e94c9b9a09f33669435e7ef1beae", false},
		{"0xxaaeb6053f3e94c9b9a09f33669435e7ef1beaed", false},
	}
	for _, test := range tests {
		if got := IsHexAddress(test.input); got != test.want {
			t.Errorf("IsHexAddress(%s) = %t", test.input, got)
		}
	}
	if b := BytesToAddress([]byte{1, 2}); b[AddressLength-1] != 2 || b[AddressLength-2] != 1 {
		t.Errorf("BytesToAddress padded wrong: %x", b)
	}
}
