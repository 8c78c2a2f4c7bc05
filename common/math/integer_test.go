package math

import (
	"encoding/json"
	"testing"
)

func TestParseUint64(t *testing.T) {
	tests := []struct {
		input string
		num   uint64
		ok    bool
	}{
		{"", 0, true},
		{"0", 0, true},
		{"0x0", 0, true},
		{"12345678", 12345678, true},
		{"0x12345678", 0x12345678, true},
		{"0X12345678", 0x12345678, true},
		{"0123456789", 123456789, true},
		{"0x", 0, false},
		{"0x10000000000000000", 0, false},
		{"18446744073709551616", 0, false},
		{"abc", 0, false},
	}
	for _, test := range tests {
		num, ok := ParseUint64(test.input)
		if ok != test.ok {
			t.Errorf("ParseUint64(%q) -> ok = %t, want %t", test.input, ok, test.ok)
			continue
		}
		if ok && num != test.num {
			t.Errorf("ParseUint64(%q) -> %d, want %d", test.input, num, test.num)
		}
	}
}

func TestHexOrDecimal64JSON(t *testing.T) {
	var v struct {
		A HexOrDecimal64 `json:"a"`
		B HexOrDecimal64 `json:"b"`
		C HexOrDecimal64 `json:"c"`
	}
	if err := json.Unmarshal([]byte(`{"a":"0x10","b":"16","c":16}`), &v); err != nil {
		t.Fatal(err)
	}
	if v.A != 16 || v.B != 16 || v.C != 16 {
		t.Errorf("got %d %d %d, want 16 16 16", v.A, v.B, v.C)
	}
	if err := json.Unmarshal([]byte(`{"a":"0xzz"}`), &v); err == nil {
		t.Error("expected error for invalid hex")
	}
}

func TestOverflow(t *testing.T) {
	if _, overflow := SafeAdd(MaxUint64, 1); !overflow {
		t.Error("expected add overflow")
	}
	if _, overflow := SafeMul(MaxUint64, 2); !overflow {
		t.Error("expected mul overflow")
	}
	if _, overflow := SafeSub(0, 1); !overflow {
		t.Error("expected sub underflow")
	}
	if v, overflow := SafeMul(0, 2); overflow || v != 0 {
		t.Error("unexpected overflow multiplying by zero")
	}
}
