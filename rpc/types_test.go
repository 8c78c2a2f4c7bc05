package rpc

import (
	"encoding/json"
	"testing"
)

func TestBlockNumberJSONUnmarshal(t *testing.T) {
	tests := []struct {
		input    string
		mustFail bool
		expected BlockNumber
	}{
		0:  {`"0x"`, true, BlockNumber(0)},
		1:  {`"0x0"`, false, BlockNumber(0)},
		2:  {`"0X1"`, false, BlockNumber(1)},
		3:  {`"0x00"`, false, BlockNumber(0)},
		4:  {`"0x01"`, false, BlockNumber(1)},
		5:  {`"0x1"`, false, BlockNumber(1)},
		6:  {`"0x12"`, false, BlockNumber(18)},
		7:  {`"0x7fffffffffffffff"`, false, BlockNumber(0x7fffffffffffffff)},
		8:  {`"0x8000000000000000"`, true, BlockNumber(0)},
		9:  {"0", false, BlockNumber(0)},
		10: {`"ff"`, true, BlockNumber(0)},
		11: {`"pending"`, false, PendingBlockNumber},
		12: {`"latest"`, false, LatestBlockNumber},
		13: {`"earliest"`, false, EarliestBlockNumber},
		14: {`"42"`, false, BlockNumber(42)},
		15: {`someString`, true, BlockNumber(0)},
		16: {`""`, true, BlockNumber(0)},
		17: {``, true, BlockNumber(0)},
	}

	for i, test := range tests {
		var num BlockNumber
		err := json.Unmarshal([]byte(test.input), &num)
		if test.mustFail && err == nil {
			t.Errorf("Test %d should fail", i)
			continue
		}
		if !test.mustFail && err != nil {
			t.Errorf("Test %d should pass but got err: %v", i, err)
			continue
		}
		if num != test.expected {
			t.Errorf("Test %d got unexpected value, want %d, got %d", i, test.expected, num)
		}
	}
}

func TestBlockNumberMarshal(t *testing.T) {
	tests := map[BlockNumber]string{
		LatestBlockNumber:  `"latest"`,
		PendingBlockNumber: `"pending"`,
		BlockNumber(0):     `"0"`,
		BlockNumber(1234):  `"1234"`,
	}
	for bn, want := range tests {
		got, err := json.Marshal(bn)
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != want {
			t.Errorf("%d: got %s, want %s", int64(bn), got, want)
		}
	}
}
