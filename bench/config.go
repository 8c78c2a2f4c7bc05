package bench

import (
	"github.com/Aurorachain/go-opbench/common"
)

// DefaultPkScript is the wallet the benchmark inscribes from.
const DefaultPkScript = "512037679ea62eab55ebfd442c53c4ad46b6b75e45d8a8fa9cb31a87d0df268b029a"

// Config contains the inscription parameters and runner options.
type Config struct {
	PkScript      string
	BlockHash     common.Hash
	Timestamp     uint64
	DeployByteLen uint64 // inscription_byte_len of deployments
	CallByteLen   uint64 // inscription_byte_len of calls, the call's gas allowance basis

	Rounds    int  // times the whole suite is measured
	Verify    bool // check programs locally and compare deployed code
	CacheSize int  // generated programs kept in memory
}

// DefaultConfig contains the settings of a single-round benchmark against a
// fresh engine.
var DefaultConfig = Config{
	PkScript:      DefaultPkScript,
	Timestamp:     5,
	DeployByteLen: 10000,
	CallByteLen:   1000000,
	Rounds:        1,
	Verify:        true,
	CacheSize:     256,
}

func (c *Config) sanitize() {
	if c.PkScript == "" {
		c.PkScript = DefaultConfig.PkScript
	}
	if c.Rounds < 1 {
		c.Rounds = 1
	}
	if c.CacheSize < 1 {
		c.CacheSize = DefaultConfig.CacheSize
	}
}
