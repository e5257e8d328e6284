package utils

import (
	"encoding/binary"
	"strconv"

	"lukechampine.com/blake3"
)

// Blake3Roll derives a uniform value in [0,1) from a BLAKE3 digest of
// (game, turn, subject). The same inputs always yield the same roll, so a
// replayed turn produces identical loot.
type Blake3Roll struct{}

func (Blake3Roll) Roll(gameID string, turn int, subject string) float64 {
	sum := blake3.Sum256([]byte(gameID + ":" + strconv.Itoa(turn) + ":" + subject))
	// top 53 bits fill a float64 mantissa exactly
	return float64(binary.BigEndian.Uint64(sum[:8])>>11) / (1 << 53)
}
