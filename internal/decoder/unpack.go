package decoder

import (
	"encoding/binary"

	"github.com/mr-tron/base58"

	"github.com/igefined/solana-copy-trader/internal/domain"
)

// UnpackU64 reads a little-endian u64 and returns the remaining bytes.
func UnpackU64(input []byte) (uint64, []byte, error) {
	if len(input) < 8 {
		return 0, nil, domain.ErrInvalidInstructionData
	}
	return binary.LittleEndian.Uint64(input[:8]), input[8:], nil
}

func decodeData(ix Instruction) ([]byte, bool) {
	data, ok := ix.Data()
	if !ok {
		return nil, false
	}
	decoded, err := base58.Decode(data)
	if err != nil {
		return nil, false
	}
	return decoded, true
}
