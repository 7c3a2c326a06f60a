package assembler

import (
	"bytes"
	"encoding/binary"
	"fmt"

	bin "github.com/gagliardetto/binary"
)

// encodeArgs writes a prefix followed by little-endian u64 arguments.
func encodeArgs(prefix []byte, args ...uint64) ([]byte, error) {
	buf := new(bytes.Buffer)
	enc := bin.NewBinEncoder(buf)

	if err := enc.WriteBytes(prefix, false); err != nil {
		return nil, fmt.Errorf("failed to encode instruction prefix: %w", err)
	}
	for _, arg := range args {
		if err := enc.WriteUint64(arg, binary.LittleEndian); err != nil {
			return nil, fmt.Errorf("failed to encode instruction argument: %w", err)
		}
	}
	return buf.Bytes(), nil
}
