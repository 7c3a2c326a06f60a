package decoder

import (
	computebudget "github.com/gagliardetto/solana-go/programs/compute-budget"

	"github.com/igefined/solana-copy-trader/internal/domain"
)

// ComputeData extracts the compute unit limit and price set by the copied
// transaction. Payloads that do not decode are skipped.
func ComputeData(event *Event) (domain.ComputeHints, bool) {
	instructions, ok := event.Instructions()
	if !ok {
		return domain.ComputeHints{}, false
	}

	var hints domain.ComputeHints
	for _, ix := range instructions {
		if !ix.IsProgram(domain.ComputeBudgetProgram.String()) {
			continue
		}
		data, ok := decodeData(ix)
		if !ok || len(data) == 0 {
			continue
		}
		decoded, err := computebudget.DecodeInstruction(nil, data)
		if err != nil {
			continue
		}
		switch impl := decoded.Impl.(type) {
		case *computebudget.SetComputeUnitLimit:
			hints.UnitLimit = impl.Units
		case *computebudget.SetComputeUnitPrice:
			hints.UnitPrice = impl.MicroLamports
		}
	}
	return hints, true
}
