package sizer

import (
	"errors"
	"fmt"
	"math"
	"math/bits"

	"github.com/igefined/solana-copy-trader/internal/domain"
)

const (
	bpsDenominator = 10_000
	maxSlippage    = 100
)

var errOverflow = errors.New("arithmetic overflow")

// Sizer scales observed trades to the local budget. FeeBps is the protocol
// fee added on buys and deducted on sells.
type Sizer struct {
	FeeBps uint64
}

func New() *Sizer {
	return &Sizer{FeeBps: domain.PumpFunFeeBps}
}

// CopyBuy keeps the observed price: amount = budget * observedAmount / observedSol.
// The bound is the most lamports the buy may spend.
func (s *Sizer) CopyBuy(mint string, observedSol, observedAmount, budget, slippage uint64) (*domain.CopyOrder, error) {
	if err := validate(budget, slippage); err != nil {
		return nil, err
	}
	if observedSol == 0 || observedAmount == 0 {
		return nil, fmt.Errorf("%w: observed sol %d, observed amount %d", domain.ErrInvalidPrice, observedSol, observedAmount)
	}

	amount, err := mulDiv(budget, observedAmount, observedSol)
	if err != nil {
		return nil, fmt.Errorf("failed to size buy: %w", err)
	}
	bound, err := s.buyBound(budget, slippage)
	if err != nil {
		return nil, fmt.Errorf("failed to size buy: %w", err)
	}

	return s.order(mint, domain.OperationBuy, amount, bound, slippage), nil
}

// CopySell mirrors the declared sell and bounds its output from below.
func (s *Sizer) CopySell(mint string, declaredAmount, declaredSol, slippage uint64) (*domain.CopyOrder, error) {
	if slippage > maxSlippage {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidSlippage, slippage)
	}
	if declaredAmount == 0 {
		return nil, fmt.Errorf("%w: declared amount is zero", domain.ErrInvalidPrice)
	}

	expected, err := mulDivRound(declaredAmount, declaredSol, declaredAmount)
	if err != nil {
		return nil, fmt.Errorf("failed to size sell: %w", err)
	}
	slip, err := mulDivRound(expected, slippage, maxSlippage)
	if err != nil {
		return nil, fmt.Errorf("failed to size sell: %w", err)
	}
	fee, err := mulDivRound(expected, s.FeeBps, bpsDenominator)
	if err != nil {
		return nil, fmt.Errorf("failed to size sell: %w", err)
	}

	return s.order(mint, domain.OperationSell, declaredAmount, saturatingSub(expected, slip, fee), slippage), nil
}

// DirectBuy sizes a buy from a cached price in lamports per whole token.
func (s *Sizer) DirectBuy(mint string, priceLamports float64, decimals uint32, budget, slippage uint64) (*domain.CopyOrder, error) {
	if err := validate(budget, slippage); err != nil {
		return nil, err
	}
	if math.IsNaN(priceLamports) || math.IsInf(priceLamports, 0) || priceLamports <= 0 {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidPrice, priceLamports)
	}

	whole := math.Floor(float64(budget) / priceLamports)
	if whole >= math.MaxUint64 {
		return nil, fmt.Errorf("failed to size direct buy: %w", errOverflow)
	}
	amount, err := scale(uint64(whole), decimals)
	if err != nil {
		return nil, fmt.Errorf("failed to size direct buy: %w", err)
	}
	bound, err := s.buyBound(budget, slippage)
	if err != nil {
		return nil, fmt.Errorf("failed to size direct buy: %w", err)
	}

	return s.order(mint, domain.OperationBuy, amount, bound, slippage), nil
}

func (s *Sizer) buyBound(budget, slippage uint64) (uint64, error) {
	slip, err := mulDivRound(budget, slippage, maxSlippage)
	if err != nil {
		return 0, err
	}
	fee, err := mulDivRound(budget, s.FeeBps, bpsDenominator)
	if err != nil {
		return 0, err
	}

	bound, carry := bits.Add64(budget, slip, 0)
	bound, carry2 := bits.Add64(bound, fee, carry)
	if carry2 != 0 {
		return 0, errOverflow
	}
	return bound, nil
}

func (s *Sizer) order(mint string, op domain.Operation, amount, bound, slippage uint64) *domain.CopyOrder {
	return &domain.CopyOrder{
		Mint:        mint,
		Operation:   op,
		Amount:      amount,
		Bound:       bound,
		SlippageBps: slippage * bpsDenominator / maxSlippage,
		FeeBps:      s.FeeBps,
	}
}

func validate(budget, slippage uint64) error {
	if budget == 0 {
		return domain.ErrInvalidBudget
	}
	if slippage > maxSlippage {
		return fmt.Errorf("%w: %d", domain.ErrInvalidSlippage, slippage)
	}
	return nil
}

// mulDiv returns floor(a*b/c) with a 128-bit intermediate product.
func mulDiv(a, b, c uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi >= c {
		return 0, errOverflow
	}
	q, _ := bits.Div64(hi, lo, c)
	return q, nil
}

// mulDivRound returns a*b/c rounded half up.
func mulDivRound(a, b, c uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi >= c {
		return 0, errOverflow
	}
	q, r := bits.Div64(hi, lo, c)
	if r >= c-r {
		if q == math.MaxUint64 {
			return 0, errOverflow
		}
		q++
	}
	return q, nil
}

func scale(amount uint64, decimals uint32) (uint64, error) {
	for i := uint32(0); i < decimals; i++ {
		hi, lo := bits.Mul64(amount, 10)
		if hi != 0 {
			return 0, errOverflow
		}
		amount = lo
	}
	return amount, nil
}

func saturatingSub(value uint64, subtrahends ...uint64) uint64 {
	for _, s := range subtrahends {
		if s >= value {
			return 0
		}
		value -= s
	}
	return value
}
