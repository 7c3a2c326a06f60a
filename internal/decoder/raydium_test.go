package decoder

import (
	"context"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/igefined/solana-copy-trader/internal/domain"
)

type fakeClassifier struct {
	trade *domain.RaydiumTrade
	err   error
	seen  *domain.RaydiumAccounts
}

func (f *fakeClassifier) Classify(_ context.Context, accounts *domain.RaydiumAccounts) (*domain.RaydiumTrade, error) {
	f.seen = accounts
	return f.trade, f.err
}

var raydiumFixtures = []struct {
	name             string
	file             string
	topLevel         bool
	accounts         int
	ammID            string
	targetOrders     string
	poolCoin         string
	vaultSigner      string
	userSource       string
	userDestination  string
	owner            string
	amountIn         uint64
	minimumAmountOut uint64
	amounts          domain.RaydiumAmounts
	compute          domain.ComputeHints
}{
	{
		name:             "direct",
		file:             "raydium_direct.json",
		topLevel:         true,
		accounts:         18,
		ammID:            "E77wHMJyMDCoDGUNCefq5pJy71nCc1ccHJcM498WyE1K",
		targetOrders:     "E99mHFsPEt3Tyuy7jpRefGURKTppTL82VBecAaEJazuR",
		poolCoin:         "5rQyXNJHoZnWygAMyK5gpQjcL6YfweML3yfiX3sZa2Vz",
		vaultSigner:      "Gf2r36HC4FgcFGSzx4odsrYV4zaVoFgWK4wfyAmVtqRK",
		userSource:       "889uT38bWbxQgnoUAL3CcjNJ5FuobH6tpkR4HMT8v5np",
		userDestination:  "urU53gb4Rbdg611pGsfF17yttNvo4PYwTF8b82nMigy",
		owner:            "9txcdTtZaHUsT55kKmgivkfcdnP4tGppqN7tUAjpjVj5",
		amountIn:         200000000,
		minimumAmountOut: 1300453585948,
		amounts:          domain.RaydiumAmounts{SourceAmount: 200000000, DestAmount: 1932854460806},
		compute:          domain.ComputeHints{UnitLimit: 300000, UnitPrice: 166666},
	},
	{
		name:             "through jupiter aggregator",
		file:             "raydium_jupiter.json",
		accounts:         17,
		ammID:            "7rKBZVaas5qjWFMsAJryNH7iUb12FKEWQCccZi7KRr45",
		targetOrders:     domain.DefaultPubkey,
		poolCoin:         "iab4NSVEAztnQnNAoGFDUoCtq85LsKx14ucKZAhpXFp",
		vaultSigner:      "7rKBZVaas5qjWFMsAJryNH7iUb12FKEWQCccZi7KRr45",
		userSource:       "8gdnTCgXmh4D7WigAZd3nx7ee59Kx2CKrBLC3LrTPNvM",
		userDestination:  "3ygb59EqRLxJScSjM8JFRKFkTLUkJNETxnNJe6SiEWkZ",
		owner:            "9dVoKCQjWfy9cRZN81ApLHzhTbLWydhu9nQov1yHd7XQ",
		amountIn:         32657164,
		minimumAmountOut: 0,
		amounts:          domain.RaydiumAmounts{SourceAmount: 32657164, DestAmount: 70119143270},
		compute:          domain.ComputeHints{UnitLimit: 78952, UnitPrice: 120602},
	},
	{
		name:             "through okdex aggregator",
		file:             "raydium_okdex.json",
		accounts:         18,
		ammID:            "HRWPXWC3ZGf4mGQgDJvPfzHY4e8GyTy6VPtdZSo6j4K7",
		targetOrders:     "H1eyzdEvA5iZa8c6XbCMPik8EJ5v4objGCu8QhihtCw3",
		poolCoin:         "C52Yxg2Kh4G7iUHLhn4VsvAaS9EVWZ62drc2g3gzson7",
		vaultSigner:      "5Q544fKrFoe6tsEbD7S8EmxGTJYAKtTVhAW5Q5pge4j1",
		userSource:       "3wAz4mwNprxDNGtpEFbdgzfvVtpx5xKt7meEFsDENxy5",
		userDestination:  "AKZ7xX9C3MvPt7B21qRHMSfXkAKc1wLpni1WsE4Cvhrc",
		owner:            "4cUmct5JeXGiArfeTbpJz39rQfHD4YzstUMqPaMTfad9",
		amountIn:         84722365,
		minimumAmountOut: 1,
		amounts:          domain.RaydiumAmounts{SourceAmount: 84722365, DestAmount: 173528152404},
		compute:          domain.ComputeHints{UnitLimit: 147000, UnitPrice: 484524},
	},
}

func TestFindRaydiumSwap(t *testing.T) {
	for _, tt := range raydiumFixtures {
		t.Run(tt.name, func(t *testing.T) {
			event := loadEvent(t, tt.file)

			ix, ok := FindRaydiumSwap(event)
			require.True(t, ok)

			accounts, ok := ix.Accounts()
			require.True(t, ok)
			assert.Len(t, accounts, tt.accounts)

			topLevel := false
			instructions, _ := event.Instructions()
			for _, top := range instructions {
				if top.IsProgram(domain.RaydiumAmmProgramID.String()) {
					topLevel = true
				}
			}
			assert.Equal(t, tt.topLevel, topLevel)
		})
	}
}

func TestRaydiumAccounts(t *testing.T) {
	for _, tt := range raydiumFixtures {
		t.Run(tt.name, func(t *testing.T) {
			ix, ok := FindRaydiumSwap(loadEvent(t, tt.file))
			require.True(t, ok)

			accounts, ok := RaydiumAccounts(ix)
			require.True(t, ok)
			assert.Equal(t, tt.ammID, accounts.AmmID)
			assert.Equal(t, tt.targetOrders, accounts.AmmTargetOrders)
			assert.Equal(t, tt.poolCoin, accounts.PoolCoinTokenAccount)
			assert.Equal(t, tt.vaultSigner, accounts.SerumVaultSigner)
			assert.Equal(t, tt.userSource, accounts.UserSourceTokenAccount)
			assert.Equal(t, tt.userDestination, accounts.UserDestinationTokenAccount)
			assert.Equal(t, tt.owner, accounts.UserSourceOwner)
		})
	}
}

func TestRaydiumAccountsRejectsUnexpectedLength(t *testing.T) {
	for _, size := range []int{0, 4, 16, 19} {
		accounts := make([]any, size)
		for i := range accounts {
			accounts[i] = "acc"
		}
		ix := Instruction{node: map[string]any{"accounts": accounts}}

		_, ok := RaydiumAccounts(ix)
		assert.False(t, ok, "size %d", size)
	}
}

func TestRaydiumAmounts(t *testing.T) {
	for _, tt := range raydiumFixtures {
		t.Run(tt.name, func(t *testing.T) {
			event := loadEvent(t, tt.file)
			ix, ok := FindRaydiumSwap(event)
			require.True(t, ok)
			accounts, ok := RaydiumAccounts(ix)
			require.True(t, ok)

			amounts, ok := RaydiumAmounts(event, accounts)
			require.True(t, ok)
			assert.Equal(t, tt.amounts, *amounts)
		})
	}
}

func TestRaydiumAmountsSumsTransfers(t *testing.T) {
	payload := `{"params":{"result":{"transaction":{"meta":{"innerInstructions":[
		{"instructions":[
			{"programId":"TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA","parsed":{"info":{"amount":"10","source":"src","destination":"pool"}}},
			{"programId":"TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA","parsed":{"info":{"amount":"bad","source":"src","destination":"pool"}}}
		]},
		{"instructions":[
			{"programId":"TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA","parsed":{"info":{"amount":"5","source":"src","destination":"pool"}}},
			{"programId":"TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA","parsed":{"info":{"amount":"7","source":"pool","destination":"dst"}}},
			{"programId":"11111111111111111111111111111111","parsed":{"info":{"lamports":99,"source":"src","destination":"dst"}}}
		]}
	]}}}}}`
	event, err := ParseEvent([]byte(payload))
	require.NoError(t, err)

	amounts, ok := RaydiumAmounts(event, &domain.RaydiumAccounts{
		UserSourceTokenAccount:      "src",
		UserDestinationTokenAccount: "dst",
	})
	require.True(t, ok)
	assert.Equal(t, domain.RaydiumAmounts{SourceAmount: 15, DestAmount: 7}, *amounts)
}

func TestRaydiumData(t *testing.T) {
	for _, tt := range raydiumFixtures {
		t.Run(tt.name, func(t *testing.T) {
			ix, ok := FindRaydiumSwap(loadEvent(t, tt.file))
			require.True(t, ok)

			data, ok := RaydiumData(ix)
			require.True(t, ok)
			assert.Equal(t, domain.RaydiumSwapBaseIn, data.Opcode)
			assert.Equal(t, tt.amountIn, data.AmountIn)
			assert.Equal(t, tt.minimumAmountOut, data.MinimumAmountOut)
		})
	}
}

func TestParseRaydiumData(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  *domain.RaydiumData
	}{
		{
			name:  "swap base in",
			input: []byte{9, 1, 0, 0, 0, 0, 0, 0, 0, 2, 0, 0, 0, 0, 0, 0, 0},
			want:  &domain.RaydiumData{Opcode: domain.RaydiumSwapBaseIn, AmountIn: 1, MinimumAmountOut: 2},
		},
		{
			name:  "swap base out",
			input: []byte{11, 3, 0, 0, 0, 0, 0, 0, 0, 4, 0, 0, 0, 0, 0, 0, 0},
			want:  &domain.RaydiumData{Opcode: domain.RaydiumSwapBaseOut, MaxAmountIn: 3, AmountOut: 4},
		},
		{name: "unknown opcode", input: []byte{1, 3, 0, 0, 0, 0, 0, 0, 0, 4, 0, 0, 0, 0, 0, 0, 0}},
		{name: "second field truncated", input: []byte{9, 1, 0, 0, 0, 0, 0, 0, 0, 2}},
		{name: "empty", input: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseRaydiumData(tt.input)
			assert.Equal(t, tt.want != nil, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUnpackU64(t *testing.T) {
	amount, rest, err := UnpackU64([]byte{1, 0, 0, 0, 0, 0, 0, 0, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), amount)
	assert.Equal(t, []byte{2, 3}, rest)

	_, _, err = UnpackU64([]byte{1, 2, 3})
	assert.ErrorIs(t, err, domain.ErrInvalidInstructionData)
}

func TestDecodeRaydium(t *testing.T) {
	mint := solana.MustPublicKeyFromBase58("FWv5hiQqoUahjMyRFzz78q5ajmtwZ9vrn8tytgdFpump")

	for _, tt := range raydiumFixtures {
		t.Run(tt.name, func(t *testing.T) {
			classifier := &fakeClassifier{trade: &domain.RaydiumTrade{Mint: mint, Operation: domain.OperationBuy}}

			swap, err := DecodeRaydium(context.Background(), loadEvent(t, tt.file), classifier)
			require.NoError(t, err)
			require.NotNil(t, swap.Trade)
			require.NotNil(t, swap.Data)
			require.NotNil(t, swap.Amounts)
			assert.Equal(t, tt.ammID, classifier.seen.AmmID)
			assert.Equal(t, tt.amounts, *swap.Amounts)
			assert.Equal(t, tt.compute, swap.Compute)
			assert.Contains(t, swap.Summary(), "Buy | Mint: "+mint.String())
		})
	}
}

func TestDecodeRaydiumClassificationFailure(t *testing.T) {
	classifier := &fakeClassifier{err: domain.ErrNotMemeMint}

	swap, err := DecodeRaydium(context.Background(), loadEvent(t, "raydium_direct.json"), classifier)
	assert.True(t, errors.Is(err, domain.ErrNotMemeMint))
	require.NotNil(t, swap.Signature)
	require.NotNil(t, swap.Accounts)
	assert.Nil(t, swap.Trade)
	assert.Nil(t, swap.Data)
	assert.Nil(t, swap.Amounts)
}

func TestDecodeRaydiumWithoutSignature(t *testing.T) {
	event, err := ParseEvent([]byte(`{"params":{"result":{}}}`))
	require.NoError(t, err)

	swap, err := DecodeRaydium(context.Background(), event, &fakeClassifier{})
	require.NoError(t, err)
	assert.Equal(t, &domain.RaydiumSwap{}, swap)
}

func TestComputeData(t *testing.T) {
	limit := base58.Encode([]byte{2, 0xa0, 0x86, 0x01, 0x00})
	price := base58.Encode([]byte{3, 10, 0, 0, 0, 0, 0, 0, 0})
	malformed := base58.Encode([]byte{3, 1})
	heapFrame := base58.Encode([]byte{1, 0, 0, 4, 0})
	unknown := base58.Encode([]byte{9, 1, 2, 3})

	event, err := ParseEvent([]byte(`{"params":{"result":{"transaction":{"transaction":{"message":{"instructions":[
		{"programId":"ComputeBudget111111111111111111111111111111","data":"` + limit + `"},
		{"programId":"ComputeBudget111111111111111111111111111111","data":"` + price + `"},
		{"programId":"ComputeBudget111111111111111111111111111111","data":"` + malformed + `"},
		{"programId":"ComputeBudget111111111111111111111111111111","data":"` + heapFrame + `"},
		{"programId":"ComputeBudget111111111111111111111111111111","data":"` + unknown + `"}
	]}}}}}}`))
	require.NoError(t, err)

	hints, ok := ComputeData(event)
	require.True(t, ok)
	assert.Equal(t, domain.ComputeHints{UnitLimit: 100000, UnitPrice: 10}, hints)

	event, err = ParseEvent([]byte(`{"params":{"result":{}}}`))
	require.NoError(t, err)
	_, ok = ComputeData(event)
	assert.False(t, ok)
}

func TestDetectors(t *testing.T) {
	event := loadEvent(t, "pumpfun_buy.json")

	swap, err := PumpFunDetector{}.Detect(context.Background(), event)
	require.NoError(t, err)
	assert.Equal(t, domain.VenuePumpFun, swap.Venue())

	swap, err = RaydiumDetector{Classifier: &fakeClassifier{}}.Detect(context.Background(), event)
	require.NoError(t, err)
	assert.Equal(t, domain.VenueRaydium, swap.Venue())
	assert.Nil(t, swap.(*domain.RaydiumSwap).Accounts)
}
