package service

import (
	"testing"

	"crafting_arena/internal/domain"
)

func fungible(token string, balance int64) *domain.Deposit {
	return &domain.Deposit{Token: token, Balance: balance}
}

func nft(collection string, nonce uint64) *domain.Deposit {
	return &domain.Deposit{Token: collection, Nonce: nonce, Balance: 1}
}

func TestPlanMintCitizen(t *testing.T) {
	tests := []struct {
		name     string
		deposits []*domain.Deposit
		wantErr  string
	}{
		{
			name:    "nothing deposited",
			wantErr: "No wood or food deposited. Need at least 10 and 15.",
		},
		{
			name:     "no wood",
			deposits: []*domain.Deposit{fungible("FOOD-abc123", 20)},
			wantErr:  "No wood deposited. Need at least 10.",
		},
		{
			name:     "no food",
			deposits: []*domain.Deposit{fungible("WOOD-abc123", 20)},
			wantErr:  "No food deposited. Need at least 15.",
		},
		{
			name:     "not enough wood",
			deposits: []*domain.Deposit{fungible("WOOD-abc123", 9), fungible("FOOD-abc123", 20)},
			wantErr:  "Not enough wood deposited. Need at least 10.",
		},
		{
			name:     "not enough food",
			deposits: []*domain.Deposit{fungible("WOOD-abc123", 10), fungible("FOOD-abc123", 14)},
			wantErr:  "Not enough food deposited. Need at least 15.",
		},
		{
			name:     "exact amounts",
			deposits: []*domain.Deposit{fungible("WOOD-abc123", 10), fungible("FOOD-abc123", 15)},
		},
		{
			name:     "surplus kept on deposit",
			deposits: []*domain.Deposit{fungible("WOOD-abc123", 100), fungible("FOOD-abc123", 100)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			legs, err := planMintCitizen(tt.deposits)
			if tt.wantErr != "" {
				if err == nil || err.Error() != tt.wantErr {
					t.Fatalf("expected error %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(legs) != 2 {
				t.Fatalf("expected 2 legs, got %d", len(legs))
			}
			if legs[0].Amount != domain.MintCitizenWoodQuantity || legs[1].Amount != domain.MintCitizenFoodQuantity {
				t.Fatalf("wrong leg amounts: %+v", legs)
			}
		})
	}
}

func TestPlanUpgradeCitizenMessages(t *testing.T) {
	_, err := planUpgradeCitizen(nil)
	if err == nil || err.Error() != "No gold or ore deposited. Need at least 5 and 5." {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = planUpgradeCitizen([]*domain.Deposit{fungible("GOLD-abc123", 4), fungible("ORE-abc123", 5)})
	if err == nil || err.Error() != "Not enough gold deposited. Need at least 5." {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPlanMintSwordOrdersOreFirst(t *testing.T) {
	_, err := planMintSword(nil)
	if err == nil || err.Error() != "No ore or gold deposited. Need at least 3 and 1." {
		t.Fatalf("unexpected error: %v", err)
	}

	legs, err := planMintSword([]*domain.Deposit{fungible("GOLD-abc123", 2), fungible("ORE-abc123", 3)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if legs[0].Token != "ORE-abc123" || legs[0].Amount != 3 {
		t.Fatalf("expected ore leg first, got %+v", legs)
	}
	if legs[1].Token != "GOLD-abc123" || legs[1].Amount != 1 {
		t.Fatalf("wrong gold leg: %+v", legs)
	}
}

func TestPlanMintShield(t *testing.T) {
	_, err := planMintShield(nil)
	if err == nil || err.Error() != "No ore deposited. Need at least 2." {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = planMintShield([]*domain.Deposit{fungible("ORE-abc123", 1)})
	if err == nil || err.Error() != "Not enough ore deposited. Need at least 2." {
		t.Fatalf("unexpected error: %v", err)
	}

	legs, err := planMintShield([]*domain.Deposit{fungible("ORE-abc123", 7)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(legs) != 1 || legs[0].Amount != 2 {
		t.Fatalf("expected one leg of 2 ore, got %+v", legs)
	}
}

func TestPlanCreateOreRoundsDown(t *testing.T) {
	_, err := planCreateOre(nil, 0)
	if err == nil || err.Error() != "No stone deposited. Need at least 20." {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = planCreateOre([]*domain.Deposit{fungible("STONE-abc123", 19)}, 0)
	if err == nil || err.Error() != "Not enough stone deposited. Need at least 20." {
		t.Fatalf("unexpected error: %v", err)
	}

	legs, err := planCreateOre([]*domain.Deposit{fungible("STONE-abc123", 59)}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if legs[0].Amount != 40 {
		t.Fatalf("expected 40 stone, got %d", legs[0].Amount)
	}
}

func TestPlanCreateOreRequestedUnits(t *testing.T) {
	legs, err := planCreateOre([]*domain.Deposit{fungible("STONE-abc123", 59)}, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if legs[0].Amount != 40 {
		t.Fatalf("expected 40 stone for 2 units, got %d", legs[0].Amount)
	}

	legs, err = planCreateOre([]*domain.Deposit{fungible("STONE-abc123", 59)}, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if legs[0].Amount != 20 {
		t.Fatalf("expected 20 stone for 1 unit, got %d", legs[0].Amount)
	}

	_, err = planCreateOre([]*domain.Deposit{fungible("STONE-abc123", 59)}, 3)
	if err == nil || err.Error() != "Not enough stone deposited. Need at least 60." {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPlanCreateGame(t *testing.T) {
	const collection = "CHARACTER-abc123"

	tests := []struct {
		name     string
		deposits []*domain.Deposit
		wantErr  string
	}{
		{
			name:    "nothing deposited",
			wantErr: "No character NFT or fee token deposited. Need character NFT with nonce 3 and fee token GOLD-abc123.",
		},
		{
			name:     "missing soldier",
			deposits: []*domain.Deposit{fungible("GOLD-abc123", 50)},
			wantErr:  "No character NFT deposited with nonce 3.",
		},
		{
			name:     "missing fee",
			deposits: []*domain.Deposit{nft(collection, 3)},
			wantErr:  "No fee token deposited. Need at least 25 GOLD-abc123.",
		},
		{
			name:     "fee too small",
			deposits: []*domain.Deposit{nft(collection, 3), fungible("GOLD-abc123", 24)},
			wantErr:  "Not enough fee token deposited. Need at least 25 GOLD-abc123.",
		},
		{
			name:     "ready",
			deposits: []*domain.Deposit{nft(collection, 3), fungible("GOLD-abc123", 25)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			legs, err := planCreateGame(tt.deposits, collection, 3, "GOLD-abc123", 25)
			if tt.wantErr != "" {
				if err == nil || err.Error() != tt.wantErr {
					t.Fatalf("expected error %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(legs) != 2 || legs[0].Nonce != 3 || legs[1].Amount != 25 {
				t.Fatalf("wrong legs: %+v", legs)
			}
		})
	}
}

func TestPlanAcceptGameMessages(t *testing.T) {
	const collection = "CHARACTER-abc123"

	_, err := planAcceptGame(nil, collection, 7, "GOLD-abc123", 25)
	if err == nil || err.Error() != "No character NFT or fee token deposited. Need at least 7 and 25." {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = planAcceptGame([]*domain.Deposit{nft(collection, 7)}, collection, 7, "GOLD-abc123", 25)
	if err == nil || err.Error() != "No fee token deposited. Need at least 25." {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = planAcceptGame([]*domain.Deposit{nft(collection, 7), fungible("GOLD-abc123", 10)}, collection, 7, "GOLD-abc123", 25)
	if err == nil || err.Error() != "Not enough fee token deposited. Need at least 25." {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPlanStake(t *testing.T) {
	_, err := planStake(nil, "TON")
	if err == nil || err.Error() != "Invalid token TON. Expected a base resource." {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = planStake(nil, domain.WoodTicker)
	if err == nil || err.Error() != "No wood deposited." {
		t.Fatalf("unexpected error: %v", err)
	}

	legs, err := planStake([]*domain.Deposit{fungible("WOOD-abc123", 250)}, domain.WoodTicker)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if legs[0].Amount != 250 {
		t.Fatalf("expected full balance staked, got %d", legs[0].Amount)
	}
}
