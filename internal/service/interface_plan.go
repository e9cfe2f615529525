package service

import (
	"fmt"

	"crafting_arena/internal/domain"
)

// Planning resolves a user's deposit ledger into the exact transfer legs
// an action needs. Plans are pure: they read deposits and either return
// the legs to move or the reason the action cannot run.

// findDeposit returns the first fungible deposit whose token matches the
// ticker prefix.
func findDeposit(deposits []*domain.Deposit, ticker string) *domain.Deposit {
	for _, d := range deposits {
		if d.Nonce == 0 && domain.IsRequiredToken(d.Token, ticker) {
			return d
		}
	}
	return nil
}

// findNFTDeposit returns the deposit for one specific NFT.
func findNFTDeposit(deposits []*domain.Deposit, collection string, nonce uint64) *domain.Deposit {
	for _, d := range deposits {
		if d.Token == collection && d.Nonce == nonce && d.Balance > 0 {
			return d
		}
	}
	return nil
}

// planPair picks two exact fungible amounts from the deposits. The
// resource names are lowercased tickers, order matters for messages.
func planPair(deposits []*domain.Deposit, nameA, tickerA string, needA int64, nameB, tickerB string, needB int64) ([]domain.TokenPayment, error) {
	depA := findDeposit(deposits, tickerA)
	depB := findDeposit(deposits, tickerB)

	switch {
	case depA == nil && depB == nil:
		return nil, fmt.Errorf("No %s or %s deposited. Need at least %d and %d.", nameA, nameB, needA, needB)
	case depA == nil:
		return nil, fmt.Errorf("No %s deposited. Need at least %d.", nameA, needA)
	case depB == nil:
		return nil, fmt.Errorf("No %s deposited. Need at least %d.", nameB, needB)
	case depA.Balance < needA:
		return nil, fmt.Errorf("Not enough %s deposited. Need at least %d.", nameA, needA)
	case depB.Balance < needB:
		return nil, fmt.Errorf("Not enough %s deposited. Need at least %d.", nameB, needB)
	}

	return []domain.TokenPayment{
		{Token: depA.Token, Amount: needA},
		{Token: depB.Token, Amount: needB},
	}, nil
}

func planMintCitizen(deposits []*domain.Deposit) ([]domain.TokenPayment, error) {
	return planPair(deposits,
		"wood", domain.WoodTicker, domain.MintCitizenWoodQuantity,
		"food", domain.FoodTicker, domain.MintCitizenFoodQuantity)
}

func planUpgradeCitizen(deposits []*domain.Deposit) ([]domain.TokenPayment, error) {
	return planPair(deposits,
		"gold", domain.GoldTicker, domain.UpgradeSoldierGoldAmount,
		"ore", domain.OreTicker, domain.UpgradeSoldierOreAmount)
}

func planMintSword(deposits []*domain.Deposit) ([]domain.TokenPayment, error) {
	return planPair(deposits,
		"ore", domain.OreTicker, domain.MintSwordOreQuantity,
		"gold", domain.GoldTicker, domain.MintSwordGoldQuantity)
}

func planMintShield(deposits []*domain.Deposit) ([]domain.TokenPayment, error) {
	dep := findDeposit(deposits, domain.OreTicker)
	if dep == nil {
		return nil, fmt.Errorf("No ore deposited. Need at least %d.", domain.MintShieldOreQuantity)
	}
	if dep.Balance < domain.MintShieldOreQuantity {
		return nil, fmt.Errorf("Not enough ore deposited. Need at least %d.", domain.MintShieldOreQuantity)
	}
	return []domain.TokenPayment{{Token: dep.Token, Amount: domain.MintShieldOreQuantity}}, nil
}

// planCreateOre escrows stone for the requested number of ore units, or
// for the largest multiple of the stone rate on deposit when oreUnits
// is zero.
func planCreateOre(deposits []*domain.Deposit, oreUnits int64) ([]domain.TokenPayment, error) {
	dep := findDeposit(deposits, domain.StoneTicker)
	if dep == nil {
		return nil, fmt.Errorf("No stone deposited. Need at least %d.", domain.StoneAmountForOre)
	}

	amount := dep.Balance - dep.Balance%domain.StoneAmountForOre
	if oreUnits > 0 {
		amount = oreUnits * domain.StoneAmountForOre
	}
	if dep.Balance < amount || amount < domain.StoneAmountForOre {
		return nil, fmt.Errorf("Not enough stone deposited. Need at least %d.", max(amount, domain.StoneAmountForOre))
	}
	return []domain.TokenPayment{{Token: dep.Token, Amount: amount}}, nil
}

func planCreateGame(deposits []*domain.Deposit, collection string, soldierNonce uint64, feeToken string, feeAmount int64) ([]domain.TokenPayment, error) {
	soldier := findNFTDeposit(deposits, collection, soldierNonce)
	fee := findDeposit(deposits, feeToken)

	switch {
	case soldier == nil && fee == nil:
		return nil, fmt.Errorf("No character NFT or fee token deposited. Need character NFT with nonce %d and fee token %s.", soldierNonce, feeToken)
	case soldier == nil:
		return nil, fmt.Errorf("No character NFT deposited with nonce %d.", soldierNonce)
	case fee == nil:
		return nil, fmt.Errorf("No fee token deposited. Need at least %d %s.", feeAmount, feeToken)
	case fee.Balance < feeAmount:
		return nil, fmt.Errorf("Not enough fee token deposited. Need at least %d %s.", feeAmount, feeToken)
	}

	return []domain.TokenPayment{
		{Token: collection, Nonce: soldierNonce, Amount: 1},
		{Token: fee.Token, Amount: feeAmount},
	}, nil
}

func planAcceptGame(deposits []*domain.Deposit, collection string, soldierNonce uint64, feeToken string, feeAmount int64) ([]domain.TokenPayment, error) {
	soldier := findNFTDeposit(deposits, collection, soldierNonce)
	fee := findDeposit(deposits, feeToken)

	switch {
	case soldier == nil && fee == nil:
		return nil, fmt.Errorf("No character NFT or fee token deposited. Need at least %d and %d.", soldierNonce, feeAmount)
	case soldier == nil:
		return nil, fmt.Errorf("No character NFT deposited with nonce %d.", soldierNonce)
	case fee == nil:
		return nil, fmt.Errorf("No fee token deposited. Need at least %d.", feeAmount)
	case fee.Balance < feeAmount:
		return nil, fmt.Errorf("Not enough fee token deposited. Need at least %d.", feeAmount)
	}

	return []domain.TokenPayment{
		{Token: collection, Nonce: soldierNonce, Amount: 1},
		{Token: fee.Token, Amount: feeAmount},
	}, nil
}

// planStake stakes the full deposit of one base resource.
func planStake(deposits []*domain.Deposit, ticker string) ([]domain.TokenPayment, error) {
	if baseResourceTicker(ticker) == "" {
		return nil, fmt.Errorf("Invalid token %s. Expected a base resource.", ticker)
	}
	dep := findDeposit(deposits, ticker)
	if dep == nil || dep.Balance <= 0 {
		return nil, fmt.Errorf("No %s deposited.", tickerName(ticker))
	}
	return []domain.TokenPayment{{Token: dep.Token, Amount: dep.Balance}}, nil
}

func tickerName(ticker string) string {
	switch ticker {
	case domain.WoodTicker:
		return "wood"
	case domain.FoodTicker:
		return "food"
	case domain.StoneTicker:
		return "stone"
	case domain.GoldTicker:
		return "gold"
	case domain.OreTicker:
		return "ore"
	}
	return ticker
}
