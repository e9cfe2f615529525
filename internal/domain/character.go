package domain

import "fmt"

// Character ranks.
const (
	RankCitizen uint8 = 0
	RankSoldier uint8 = 1
)

// Tool types.
const (
	ToolTypeShield uint8 = 1
	ToolTypeSword  uint8 = 2
)

// Character - stats carried in a character NFT's attributes
type Character struct {
	Rank    uint8 `json:"rank"`
	Attack  uint8 `json:"attack"`
	Defence uint8 `json:"defence"`
}

func NewCitizen() Character {
	return Character{Rank: RankCitizen}
}

func (c Character) IsCitizen() bool { return c.Rank == RankCitizen }
func (c Character) IsSoldier() bool { return c.Rank == RankSoldier }

// IsUpgradedSoldier reports whether the soldier has any combat stats.
func (c Character) IsUpgradedSoldier() bool {
	return c.IsSoldier() && (c.Attack > 0 || c.Defence > 0)
}

// Competency is the soldier's total combat rating.
func (c Character) Competency() int {
	return int(c.Attack) + int(c.Defence)
}

// ToSoldier promotes a citizen, stats start at zero.
func (c Character) ToSoldier() Character {
	return Character{Rank: RankSoldier}
}

// ApplyTool adds the tool's stats. Stats saturate at 255 rather than
// wrapping.
func (c Character) ApplyTool(t Tool) Character {
	c.Attack = addSaturating(c.Attack, t.Attack)
	c.Defence = addSaturating(c.Defence, t.Defence)
	return c
}

// FileName picks the asset file bucket for the character's current
// stats. Soldier art only exists for stat values up to 2, anything
// above maps to the maxed-out variant.
func (c Character) FileName() string {
	if c.IsCitizen() {
		return CitizenFileName
	}
	if c.Attack == 0 && c.Defence == 0 {
		return SoldierFileName
	}
	if c.Attack > 2 || c.Defence > 2 {
		return SoldierFileName + "-max"
	}
	return fmt.Sprintf("%s-a%dd%d", SoldierFileName, c.Attack, c.Defence)
}

// Name returns the NFT display name for the given instance nonce.
func (c Character) Name(nonce uint64) string {
	if c.IsSoldier() {
		return fmt.Sprintf("%s %d", SoldierNFTName, nonce)
	}
	return fmt.Sprintf("%s %d", CitizenNFTName, nonce)
}

// Tags returns the NFT tag list for the character's rank.
func (c Character) Tags() string {
	if c.IsSoldier() {
		return SoldierNFTTags
	}
	return CitizenNFTTags
}

// Tool - stats carried in a tool NFT's attributes
type Tool struct {
	Type    uint8 `json:"type"`
	Attack  uint8 `json:"attack"`
	Defence uint8 `json:"defence"`
}

func NewShield() Tool {
	return Tool{Type: ToolTypeShield, Defence: 1}
}

func NewSword() Tool {
	return Tool{Type: ToolTypeSword, Attack: 1}
}

func (t Tool) FileName() string {
	if t.Type == ToolTypeSword {
		return SwordFileName
	}
	return ShieldFileName
}

func (t Tool) Name(nonce uint64) string {
	if t.Type == ToolTypeSword {
		return fmt.Sprintf("%s %d", SwordNFTName, nonce)
	}
	return fmt.Sprintf("%s %d", ShieldNFTName, nonce)
}

func (t Tool) Tags() string {
	if t.Type == ToolTypeSword {
		return SwordNFTTags
	}
	return ShieldNFTTags
}

func addSaturating(a, b uint8) uint8 {
	if int(a)+int(b) > 255 {
		return 255
	}
	return a + b
}
