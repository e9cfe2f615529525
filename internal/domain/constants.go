package domain

// Resource token tickers. Concrete token identifiers carry a random
// suffix after issuance (for example WOOD-a1b2c3), so all lookups match
// on the ticker prefix.
const (
	WoodTicker  = "WOOD-"
	FoodTicker  = "FOOD-"
	StoneTicker = "STONE-"
	GoldTicker  = "GOLD-"
	OreTicker   = "ORE-"
)

// Crafting costs.
const (
	MintCitizenWoodQuantity  int64 = 10
	MintCitizenFoodQuantity  int64 = 15
	StoneAmountForOre        int64 = 20
	UpgradeSoldierGoldAmount int64 = 5
	UpgradeSoldierOreAmount  int64 = 5
	MintShieldOreQuantity    int64 = 2
	MintSwordOreQuantity     int64 = 3
	MintSwordGoldQuantity    int64 = 1
)

// Minting periods in seconds.
const (
	MintCitizenSecondsDefault int64 = 3600
	MintShieldSecondsDefault  int64 = 3600
	MintSwordSecondsDefault   int64 = 3600
)

// NFT collection settings.
const (
	CharacterCollectionName   = "Characters"
	CharacterCollectionTicker = "CHARACTER"
	ToolsCollectionName       = "Tools"
	ToolsCollectionTicker     = "TOOLS"

	CitizenNFTName = "Citizen"
	SoldierNFTName = "Soldier"
	ShieldNFTName  = "Shield"
	SwordNFTName   = "Sword"

	CharacterNFTRoyalties = 500 // 5%
	ToolNFTRoyalties      = 500 // 5%
)

// IPFS content IDs holding the collection media and metadata files.
const (
	IPFSCharactersCID = "bafybeih3vwnfq7qyvyb5s2ojjk4cs6gcwxzpatujtahpeiap5xu5k4r3pm"
	IPFSToolsCID      = "bafybeieysc7cv3cgwfdjdhujmmvscca4h67mbidbnbfzchyad4lib2ocpu"
)

// NFT tags and asset file names.
const (
	CitizenNFTTags = "character,citizen"
	SoldierNFTTags = "character,soldier"
	ShieldNFTTags  = "tool,shield"
	SwordNFTTags   = "tool,sword"

	CitizenFileName = "citizen"
	SoldierFileName = "soldier"
	ShieldFileName  = "shield"
	SwordFileName   = "sword"

	NFTImageFileExtension    = "png"
	NFTMetadataFileExtension = "json"
)

// Endpoint names used on the contract call bus.
const (
	EndpointMintCitizen             = "mintCitizen"
	EndpointClaimCitizen            = "claimCitizen"
	EndpointUpgradeCitizenToSoldier = "upgradeCitizenToSoldier"
	EndpointUpgradeSoldier          = "upgradeSoldier"
	EndpointMintShield              = "mintShield"
	EndpointMintSword               = "mintSword"
	EndpointClaimShield             = "claimShield"
	EndpointClaimSword              = "claimSword"
	EndpointCreateOre               = "createOre"
	EndpointMintResources           = "mintResources"
	EndpointClaimResources          = "claimResources"
	EndpointCreateGame              = "createGame"
	EndpointAcceptGame              = "acceptGame"
)
