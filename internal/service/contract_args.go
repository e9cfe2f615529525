package service

// Settings keys shared by the contract services and the admin surface.
const (
	SettingCharacterCollection = "character_collection_id"
	SettingToolsCollection     = "tools_collection_id"

	SettingCharacterContract         = "character_contract_address"
	SettingToolsContract             = "tools_contract_address"
	SettingResourceTransformContract = "resource_transform_contract_address"
	SettingArenaContract             = "arena_contract_address"
	SettingResourceMintContract      = "resource_mint_contract_address"

	SettingMintCitizenSeconds = "mint_citizen_seconds"
	SettingMintShieldSeconds  = "mint_shield_seconds"
	SettingMintSwordSeconds   = "mint_sword_seconds"
)

// JSON call args arrive as map[string]any, numbers decode as float64.

func argString(args map[string]any, key string) string {
	if args == nil {
		return ""
	}
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

func argUint64(args map[string]any, key string) uint64 {
	if args == nil {
		return 0
	}
	switch v := args[key].(type) {
	case float64:
		return uint64(v)
	case int64:
		return uint64(v)
	case uint64:
		return v
	}
	return 0
}

func argInt64(args map[string]any, key string) int64 {
	if args == nil {
		return 0
	}
	switch v := args[key].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	}
	return 0
}
