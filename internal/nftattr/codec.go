// Package nftattr encodes and decodes the compact stat block carried in
// NFT attribute strings.
//
// The full attribute string looks like
//
//	metadata:<cid>/<file>.json;tags:<tags>;c:<rank>:<attack>:<defence>
//
// for characters, and the same with a ";t:<type>:<attack>:<defence>"
// suffix for tools. Decoding scans for the three-byte prefix and parses
// the colon-separated decimal fields after it; everything before the
// prefix is opaque.
package nftattr

import (
	"errors"
	"fmt"
	"strings"

	"crafting_arena/internal/domain"
)

const (
	CharacterPrefix = ";c:"
	ToolPrefix      = ";t:"
)

var (
	ErrCharacterPrefixNotFound = errors.New("character attributes prefix not found")
	ErrToolPrefixNotFound      = errors.New("tool attributes prefix not found")
)

// DecodeCharacter extracts character stats from an attribute string.
func DecodeCharacter(attributes string) (domain.Character, error) {
	fields, err := decodeStats(attributes, CharacterPrefix, ErrCharacterPrefixNotFound,
		[3]string{"rank", "attack", "defence"})
	if err != nil {
		return domain.Character{}, err
	}
	return domain.Character{Rank: fields[0], Attack: fields[1], Defence: fields[2]}, nil
}

// DecodeTool extracts tool stats from an attribute string.
func DecodeTool(attributes string) (domain.Tool, error) {
	fields, err := decodeStats(attributes, ToolPrefix, ErrToolPrefixNotFound,
		[3]string{"tool type", "attack", "defence"})
	if err != nil {
		return domain.Tool{}, err
	}
	return domain.Tool{Type: fields[0], Attack: fields[1], Defence: fields[2]}, nil
}

// decodeStats parses the three colon-separated decimal fields after the
// first occurrence of prefix. The stat block is always the tail of the
// attribute string, so parsing runs to the end of the input.
func decodeStats(attributes, prefix string, notFound error, names [3]string) ([3]uint8, error) {
	var fields [3]uint8

	idx := strings.Index(attributes, prefix)
	if idx < 0 {
		return fields, notFound
	}

	field := 0
	var value int
	for i := idx + len(prefix); i < len(attributes); i++ {
		b := attributes[i]
		if b == ':' && field < 2 {
			fields[field] = uint8(value)
			field++
			value = 0
			continue
		}
		if b < '0' || b > '9' {
			return fields, fmt.Errorf("invalid %s format", names[field])
		}
		value = value*10 + int(b-'0')
		if value > 255 {
			return fields, fmt.Errorf("invalid %s format", names[field])
		}
	}
	if field != 2 {
		return fields, fmt.Errorf("invalid %s format", names[field])
	}
	fields[2] = uint8(value)

	return fields, nil
}

// EncodeCharacter builds the full attribute string for a character NFT.
func EncodeCharacter(cid, fileName string, ch domain.Character) string {
	return encode(cid, fileName, ch.Tags()) +
		fmt.Sprintf("%s%d:%d:%d", CharacterPrefix, ch.Rank, ch.Attack, ch.Defence)
}

// EncodeTool builds the full attribute string for a tool NFT.
func EncodeTool(cid, fileName string, t domain.Tool) string {
	return encode(cid, fileName, t.Tags()) +
		fmt.Sprintf("%s%d:%d:%d", ToolPrefix, t.Type, t.Attack, t.Defence)
}

func encode(cid, fileName, tags string) string {
	return fmt.Sprintf("metadata:%s/%s.%s;tags:%s",
		cid, fileName, domain.NFTMetadataFileExtension, tags)
}
