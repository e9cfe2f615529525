package nftattr

import (
	"errors"
	"strings"
	"testing"

	"crafting_arena/internal/domain"
)

func TestEncodeDecodeCharacter(t *testing.T) {
	ch := domain.Character{Rank: 1, Attack: 2, Defence: 1}
	attrs := EncodeCharacter(domain.IPFSCharactersCID, ch.FileName(), ch)

	if !strings.HasPrefix(attrs, "metadata:"+domain.IPFSCharactersCID+"/") {
		t.Fatalf("unexpected attributes: %s", attrs)
	}
	if !strings.Contains(attrs, ";tags:character,soldier") {
		t.Fatalf("missing tags: %s", attrs)
	}
	if !strings.HasSuffix(attrs, ";c:1:2:1") {
		t.Fatalf("missing stat block: %s", attrs)
	}

	decoded, err := DecodeCharacter(attrs)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded != ch {
		t.Fatalf("expected %+v, got %+v", ch, decoded)
	}
}

func TestEncodeDecodeTool(t *testing.T) {
	tool := domain.NewSword()
	attrs := EncodeTool(domain.IPFSToolsCID, tool.FileName(), tool)

	if !strings.HasSuffix(attrs, ";t:2:1:0") {
		t.Fatalf("missing stat block: %s", attrs)
	}

	decoded, err := DecodeTool(attrs)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded != tool {
		t.Fatalf("expected %+v, got %+v", tool, decoded)
	}
}

func TestDecodeCharacter(t *testing.T) {
	tests := []struct {
		name    string
		attrs   string
		want    domain.Character
		wantErr string
	}{
		{
			name:  "citizen",
			attrs: "metadata:cid/citizen.json;tags:character,citizen;c:0:0:0",
			want:  domain.Character{},
		},
		{
			name:  "soldier with stats",
			attrs: "metadata:cid/soldier-a2d1.json;tags:character,soldier;c:1:2:1",
			want:  domain.Character{Rank: 1, Attack: 2, Defence: 1},
		},
		{
			name:  "multi digit stats",
			attrs: ";c:1:120:35",
			want:  domain.Character{Rank: 1, Attack: 120, Defence: 35},
		},
		{
			name:    "prefix missing",
			attrs:   "metadata:cid/citizen.json;tags:character,citizen",
			wantErr: "character attributes prefix not found",
		},
		{
			name:    "tool prefix does not match",
			attrs:   "metadata:cid/shield.json;tags:tool,shield;t:1:0:1",
			wantErr: "character attributes prefix not found",
		},
		{
			name:    "non digit in rank",
			attrs:   ";c:x:0:0",
			wantErr: "invalid rank format",
		},
		{
			name:    "non digit in attack",
			attrs:   ";c:1:2x:0",
			wantErr: "invalid attack format",
		},
		{
			name:    "missing defence field",
			attrs:   ";c:1:2",
			wantErr: "invalid attack format",
		},
		{
			name:    "value overflow",
			attrs:   ";c:1:300:0",
			wantErr: "invalid attack format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeCharacter(tt.attrs)
			if tt.wantErr != "" {
				if err == nil || err.Error() != tt.wantErr {
					t.Fatalf("expected error %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestDecodeToolPrefixNotFound(t *testing.T) {
	_, err := DecodeTool("metadata:cid/citizen.json;tags:character,citizen;c:0:0:0")
	if !errors.Is(err, ErrToolPrefixNotFound) {
		t.Fatalf("expected ErrToolPrefixNotFound, got %v", err)
	}
}

func TestDecodeRejectsTrailingBytes(t *testing.T) {
	// The stat block is always the tail of the attribute string.
	_, err := DecodeCharacter(";c:1:2:3;extra")
	if err == nil || err.Error() != "invalid defence format" {
		t.Fatalf("expected invalid defence format, got %v", err)
	}
}
