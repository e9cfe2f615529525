package domain

import "testing"

func TestCharacterLifecycle(t *testing.T) {
	c := NewCitizen()
	if !c.IsCitizen() || c.IsSoldier() {
		t.Fatal("new character must be a citizen")
	}

	s := c.ToSoldier()
	if !s.IsSoldier() {
		t.Fatal("promotion must yield a soldier")
	}
	if s.IsUpgradedSoldier() {
		t.Fatal("fresh soldier has no stats yet")
	}

	s = s.ApplyTool(NewSword())
	if !s.IsUpgradedSoldier() || s.Attack != 1 || s.Defence != 0 {
		t.Fatalf("sword must add attack: %+v", s)
	}

	s = s.ApplyTool(NewShield())
	if s.Attack != 1 || s.Defence != 1 {
		t.Fatalf("shield must add defence: %+v", s)
	}
	if s.Competency() != 2 {
		t.Fatalf("competency = %d, want 2", s.Competency())
	}
}

func TestApplyToolSaturates(t *testing.T) {
	s := Character{Rank: RankSoldier, Attack: 255, Defence: 254}
	s = s.ApplyTool(Tool{Type: ToolTypeSword, Attack: 1, Defence: 3})
	if s.Attack != 255 || s.Defence != 255 {
		t.Fatalf("stats must saturate at 255: %+v", s)
	}
}

func TestCharacterFileName(t *testing.T) {
	tests := []struct {
		name string
		c    Character
		want string
	}{
		{"citizen", NewCitizen(), "citizen"},
		{"fresh soldier", Character{Rank: RankSoldier}, "soldier"},
		{"low stats", Character{Rank: RankSoldier, Attack: 1, Defence: 2}, "soldier-a1d2"},
		{"attack over art range", Character{Rank: RankSoldier, Attack: 3, Defence: 1}, "soldier-max"},
		{"defence over art range", Character{Rank: RankSoldier, Attack: 2, Defence: 3}, "soldier-max"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.FileName(); got != tt.want {
				t.Fatalf("FileName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNames(t *testing.T) {
	if got := NewCitizen().Name(7); got != "Citizen 7" {
		t.Fatalf("citizen name: %q", got)
	}
	if got := (Character{Rank: RankSoldier}).Name(7); got != "Soldier 7" {
		t.Fatalf("soldier name: %q", got)
	}
	if got := NewShield().Name(3); got != "Shield 3" {
		t.Fatalf("shield name: %q", got)
	}
	if got := NewSword().Name(3); got != "Sword 3" {
		t.Fatalf("sword name: %q", got)
	}
}
