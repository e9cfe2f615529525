package combat

import (
	"testing"

	"crafting_arena/internal/domain"
)

func fixedEntropy(bytes ...byte) func() []byte {
	return func() []byte { return bytes }
}

func soldier(attack, defence uint8) domain.Character {
	return domain.Character{Rank: domain.RankSoldier, Attack: attack, Defence: defence}
}

func TestCompetitorWinsLargeGap(t *testing.T) {
	r := New()
	r.Entropy = fixedEntropy(0) // must not matter

	// Gap above 100 is decided without a roll.
	if !r.CompetitorWins(soldier(1, 0), soldier(150, 60)) {
		t.Fatal("stronger competitor should win outright")
	}
	if r.CompetitorWins(soldier(150, 60), soldier(1, 0)) {
		t.Fatal("weaker competitor should lose outright")
	}
}

func TestCompetitorWinsRoll(t *testing.T) {
	tests := []struct {
		name       string
		initiator  domain.Character
		competitor domain.Character
		entropy    []byte
		want       bool
	}{
		{
			name:       "equal soldiers low roll wins",
			initiator:  soldier(1, 1),
			competitor: soldier(1, 1),
			entropy:    []byte{49},
			want:       true,
		},
		{
			name:       "equal soldiers high roll loses",
			initiator:  soldier(1, 1),
			competitor: soldier(1, 1),
			entropy:    []byte{51},
			want:       false,
		},
		{
			name:       "stronger competitor gets higher chance",
			initiator:  soldier(1, 0),
			competitor: soldier(20, 21), // gap 40, chance 70
			entropy:    []byte{69},
			want:       true,
		},
		{
			name:       "weaker competitor gets lower chance",
			initiator:  soldier(20, 21),
			competitor: soldier(1, 0), // gap 40, chance 30
			entropy:    []byte{30},
			want:       false,
		},
		{
			name:       "bytes above threshold are skipped",
			initiator:  soldier(1, 1),
			competitor: soldier(1, 1),
			entropy:    []byte{255, 201, 49},
			want:       true,
		},
		{
			name:       "roll wraps byte modulo 100",
			initiator:  soldier(1, 1),
			competitor: soldier(1, 1),
			entropy:    []byte{149}, // 149 % 100 = 49
			want:       true,
		},
		{
			name:       "tie rerolls an exact fifty",
			initiator:  soldier(1, 1),
			competitor: soldier(1, 1),
			entropy:    []byte{50, 150, 49}, // 50 rerolled, 150%100=50 rerolled, 49 wins
			want:       true,
		},
		{
			name:       "exhausted seed defaults to fifty",
			initiator:  soldier(1, 1),
			competitor: soldier(1, 1),
			entropy:    []byte{255, 255, 255},
			want:       false, // default 50 is not below chance 50
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New()
			r.Entropy = fixedEntropy(tt.entropy...)
			got := r.CompetitorWins(tt.initiator, tt.competitor)
			if got != tt.want {
				t.Fatalf("expected competitor win=%v, got %v", tt.want, got)
			}
		})
	}
}

func TestChanceClampedNearGapLimit(t *testing.T) {
	// Gap 100 yields raw chance 100, clamped to 99: a roll of 99 must
	// still lose, anything below must win.
	r := New()
	weak := soldier(0, 0)
	strong := soldier(50, 50)

	r.Entropy = fixedEntropy(99)
	if r.CompetitorWins(weak, strong) {
		t.Fatal("roll 99 should lose against clamped chance 99")
	}

	r.Entropy = fixedEntropy(98)
	if !r.CompetitorWins(weak, strong) {
		t.Fatal("roll 98 should win against clamped chance 99")
	}

	// Mirror case clamps to 1.
	r.Entropy = fixedEntropy(0)
	if !r.CompetitorWins(strong, weak) {
		t.Fatal("roll 0 should win against clamped chance 1")
	}
	r.Entropy = fixedEntropy(1)
	if r.CompetitorWins(strong, weak) {
		t.Fatal("roll 1 should lose against clamped chance 1")
	}
}

func TestDefaultEntropySize(t *testing.T) {
	r := New()
	seed := r.seed()
	if len(seed) != EntropyBytes {
		t.Fatalf("expected %d entropy bytes, got %d", EntropyBytes, len(seed))
	}
}
