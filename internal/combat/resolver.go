// Package combat resolves arena duels between two soldiers.
package combat

import (
	"crypto/rand"

	"crafting_arena/internal/domain"
)

// EntropyBytes is the size of the random seed drawn per fight.
const EntropyBytes = 48

const (
	// byteThreshold caps which seed bytes qualify for a roll; bytes
	// above it are skipped before taking the value modulo 100.
	byteThreshold = 200
	baseChance    = 50
)

// Resolver decides duels. Entropy is injectable so tests can drive
// deterministic outcomes; the zero value uses crypto/rand.
type Resolver struct {
	Entropy func() []byte
}

func New() *Resolver {
	return &Resolver{}
}

// CompetitorWins reports whether the competitor beats the initiator.
//
// If the competency gap exceeds 100 the stronger soldier wins outright.
// Otherwise a number 0-99 is drawn from the entropy bytes and compared
// against the competitor's win chance of 50 plus half the gap in their
// favour, clamped to 1-99 so no duel is ever a sure thing.
func (r *Resolver) CompetitorWins(initiator, competitor domain.Character) bool {
	initComp := initiator.Competency()
	compComp := competitor.Competency()

	diff := compComp - initComp
	if diff < 0 {
		diff = -diff
	}
	if diff > 100 {
		return compComp > initComp
	}

	roll := r.roll(diff)

	chance := baseChance
	if compComp > initComp {
		chance += diff / 2
	} else {
		chance -= diff / 2
	}
	if chance < 1 {
		chance = 1
	}
	if chance > 99 {
		chance = 99
	}

	return roll < chance
}

// roll draws a number 0-99. Bytes above the threshold are skipped; on
// an exact tie a roll of 50 is rerolled so the draw always decides.
// If the whole seed is exhausted the roll defaults to 50.
func (r *Resolver) roll(diff int) int {
	seed := r.seed()

	roll := baseChance
	for _, b := range seed {
		if int(b) > byteThreshold {
			continue
		}
		roll = int(b) % 100
		if diff == 0 && roll == baseChance {
			continue
		}
		break
	}
	return roll
}

func (r *Resolver) seed() []byte {
	if r.Entropy != nil {
		return r.Entropy()
	}
	seed := make([]byte, EntropyBytes)
	_, _ = rand.Read(seed)
	return seed
}
