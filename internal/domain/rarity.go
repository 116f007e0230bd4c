package domain

// Rarity is an ordered prize tier: common < rare < epic < legendary
type Rarity int

const (
	RarityCommon Rarity = iota
	RarityRare
	RarityEpic
	RarityLegendary
)

var rarityNames = map[Rarity]string{
	RarityCommon:    "common",
	RarityRare:      "rare",
	RarityEpic:      "epic",
	RarityLegendary: "legendary",
}

func (r Rarity) String() string {
	if name, ok := rarityNames[r]; ok {
		return name
	}
	return "unknown"
}

// AtLeast reports whether r is the given tier or better
func (r Rarity) AtLeast(other Rarity) bool {
	return r >= other
}

// ParseRarity converts a stored rarity name back to its tier.
// Unknown names map to common so a bad row degrades instead of failing a draw.
func ParseRarity(name string) Rarity {
	for r, n := range rarityNames {
		if n == name {
			return r
		}
	}
	return RarityCommon
}
