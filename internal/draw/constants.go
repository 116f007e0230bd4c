package draw

import "github.com/osse101/MedalGacha_Go/internal/domain"

// PityMinimumRarity is the tier the pity guarantee promotes draws to
const PityMinimumRarity = domain.RarityRare
