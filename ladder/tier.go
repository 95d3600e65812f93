package ladder

// QualityTier is a coarse classification of a resolution.
type QualityTier string

const (
	TierLD    QualityTier = "LD"
	TierSD    QualityTier = "SD"
	TierHD    QualityTier = "HD"
	TierFHD   QualityTier = "FHD"
	TierUHD   QualityTier = "UHD"
	TierUHD8K QualityTier = "UHD8K"
)

// GetQualityTier classifies a resolution. Width OR height crossing a
// threshold is enough, so the checks run from the largest threshold down.
// Checking smallest-first would let an unusually wide but short source
// match a lower tier before its width is considered.
func GetQualityTier(width, height int) QualityTier {
	switch {
	case width >= 7680 || height >= 4320:
		return TierUHD8K
	case width >= 3840 || height >= 2160:
		return TierUHD
	case width >= 1920 || height >= 1080:
		return TierFHD
	case width >= 1280 || height >= 720:
		return TierHD
	case width >= 640 || height >= 360:
		return TierSD
	default:
		return TierLD
	}
}
