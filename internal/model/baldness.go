package model

// BaldnessRegion identifies a scalp region evaluated by the detector.
type BaldnessRegion string

const (
	RegionCrown    BaldnessRegion = "CROWN"
	RegionFrontal  BaldnessRegion = "FRONTAL"
	RegionTemporal BaldnessRegion = "TEMPORAL"
	RegionVertex   BaldnessRegion = "VERTEX"
	RegionOverall  BaldnessRegion = "OVERALL"
)

// AllRegions lists every region the detector scores.
var AllRegions = []BaldnessRegion{
	RegionCrown,
	RegionFrontal,
	RegionTemporal,
	RegionVertex,
	RegionOverall,
}

// BaldnessCategory buckets the overall baldness level.
type BaldnessCategory string

const (
	CategoryNone        BaldnessCategory = "NONE"
	CategorySlight      BaldnessCategory = "SLIGHT"
	CategoryModerate    BaldnessCategory = "MODERATE"
	CategorySignificant BaldnessCategory = "SIGNIFICANT"
	CategorySevere      BaldnessCategory = "SEVERE"
	CategoryComplete    BaldnessCategory = "COMPLETE"
)

// BaldnessArea scores a single region.
type BaldnessArea struct {
	Region          BaldnessRegion `json:"region"`
	ConfidenceScore float64        `json:"confidenceScore"`
	PixelPercentage float64        `json:"pixelPercentage"`
}

// BaldnessResult is the detector output returned to clients. ProcessedImage
// is a base64-encoded PNG with detected areas highlighted.
type BaldnessResult struct {
	ProcessedImage   string           `json:"processedImage"`
	BaldnessLevel    float64          `json:"baldnessLevel"`
	BaldnessCategory BaldnessCategory `json:"baldnessCategory"`
	BaldnessAreas    []BaldnessArea   `json:"baldnessAreas"`
}
