package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"math/rand"

	_ "image/gif"  // decoder registration
	_ "image/jpeg" // decoder registration

	apperrors "baldguard/internal/errors"
	"baldguard/internal/model"
)

// DetectorService analyzes scalp photos. The underlying model is a stand-in:
// it produces a pseudo-random level with highlighted areas so the full
// contract, wire format included, can be exercised end to end until the real
// model lands.
type DetectorService interface {
	ProcessImage(ctx context.Context, imageData []byte) (*model.BaldnessResult, error)
}

type detectorService struct{}

// NewDetectorService creates a new detector service.
func NewDetectorService() DetectorService {
	return &detectorService{}
}

// ProcessImage decodes the upload, scores it, and returns the result with a
// base64 PNG rendering of the highlighted areas.
func (s *detectorService) ProcessImage(ctx context.Context, imageData []byte) (*model.BaldnessResult, error) {
	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, apperrors.ErrNotAnImage
	}

	level := math.Round(rand.Float64()*100) / 100

	processed := highlightBaldAreas(img, level)

	var buf bytes.Buffer
	if err := png.Encode(&buf, processed); err != nil {
		return nil, fmt.Errorf("encode processed image: %w", err)
	}

	return &model.BaldnessResult{
		ProcessedImage:   base64.StdEncoding.EncodeToString(buf.Bytes()),
		BaldnessLevel:    level,
		BaldnessCategory: categorize(level),
		BaldnessAreas:    regionAreas(level),
	}, nil
}

// categorize maps a level in [0,1] to its reporting bucket.
func categorize(level float64) model.BaldnessCategory {
	switch {
	case level < 0.1:
		return model.CategoryNone
	case level < 0.3:
		return model.CategorySlight
	case level < 0.5:
		return model.CategoryModerate
	case level < 0.7:
		return model.CategorySignificant
	case level < 0.9:
		return model.CategorySevere
	default:
		return model.CategoryComplete
	}
}

// highlightBaldAreas paints translucent red discs near the top of the frame,
// more and larger the higher the level.
func highlightBaldAreas(src image.Image, level float64) image.Image {
	bounds := src.Bounds()
	dst := image.NewRGBA(bounds)
	draw.Draw(dst, bounds, src, bounds.Min, draw.Src)

	width := bounds.Dx()
	height := bounds.Dy()
	spots := int(level*10) + 1
	radius := int(level*50) + 10

	for i := 0; i < spots; i++ {
		cx := bounds.Min.X + width/4 + rand.Intn(max(width/2, 1))
		cy := bounds.Min.Y + height/8 + rand.Intn(max(height/4, 1))
		drawDisc(dst, cx, cy, radius)
	}
	return dst
}

// drawDisc blends a semi-transparent red disc into dst, clipped to its bounds.
func drawDisc(dst *image.RGBA, cx, cy, r int) {
	overlay := image.NewUniform(color.RGBA{R: 255, A: 64})
	for y := cy - r; y <= cy+r; y++ {
		for x := cx - r; x <= cx+r; x++ {
			if (x-cx)*(x-cx)+(y-cy)*(y-cy) > r*r {
				continue
			}
			if !(image.Point{X: x, Y: y}).In(dst.Bounds()) {
				continue
			}
			draw.Draw(dst, image.Rect(x, y, x+1, y+1), overlay, image.Point{}, draw.Over)
		}
	}
}

// regionAreas produces per-region scores correlated with the overall level.
// Low levels skip some regions entirely.
func regionAreas(level float64) []model.BaldnessArea {
	areas := make([]model.BaldnessArea, 0, len(model.AllRegions))
	for _, region := range model.AllRegions {
		if level < 0.5 && rand.Float64() > level*2 {
			continue
		}
		confidence := math.Min(1.0, math.Max(0.1, level*(0.8+rand.Float64()*0.4)))
		pixelPct := confidence * 100 * (0.7 + rand.Float64()*0.3)
		areas = append(areas, model.BaldnessArea{
			Region:          region,
			ConfidenceScore: math.Round(confidence*100) / 100,
			PixelPercentage: math.Round(pixelPct*10) / 10,
		})
	}
	return areas
}
