// Package docspec provides document photo specification definitions and
// management. A PhotoSpec is the physical requirement record for one
// (country, document) pair; Frame converts it to the pixel-space form the
// positioning engine consumes. Unit conversion happens here, never in the
// engine.
package docspec

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"idphoto/internal/facefit"
)

const mmPerInch = 25.4

// Default margin behavior when a spec does not override it.
const (
	defaultVisualMarginPx    = 5
	defaultHeadTopMarginFrac = 0.12
)

// PhotoSpec defines a document photo specification in physical units.
// Optional requirements are nil when the issuing authority does not define
// them. Head bounds may be given in millimeters or as a fraction of photo
// height; millimeters win when both are present.
type PhotoSpec struct {
	CountryCode  string `json:"country_code" validate:"required"`
	DocumentName string `json:"document_name" validate:"required"`

	PhotoWidthMM  float64 `json:"photo_width_mm" validate:"gt=0"`
	PhotoHeightMM float64 `json:"photo_height_mm" validate:"gt=0"`
	DPI           int     `json:"dpi" validate:"gt=0"`

	HeadMinMM       *float64 `json:"head_min_mm,omitempty"`
	HeadMaxMM       *float64 `json:"head_max_mm,omitempty"`
	HeadMinFraction *float64 `json:"head_min_fraction,omitempty"`
	HeadMaxFraction *float64 `json:"head_max_fraction,omitempty"`

	EyeMinFromBottomMM *float64 `json:"eye_min_from_bottom_mm,omitempty"`
	EyeMaxFromBottomMM *float64 `json:"eye_max_from_bottom_mm,omitempty"`
	EyeMinFromTopMM    *float64 `json:"eye_min_from_top_mm,omitempty"`
	EyeMaxFromTopMM    *float64 `json:"eye_max_from_top_mm,omitempty"`

	HeadTopDistMinMM *float64 `json:"head_top_dist_min_mm,omitempty"`
	HeadTopDistMaxMM *float64 `json:"head_top_dist_max_mm,omitempty"`

	// Visual margin minimums in pixels; nil means the default of 5.
	// An explicit zero lets exact eye placement win over clearance.
	MinVisualHeadMarginPx *float64 `json:"min_visual_head_margin_px,omitempty"`
	MinVisualChinMarginPx *float64 `json:"min_visual_chin_margin_px,omitempty"`

	// Fraction of photo height above the head when no positioning rule
	// applies; zero means the default of 0.12.
	DefaultHeadTopMarginPercent float64 `json:"default_head_top_margin_percent,omitempty"`

	BackgroundColor           string `json:"background_color,omitempty" validate:"omitempty,oneof=white off-white light_grey blue"`
	GlassesAllowed            string `json:"glasses_allowed,omitempty" validate:"omitempty,oneof=yes no if_no_glare"`
	NeutralExpressionRequired bool   `json:"neutral_expression_required"`
	OtherRequirements         string `json:"other_requirements,omitempty"`

	FileSizeMinKB *int `json:"file_size_min_kb,omitempty"`
	FileSizeMaxKB *int `json:"file_size_max_kb,omitempty"`

	SourceURLs []string `json:"source_urls,omitempty"`
}

// mmToPx converts a physical length to pixels at the spec's DPI,
// truncating like the registries this format descends from.
func (s *PhotoSpec) mmToPx(mm float64) int {
	return int(mm / mmPerInch * float64(s.DPI))
}

// PhotoWidthPx returns the target photo width in pixels.
func (s *PhotoSpec) PhotoWidthPx() int { return s.mmToPx(s.PhotoWidthMM) }

// PhotoHeightPx returns the target photo height in pixels.
func (s *PhotoSpec) PhotoHeightPx() int { return s.mmToPx(s.PhotoHeightMM) }

// HeadMinPx resolves the minimum head height in pixels. Millimeters take
// precedence over the fraction form.
func (s *PhotoSpec) HeadMinPx() (int, bool) {
	if s.HeadMinMM != nil {
		return s.mmToPx(*s.HeadMinMM), true
	}
	if s.HeadMinFraction != nil {
		return int(float64(s.PhotoHeightPx()) * *s.HeadMinFraction), true
	}
	return 0, false
}

// HeadMaxPx resolves the maximum head height in pixels.
func (s *PhotoSpec) HeadMaxPx() (int, bool) {
	if s.HeadMaxMM != nil {
		return s.mmToPx(*s.HeadMaxMM), true
	}
	if s.HeadMaxFraction != nil {
		return int(float64(s.PhotoHeightPx()) * *s.HeadMaxFraction), true
	}
	return 0, false
}

// Name returns the registry identity, e.g. "US Passport".
func (s *PhotoSpec) Name() string {
	return s.CountryCode + " " + s.DocumentName
}

// Frame converts the spec to the engine's pixel-space form. Eye bounds
// given from the top edge are converted to the from-bottom form the
// positioning chain expects. Frame assumes Validate passed.
func (s *PhotoSpec) Frame() facefit.Spec {
	headMin, _ := s.HeadMinPx()
	headMax, _ := s.HeadMaxPx()
	frame := facefit.NewSpec(s.PhotoWidthPx(), s.PhotoHeightPx(), float64(headMin), float64(headMax))

	if s.HeadTopDistMinMM != nil && s.HeadTopDistMaxMM != nil {
		frame.HeadTopDistPx = &facefit.PxRange{
			Min: float64(s.mmToPx(*s.HeadTopDistMinMM)),
			Max: float64(s.mmToPx(*s.HeadTopDistMaxMM)),
		}
	}

	switch {
	case s.EyeMinFromBottomMM != nil && s.EyeMaxFromBottomMM != nil:
		frame.EyeFromBottomPx = &facefit.PxRange{
			Min: float64(s.mmToPx(*s.EyeMinFromBottomMM)),
			Max: float64(s.mmToPx(*s.EyeMaxFromBottomMM)),
		}
	case s.EyeMinFromTopMM != nil && s.EyeMaxFromTopMM != nil:
		// A maximum distance from the top is a minimum from the bottom.
		photoH := float64(s.PhotoHeightPx())
		frame.EyeFromBottomPx = &facefit.PxRange{
			Min: photoH - float64(s.mmToPx(*s.EyeMaxFromTopMM)),
			Max: photoH - float64(s.mmToPx(*s.EyeMinFromTopMM)),
		}
	}

	if s.MinVisualHeadMarginPx != nil {
		frame.MinVisualHeadMarginPx = *s.MinVisualHeadMarginPx
	}
	if s.MinVisualChinMarginPx != nil {
		frame.MinVisualChinMarginPx = *s.MinVisualChinMarginPx
	}
	if s.DefaultHeadTopMarginPercent > 0 {
		frame.DefaultHeadTopMarginPercent = s.DefaultHeadTopMarginPercent
	}
	return frame
}

var structValidator = validator.New()

// Validate runs the struct-tag checks plus the cross-field rules the tags
// cannot express.
func (s *PhotoSpec) Validate() error {
	if err := structValidator.Struct(s); err != nil {
		return fmt.Errorf("photo spec %s: %w", s.Name(), err)
	}

	if _, ok := s.HeadMinPx(); !ok {
		return fmt.Errorf("photo spec %s: head minimum is required (mm or fraction)", s.Name())
	}
	if _, ok := s.HeadMaxPx(); !ok {
		return fmt.Errorf("photo spec %s: head maximum is required (mm or fraction)", s.Name())
	}
	headMin, _ := s.HeadMinPx()
	headMax, _ := s.HeadMaxPx()
	if headMin > headMax {
		return fmt.Errorf("photo spec %s: head bounds inverted (%d > %d px)", s.Name(), headMin, headMax)
	}
	if headMax > s.PhotoHeightPx() {
		return fmt.Errorf("photo spec %s: head maximum %dpx exceeds photo height %dpx",
			s.Name(), headMax, s.PhotoHeightPx())
	}

	pairs := []struct {
		name     string
		min, max *float64
	}{
		{"eye-from-bottom", s.EyeMinFromBottomMM, s.EyeMaxFromBottomMM},
		{"eye-from-top", s.EyeMinFromTopMM, s.EyeMaxFromTopMM},
		{"head-top distance", s.HeadTopDistMinMM, s.HeadTopDistMaxMM},
	}
	for _, p := range pairs {
		if (p.min == nil) != (p.max == nil) {
			return fmt.Errorf("photo spec %s: %s requires both bounds or neither", s.Name(), p.name)
		}
		if p.min != nil && *p.min > *p.max {
			return fmt.Errorf("photo spec %s: %s bounds inverted", s.Name(), p.name)
		}
	}

	if s.FileSizeMinKB != nil && s.FileSizeMaxKB != nil && *s.FileSizeMinKB > *s.FileSizeMaxKB {
		return fmt.Errorf("photo spec %s: file size bounds inverted", s.Name())
	}
	return nil
}

// SaveToFile saves the spec to a JSON file.
func (s *PhotoSpec) SaveToFile(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadFromFile loads and validates a spec from a JSON file.
func LoadFromFile(path string) (*PhotoSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var spec PhotoSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, err
	}
	if spec.DPI == 0 {
		spec.DPI = 300
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid photo spec: %w", err)
	}
	return &spec, nil
}

// Registry of known photo specs, keyed case-insensitively by
// country + document.
var (
	registryMu sync.RWMutex
	registry   = make(map[string]*PhotoSpec)
)

func registryKey(countryCode, documentName string) string {
	return strings.ToLower(countryCode) + "|" + strings.ToLower(documentName)
}

// Register adds a photo spec to the registry, replacing any existing spec
// for the same (country, document) pair.
func Register(spec *PhotoSpec) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[registryKey(spec.CountryCode, spec.DocumentName)] = spec
}

// Get returns the spec for a (country, document) pair, or nil.
func Get(countryCode, documentName string) *PhotoSpec {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return registry[registryKey(countryCode, documentName)]
}

// List returns the names of all registered specs.
func List() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for _, spec := range registry {
		names = append(names, spec.Name())
	}
	sort.Strings(names)
	return names
}

func mm(v float64) *float64   { return &v }
func frac(v float64) *float64 { return &v }
func px(v float64) *float64   { return &v }
func kb(v int) *int           { return &v }

func init() {
	// Register built-in photo specs
	Register(USPassportSpec())
	Register(USVisaSpec())
	Register(USDiversityVisaSpec())
	Register(USGreenCardSpec())
	Register(SchengenVisaSpec())
	Register(UKPassportSpec())
	Register(IndiaPassportSpec())
	Register(CanadaPassportSpec())
}
