package docspec

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBuiltinsValidate(t *testing.T) {
	for _, name := range List() {
		t.Run(name, func(t *testing.T) {
			found := false
			for _, spec := range []*PhotoSpec{
				USPassportSpec(), USVisaSpec(), USDiversityVisaSpec(), USGreenCardSpec(),
				SchengenVisaSpec(), UKPassportSpec(), IndiaPassportSpec(), CanadaPassportSpec(),
			} {
				if spec.Name() == name {
					found = true
					if err := spec.Validate(); err != nil {
						t.Errorf("Validate: %v", err)
					}
				}
			}
			if !found {
				t.Errorf("registered spec %q has no builder", name)
			}
		})
	}
}

func TestGetCaseInsensitive(t *testing.T) {
	if Get("us", "passport") == nil {
		t.Error("lowercase lookup failed")
	}
	if Get("US", "PASSPORT") == nil {
		t.Error("uppercase lookup failed")
	}
	if Get("XX", "Passport") != nil {
		t.Error("unknown country should return nil")
	}
}

func TestPixelDerivation(t *testing.T) {
	spec := USPassportSpec()

	// 50.8mm at 300 DPI is exactly 2 inches = 600px.
	if got := spec.PhotoWidthPx(); got != 600 {
		t.Errorf("PhotoWidthPx = %d, want 600", got)
	}
	// 25mm / 25.4 * 300 = 295.27 -> truncated.
	if got, _ := spec.HeadMinPx(); got != 295 {
		t.Errorf("HeadMinPx = %d, want 295", got)
	}
	if got, _ := spec.HeadMaxPx(); got != 413 {
		t.Errorf("HeadMaxPx = %d, want 413", got)
	}

	// Fractional head bounds truncate against the pixel photo height.
	dv := USDiversityVisaSpec()
	if got, _ := dv.HeadMinPx(); got != 300 {
		t.Errorf("DV HeadMinPx = %d, want 300 (0.50 of 600)", got)
	}
	// 0.69*600 lands just under 414 in float arithmetic and truncates.
	if got, _ := dv.HeadMaxPx(); got != 413 {
		t.Errorf("DV HeadMaxPx = %d, want 413", got)
	}
}

func TestFrameUSPassport(t *testing.T) {
	frame := USPassportSpec().Frame()

	if frame.PhotoWidthPx != 600 || frame.PhotoHeightPx != 600 {
		t.Errorf("frame = %dx%d, want 600x600", frame.PhotoWidthPx, frame.PhotoHeightPx)
	}
	if frame.HeadTopDistPx != nil {
		t.Error("US passport should not carry a head-top distance")
	}
	if frame.EyeFromBottomPx == nil {
		t.Fatal("US passport should carry eye bounds")
	}
	want := [2]float64{330, 413} // 28mm and 35mm at 300 DPI, truncated
	if frame.EyeFromBottomPx.Min != want[0] || frame.EyeFromBottomPx.Max != want[1] {
		t.Errorf("eye range = %v-%v, want %v-%v",
			frame.EyeFromBottomPx.Min, frame.EyeFromBottomPx.Max, want[0], want[1])
	}
	if frame.MinVisualHeadMarginPx != 5 || frame.MinVisualChinMarginPx != 5 {
		t.Errorf("margins = %v/%v, want defaults 5/5",
			frame.MinVisualHeadMarginPx, frame.MinVisualChinMarginPx)
	}
	if frame.DefaultHeadTopMarginPercent != 0.12 {
		t.Errorf("top margin fraction = %v, want 0.12", frame.DefaultHeadTopMarginPercent)
	}
}

func TestFrameSchengenOverrides(t *testing.T) {
	frame := SchengenVisaSpec().Frame()

	if frame.HeadTopDistPx == nil {
		t.Fatal("Schengen should carry a head-top distance")
	}
	// 2mm and 6mm at 300 DPI.
	if frame.HeadTopDistPx.Min != 23 || frame.HeadTopDistPx.Max != 70 {
		t.Errorf("head-top range = %v-%v, want 23-70", frame.HeadTopDistPx.Min, frame.HeadTopDistPx.Max)
	}
	if frame.MinVisualHeadMarginPx != 0 {
		t.Errorf("head margin = %v, want explicit zero override", frame.MinVisualHeadMarginPx)
	}
	if frame.MinVisualChinMarginPx != 5 {
		t.Errorf("chin margin = %v, want default 5", frame.MinVisualChinMarginPx)
	}
}

func TestFrameCanadaDerivesEyeFromBottom(t *testing.T) {
	spec := CanadaPassportSpec()
	frame := spec.Frame()

	if frame.EyeFromBottomPx == nil {
		t.Fatal("eye-from-top bounds should convert to from-bottom")
	}
	photoH := float64(spec.PhotoHeightPx()) // 826
	// 17mm -> 200px from top, 23mm -> 271px from top.
	wantMin := photoH - 271
	wantMax := photoH - 200
	if frame.EyeFromBottomPx.Min != wantMin || frame.EyeFromBottomPx.Max != wantMax {
		t.Errorf("eye range = %v-%v, want %v-%v",
			frame.EyeFromBottomPx.Min, frame.EyeFromBottomPx.Max, wantMin, wantMax)
	}
}

func TestValidateCrossFieldChecks(t *testing.T) {
	bad := USPassportSpec()
	bad.HeadMinMM = mm(40)
	bad.HeadMaxMM = mm(30)
	if err := bad.Validate(); err == nil {
		t.Error("inverted head bounds accepted")
	}

	bad = USPassportSpec()
	bad.EyeMaxFromBottomMM = nil
	if err := bad.Validate(); err == nil {
		t.Error("half an eye range accepted")
	}

	bad = USPassportSpec()
	bad.HeadMinMM = nil
	bad.HeadMaxMM = nil
	if err := bad.Validate(); err == nil {
		t.Error("missing head bounds accepted")
	}

	bad = USPassportSpec()
	bad.BackgroundColor = "plaid"
	if err := bad.Validate(); err == nil {
		t.Error("off-vocabulary background accepted")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spec.json")
	orig := USGreenCardSpec()
	if err := orig.SaveToFile(path); err != nil {
		t.Fatalf("SaveToFile: %v", err)
	}
	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if diff := cmp.Diff(orig, loaded); diff != "" {
		t.Errorf("round trip mismatch (-orig +loaded):\n%s", diff)
	}
}
