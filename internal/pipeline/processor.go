// Package pipeline orchestrates the full processing run for one
// portrait: load, detect, fit, crop, render the proof artifacts, and
// record a manifest.
package pipeline

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"

	"idphoto/internal/detect"
	"idphoto/internal/docspec"
	"idphoto/internal/facefit"
	"idphoto/internal/imageio"
	"idphoto/internal/landmarks"
	"idphoto/internal/mask"
	"idphoto/internal/preview"
	"idphoto/internal/printsheet"
	"idphoto/pkg/log"
)

// MeshProvider produces a landmark mesh from an image. PigoProvider is
// the bundled implementation; a mesh file sidesteps it entirely.
type MeshProvider interface {
	DetectMesh(img image.Image) (*landmarks.Mesh, error)
}

// Request identifies one portrait to process. MaskPath and MeshPath are
// optional sidecars.
type Request struct {
	ImagePath string
	MaskPath  string
	MeshPath  string
	Country   string
	Document  string
}

// Processor runs the pipeline. Safe for sequential reuse; the detector
// is loaded once on first use.
type Processor struct {
	cfg      Config
	provider MeshProvider
}

// NewProcessor returns a processor with the given configuration.
func NewProcessor(cfg Config) *Processor {
	return &Processor{cfg: cfg}
}

// WithProvider overrides the default cascade-backed detector.
func (p *Processor) WithProvider(mp MeshProvider) *Processor {
	p.provider = mp
	return p
}

// Process runs the full pipeline for one request and returns the saved
// manifest.
func (p *Processor) Process(req Request) (*Manifest, error) {
	spec := docspec.Get(req.Country, req.Document)
	if spec == nil {
		return nil, fmt.Errorf("pipeline: no spec for %s/%s (known: %s)",
			req.Country, req.Document, strings.Join(docspec.List(), ", "))
	}

	m := NewManifest(req.ImagePath, spec.CountryCode, spec.DocumentName)

	start := time.Now()
	img, err := imageio.Load(req.ImagePath)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	m.addTiming("load", start)
	b := img.Bounds()
	log.Info(log.Fields{"image": req.ImagePath, "width": b.Dx(), "height": b.Dy(), "spec": spec.Name()}, "processing portrait")

	var seg *mask.Mask
	if req.MaskPath != "" {
		start = time.Now()
		seg, err = mask.LoadPNG(req.MaskPath)
		if err != nil {
			return nil, fmt.Errorf("pipeline: %w", err)
		}
		m.addTiming("mask", start)
	}

	start = time.Now()
	mesh, err := p.obtainMesh(req, img)
	if err != nil {
		return nil, err
	}
	m.addTiming("detect", start)

	start = time.Now()
	res := facefit.Fit(mesh, b.Dx(), b.Dy(), seg, spec.Frame(), engineTracer())
	m.addTiming("fit", start)
	m.Fit = res
	logFit(res)

	start = time.Now()
	photo, err := ExecuteCrop(img, res)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	m.addTiming("crop", start)

	if err := os.MkdirAll(p.cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("pipeline: output dir: %w", err)
	}
	base := strings.TrimSuffix(filepath.Base(req.ImagePath), filepath.Ext(req.ImagePath))
	outPath := func(suffix string) string {
		return filepath.Join(p.cfg.OutputDir, base+suffix)
	}

	start = time.Now()
	photoPath := outPath("_processed.jpg")
	if err := p.saveWithinSize(photoPath, photo, spec.FileSizeMaxKB); err != nil {
		return nil, err
	}
	m.Photo = artifact(photoPath)
	m.addTiming("save", start)

	start = time.Now()
	opts := preview.DefaultOptions()
	opts.WatermarkText = p.cfg.WatermarkText
	opts.FontPath = p.cfg.FontPath
	previewPath := outPath("_preview.jpg")
	if err := imageio.SaveJPEG(previewPath, preview.Render(photo, res, opts), p.cfg.JPEGQuality); err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	m.Preview = artifact(previewPath)
	m.addTiming("preview", start)

	start = time.Now()
	layout := printsheet.DefaultLayout(spec.PhotoWidthPx(), spec.PhotoHeightPx(), spec.DPI)
	layout.Rows = p.cfg.SheetRows
	layout.Cols = p.cfg.SheetCols

	sheet, err := printsheet.Compose(photo, layout)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	sheetPath := outPath("_printable.jpg")
	if err := imageio.SaveJPEG(sheetPath, sheet, p.cfg.JPEGQuality); err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	m.PrintSheet = artifact(sheetPath)

	sheetPreview, err := printsheet.ComposePreview(photo, layout, p.cfg.WatermarkText, p.cfg.FontPath)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	sheetPreviewPath := outPath("_printable_preview.jpg")
	if err := imageio.SaveJPEG(sheetPreviewPath, sheetPreview, p.cfg.JPEGQuality); err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	m.PrintPreview = artifact(sheetPreviewPath)
	m.addTiming("printsheet", start)

	manifestPath := outPath("_manifest.json")
	if err := m.Save(manifestPath); err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	log.Info(log.Fields{"manifest": manifestPath, "success": res.PositioningSuccess}, "processing complete")
	return m, nil
}

func (p *Processor) obtainMesh(req Request, img image.Image) (*landmarks.Mesh, error) {
	if req.MeshPath != "" {
		mesh, err := detect.LoadMeshFile(req.MeshPath)
		if err != nil {
			return nil, fmt.Errorf("pipeline: %w", err)
		}
		return mesh, nil
	}
	if p.provider == nil {
		prov, err := detect.NewPigoProvider(p.cfg.CascadePath)
		if err != nil {
			return nil, fmt.Errorf("pipeline: no mesh file and no detector: %w", err)
		}
		p.provider = prov
	}
	mesh, err := p.provider.DetectMesh(img)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	return mesh, nil
}

// saveWithinSize re-encodes at decreasing quality until the file meets
// the spec's size cap. Gives up at quality 40 and keeps the last try.
func (p *Processor) saveWithinSize(path string, img image.Image, maxKB *int) error {
	quality := p.cfg.JPEGQuality
	for {
		if err := imageio.SaveJPEG(path, img, quality); err != nil {
			return fmt.Errorf("pipeline: %w", err)
		}
		if maxKB == nil {
			return nil
		}
		fi, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("pipeline: %w", err)
		}
		if fi.Size() <= int64(*maxKB)*1024 || quality <= 40 {
			if fi.Size() > int64(*maxKB)*1024 {
				log.Warn(log.Fields{"path": path, "size": fi.Size(), "max_kb": *maxKB}, "output exceeds spec file size cap")
			}
			return nil
		}
		quality -= 5
	}
}

// engineTracer adapts the positioning engine's trace hook onto the
// structured logger.
func engineTracer() facefit.Tracer {
	return func(format string, args ...any) {
		log.Debug(log.Fields{"stage": "facefit"}, fmt.Sprintf(format, args...))
	}
}

func logFit(res facefit.Result) {
	fields := log.Fields{
		"scale":   res.ScaleFactor,
		"method":  res.Positioning.Method.String(),
		"head_px": res.AchievedHeadHeightPx,
	}
	if res.PositioningSuccess {
		log.Info(fields, "positioning complete")
	} else {
		fields["warnings"] = strings.Join(res.Warnings, "; ")
		log.Warn(fields, "positioning fell back to full frame")
	}
}
