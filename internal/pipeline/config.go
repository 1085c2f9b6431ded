package pipeline

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"idphoto/internal/imageio"
)

// Config holds pipeline settings. Values come from DefaultConfig,
// overridden by PHOTOFIT_* environment variables, overridden by flags at
// the command layer.
type Config struct {
	// OutputDir receives every artifact the pipeline writes.
	OutputDir string

	// CascadePath is the pigo facefinder cascade used when no mesh file
	// is supplied.
	CascadePath string

	// FontPath is an optional TTF/OTF for watermark and measurement
	// text; empty falls back to the built-in bitmap face.
	FontPath string

	JPEGQuality   int
	WatermarkText string

	SheetRows int
	SheetCols int
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		OutputDir:     "out",
		CascadePath:   "facefinder",
		JPEGQuality:   imageio.DefaultJPEGQuality,
		WatermarkText: "PREVIEW",
		SheetRows:     2,
		SheetCols:     2,
	}
}

// LoadConfig reads a .env file when present, then applies PHOTOFIT_*
// overrides on top of the defaults.
func LoadConfig() Config {
	godotenv.Load()

	cfg := DefaultConfig()
	envString(&cfg.OutputDir, "PHOTOFIT_OUTPUT_DIR")
	envString(&cfg.CascadePath, "PHOTOFIT_CASCADE")
	envString(&cfg.FontPath, "PHOTOFIT_FONT")
	envString(&cfg.WatermarkText, "PHOTOFIT_WATERMARK")
	envInt(&cfg.JPEGQuality, "PHOTOFIT_JPEG_QUALITY")
	envInt(&cfg.SheetRows, "PHOTOFIT_SHEET_ROWS")
	envInt(&cfg.SheetCols, "PHOTOFIT_SHEET_COLS")
	return cfg
}

func envString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
