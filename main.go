// Command idphoto runs the full document-photo pipeline for one
// portrait: detect, fit, crop, and write the processed photo, annotated
// preview, print sheets, and a JSON manifest.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"idphoto/internal/docspec"
	"idphoto/internal/pipeline"
	"idphoto/internal/version"
)

func main() {
	cfg := pipeline.LoadConfig()

	imagePath := flag.String("image", "", "Path to portrait image (JPEG, PNG, or TIFF)")
	country := flag.String("country", "US", "Country code of the document spec")
	doc := flag.String("doc", "Passport", "Document name of the spec")
	maskPath := flag.String("mask", "", "Optional segmentation mask PNG (foreground nonzero)")
	meshPath := flag.String("mesh", "", "Optional landmark mesh JSON; skips the built-in detector")
	outDir := flag.String("out", cfg.OutputDir, "Output directory")
	cascade := flag.String("cascade", cfg.CascadePath, "Pigo cascade file for face detection")
	listSpecs := flag.Bool("list", false, "List known document specs and exit")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("idphoto %s\n", version.String())
		return
	}
	if *listSpecs {
		fmt.Println(strings.Join(docspec.List(), "\n"))
		return
	}
	if *imagePath == "" {
		fmt.Println("Usage: idphoto -image <path> [-country US] [-doc Passport] [-mask m.png] [-mesh mesh.json] [-out dir]")
		os.Exit(1)
	}

	cfg.OutputDir = *outDir
	cfg.CascadePath = *cascade

	proc := pipeline.NewProcessor(cfg)
	m, err := proc.Process(pipeline.Request{
		ImagePath: *imagePath,
		MaskPath:  *maskPath,
		MeshPath:  *meshPath,
		Country:   *country,
		Document:  *doc,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Processing failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Processed %s for %s/%s\n", *imagePath, m.Country, m.Document)
	fmt.Printf("  scale %.3f, method %s, head %.1fpx\n",
		m.Fit.ScaleFactor, m.Fit.Positioning.Method, m.Fit.AchievedHeadHeightPx)
	fmt.Printf("  photo:   %s (%d bytes)\n", m.Photo.Path, m.Photo.SizeBytes)
	fmt.Printf("  preview: %s\n", m.Preview.Path)
	fmt.Printf("  sheet:   %s\n", m.PrintSheet.Path)
	if len(m.Fit.Warnings) > 0 {
		fmt.Printf("  warnings:\n")
		for _, w := range m.Fit.Warnings {
			fmt.Printf("    - %s\n", w)
		}
	}
	if !m.Fit.PositioningSuccess {
		os.Exit(2)
	}
}
