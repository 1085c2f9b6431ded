// Command fitbatch runs detection and fitting over a directory of
// portraits and prints aggregate statistics, for regression-checking
// positioning across a corpus.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"idphoto/internal/detect"
	"idphoto/internal/docspec"
	"idphoto/internal/facefit"
	"idphoto/internal/imageio"
	"idphoto/internal/report"
)

var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".tif":  true,
	".tiff": true,
}

func main() {
	dir := flag.String("dir", "", "Directory of portrait images")
	country := flag.String("country", "US", "Country code of the document spec")
	doc := flag.String("doc", "Passport", "Document name of the spec")
	cascade := flag.String("cascade", "facefinder", "Pigo cascade file")
	jsonOut := flag.String("json", "", "Write the full summary JSON to this path")
	flag.Parse()

	if *dir == "" {
		fmt.Println("Usage: fitbatch -dir <portraits> [-country US] [-doc Passport] [-json summary.json]")
		os.Exit(1)
	}

	spec := docspec.Get(*country, *doc)
	if spec == nil {
		fmt.Fprintf(os.Stderr, "Unknown spec %s/%s\n", *country, *doc)
		os.Exit(1)
	}
	frame := spec.Frame()

	prov, err := detect.NewPigoProvider(*cascade)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load cascade: %v\n", err)
		os.Exit(1)
	}

	entries, err := os.ReadDir(*dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read directory: %v\n", err)
		os.Exit(1)
	}

	var samples []report.Sample
	for _, e := range entries {
		if e.IsDir() || !imageExts[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		path := filepath.Join(*dir, e.Name())
		samples = append(samples, runOne(path, prov, frame))
	}

	if len(samples) == 0 {
		fmt.Fprintf(os.Stderr, "No images found in %s\n", *dir)
		os.Exit(1)
	}

	summary := report.Summarize(samples)
	fmt.Printf("Fit results for %s over %d images:\n\n", spec.Name(), summary.Count)
	summary.WriteTable(os.Stdout)

	if *jsonOut != "" {
		if err := summary.SaveJSON(*jsonOut); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		fmt.Printf("\nSummary written to %s\n", *jsonOut)
	}
}

func runOne(path string, prov *detect.PigoProvider, frame facefit.Spec) report.Sample {
	s := report.Sample{Path: path}

	img, err := imageio.Load(path)
	if err != nil {
		s.Err = err.Error()
		return s
	}
	mesh, err := prov.DetectMesh(img)
	if err != nil {
		s.Err = err.Error()
		return s
	}

	b := img.Bounds()
	s.Result = facefit.Fit(mesh, b.Dx(), b.Dy(), nil, frame, nil)
	return s
}
