// Command cropcheck computes the fit for one portrait and prints the
// report without writing the normal pipeline artifacts. Useful for
// checking how a spec positions a given photo.
package main

import (
	"flag"
	"fmt"
	"os"

	"idphoto/internal/detect"
	"idphoto/internal/docspec"
	"idphoto/internal/facefit"
	"idphoto/internal/imageio"
	"idphoto/internal/landmarks"
	"idphoto/internal/mask"
	"idphoto/internal/pipeline"
	"idphoto/internal/preview"
)

func main() {
	imagePath := flag.String("image", "", "Path to portrait image")
	country := flag.String("country", "US", "Country code of the document spec")
	doc := flag.String("doc", "Passport", "Document name of the spec")
	maskPath := flag.String("mask", "", "Optional segmentation mask PNG")
	meshPath := flag.String("mesh", "", "Optional landmark mesh JSON")
	cascade := flag.String("cascade", "facefinder", "Pigo cascade file")
	annotate := flag.String("annotate", "", "Write an annotated preview to this path")
	verbose := flag.Bool("v", false, "Print engine trace")
	flag.Parse()

	if *imagePath == "" {
		fmt.Println("Usage: cropcheck -image <path> [-country US] [-doc Passport] [-mesh mesh.json] [-annotate out.jpg]")
		os.Exit(1)
	}

	spec := docspec.Get(*country, *doc)
	if spec == nil {
		fmt.Fprintf(os.Stderr, "Unknown spec %s/%s\n", *country, *doc)
		os.Exit(1)
	}

	img, err := imageio.Load(*imagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load image: %v\n", err)
		os.Exit(1)
	}
	bounds := img.Bounds()
	fmt.Printf("Loaded image: %dx%d pixels\n", bounds.Dx(), bounds.Dy())

	var seg *mask.Mask
	if *maskPath != "" {
		seg, err = mask.LoadPNG(*maskPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load mask: %v\n", err)
			os.Exit(1)
		}
	}

	var mesh *landmarks.Mesh
	if *meshPath != "" {
		mesh, err = detect.LoadMeshFile(*meshPath)
	} else {
		var prov *detect.PigoProvider
		prov, err = detect.NewPigoProvider(*cascade)
		if err == nil {
			mesh, err = prov.DetectMesh(img)
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to obtain landmarks: %v\n", err)
		os.Exit(1)
	}

	var trace facefit.Tracer
	if *verbose {
		trace = func(format string, args ...any) {
			fmt.Printf("  trace: "+format+"\n", args...)
		}
	}

	frame := spec.Frame()
	fmt.Printf("Spec %s: %dx%d px, head %.0f-%.0f px\n",
		spec.Name(), frame.PhotoWidthPx, frame.PhotoHeightPx, frame.HeadMinPx, frame.HeadMaxPx)

	res := facefit.Fit(mesh, bounds.Dx(), bounds.Dy(), seg, frame, trace)

	fmt.Printf("\nFit report:\n")
	fmt.Printf("  scale factor:     %.4f\n", res.ScaleFactor)
	fmt.Printf("  crop rect:        (%d,%d)-(%d,%d)\n", res.CropLeft, res.CropTop, res.CropRight, res.CropBottom)
	fmt.Printf("  method:           %s (parameter %.1f px)\n", res.Positioning.Method, res.Positioning.ParameterPx)
	fmt.Printf("  head height:      %.1f px\n", res.AchievedHeadHeightPx)
	fmt.Printf("  eye from bottom:  %.1f px\n", res.AchievedEyeFromBottomPx)
	fmt.Printf("  head top margin:  %.1f px\n", res.AchievedHeadTopFromCropPx)
	for _, c := range res.Corrections {
		fmt.Printf("  correction:       %s\n", c)
	}
	for _, w := range res.Warnings {
		fmt.Printf("  warning:          %s\n", w)
	}
	fmt.Printf("  positioned:       %v\n", res.PositioningSuccess)

	if *annotate != "" {
		photo, err := pipeline.ExecuteCrop(img, res)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Crop failed: %v\n", err)
			os.Exit(1)
		}
		out := preview.Render(photo, res, preview.DefaultOptions())
		if err := imageio.SaveJPEG(*annotate, out, imageio.DefaultJPEGQuality); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to save preview: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("\nAnnotated preview written to %s\n", *annotate)
	}

	if !res.PositioningSuccess {
		os.Exit(2)
	}
}
