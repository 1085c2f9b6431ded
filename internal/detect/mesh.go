// Package detect supplies landmark meshes to the positioning engine:
// either loaded from a mesh file exported by the upstream landmark
// service, or synthesized from a coarse cascade face detection when no
// mesh is available.
package detect

import (
	"encoding/json"
	"fmt"
	"os"

	"idphoto/internal/landmarks"
	"idphoto/pkg/geometry"
)

// LoadMeshFile reads a mesh JSON file: an array of [x, y] pairs in
// normalized [0,1] coordinates, index i being topology point i.
func LoadMeshFile(path string) (*landmarks.Mesh, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mesh file: %w", err)
	}

	var pairs [][]float64
	if err := json.Unmarshal(data, &pairs); err != nil {
		return nil, fmt.Errorf("failed to parse mesh file: %w", err)
	}
	if len(pairs) == 0 {
		return nil, fmt.Errorf("mesh file %s contains no points", path)
	}
	if len(pairs) > landmarks.MeshPoints {
		return nil, fmt.Errorf("mesh file %s has %d points, topology carries at most %d",
			path, len(pairs), landmarks.MeshPoints)
	}

	points := make([]geometry.Point2D, len(pairs))
	for i, pair := range pairs {
		if len(pair) < 2 {
			return nil, fmt.Errorf("mesh point %d has %d coordinates, want 2", i, len(pair))
		}
		x, y := pair[0], pair[1]
		if x < -0.5 || x > 1.5 || y < -0.5 || y > 1.5 {
			return nil, fmt.Errorf("mesh point %d (%.3f, %.3f) is not in normalized coordinates", i, x, y)
		}
		points[i] = geometry.Point2D{X: x, Y: y}
	}
	return landmarks.MeshFromPoints(points), nil
}

// SaveMeshFile writes a mesh back out in the same [[x, y], ...] format.
// Sparse meshes fill absent indices with [0, 0] up to the highest index
// present.
func SaveMeshFile(path string, mesh *landmarks.Mesh, pointCount int) error {
	pairs := make([][]float64, pointCount)
	for i := 0; i < pointCount; i++ {
		if p, ok := mesh.Point(i); ok {
			pairs[i] = []float64{p.X, p.Y}
		} else {
			pairs[i] = []float64{0, 0}
		}
	}
	data, err := json.MarshalIndent(pairs, "", " ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
