// Package landmarks maps a fixed-topology face mesh onto named pixel-space
// regions. The index table is a contract against the external landmark
// detector's topology: the same index must mean the same anatomical point
// for every caller. Swapping detector models means updating this table.
package landmarks

// MeshPoints is the point count of the full refined mesh topology. Meshes
// without iris refinement carry 10 fewer points; the iris-based regions are
// then resolved through their fallbacks.
const MeshPoints = 478

// Region identifies a named anatomical region resolved from the mesh.
type Region int

const (
	ForeheadTop Region = iota
	ForeheadCenter
	TempleLeft
	TempleRight
	LeftEyeCenter
	LeftEyeInner
	LeftEyeOuter
	RightEyeCenter
	RightEyeInner
	RightEyeOuter
	ChinBottom
	FaceContour

	// Derived regions, computed from FaceContour extrema rather than the
	// index table.
	FaceContourTop
	FaceContourBottom

	regionCount
)

// String returns the region name.
func (r Region) String() string {
	switch r {
	case ForeheadTop:
		return "forehead_top"
	case ForeheadCenter:
		return "forehead_center"
	case TempleLeft:
		return "temple_left"
	case TempleRight:
		return "temple_right"
	case LeftEyeCenter:
		return "left_eye_center"
	case LeftEyeInner:
		return "left_eye_inner"
	case LeftEyeOuter:
		return "left_eye_outer"
	case RightEyeCenter:
		return "right_eye_center"
	case RightEyeInner:
		return "right_eye_inner"
	case RightEyeOuter:
		return "right_eye_outer"
	case ChinBottom:
		return "chin_bottom"
	case FaceContour:
		return "face_contour"
	case FaceContourTop:
		return "face_contour_top"
	case FaceContourBottom:
		return "face_contour_bottom"
	default:
		return "unknown"
	}
}

// regionIndexes is the topology contract: mesh indices per region, indexed
// by Region. Derived regions have no entries. Eye centers use the iris
// refinement indices (468..477) and so resolve only on refined meshes.
var regionIndexes = [regionCount][]int{
	ForeheadTop:    {10},
	ForeheadCenter: {9, 10, 151},
	TempleLeft:     {234, 127, 162},
	TempleRight:    {454, 356, 389},
	LeftEyeCenter:  {468, 470},
	LeftEyeInner:   {133},
	LeftEyeOuter:   {33},
	RightEyeCenter: {473, 475},
	RightEyeInner:  {362},
	RightEyeOuter:  {263},
	ChinBottom:     {152},
	FaceContour: {10, 338, 297, 332, 284, 251, 389, 356, 454, 323, 361, 288,
		397, 365, 379, 378, 400, 377, 152, 148, 176, 149, 150, 136,
		172, 58, 132, 93, 234, 127, 162, 21, 54, 103, 67, 109},
}

// RegionIndexes returns the mesh indices backing a region. Derived regions
// return nil.
func RegionIndexes(r Region) []int {
	if r < 0 || r >= regionCount {
		return nil
	}
	return regionIndexes[r]
}
