package paperpdf

// CSS defines 96 pixels per inch; an inch is 25.4mm.
const (
	cssPixelsPerInch = 96
	mmPerInch        = 25.4

	// PixelsPerMM converts physical millimeters to CSS pixels (~3.7795275591).
	PixelsPerMM = cssPixelsPerInch / mmPerInch
)

// MMToPixels converts a physical length to CSS pixels so that on-screen
// page proportions match the chosen paper.
func MMToPixels(mm float64) float64 {
	return mm * PixelsPerMM
}

// PixelsToMM is the inverse of MMToPixels.
func PixelsToMM(px float64) float64 {
	return px / PixelsPerMM
}
