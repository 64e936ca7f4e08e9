// Package display renders MU densities as colour-mapped images.
//
// Heatmap draws a density with a title, axis limits and a colour bar;
// Difference draws the difference of two densities on a diverging map:
//
//	img, err := display.Heatmap(grid, density)
//	if err != nil {
//		return err
//	}
//	err = display.SavePNG("beam.png", img)
package display
