package pillowfight

import (
	"bufio"
	"fmt"
	"io"
)

// WritePPM writes a Bitmap as a binary PPM (P6) file: header
// "P6\n{w} {h}\n255\n" followed by 3 raw RGB bytes per pixel, alpha
// dropped (spec.md §6).
func WritePPM(w io.Writer, img Bitmap) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P6\n%d %d\n255\n", img.W, img.H); err != nil {
		return err
	}
	for y := 0; y < img.H; y++ {
		for x := 0; x < img.W; x++ {
			r, g, b, _ := img.At(x, y)
			if _, err := bw.Write([]byte{r, g, b}); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// WritePGM writes a DoubleMatrix as a binary PGM (P5) file: header
// "P5\n{w} {h}\n255\n" followed by 1 byte per pixel, each value scaled
// by factor and clamped to [0, 255] (spec.md §6).
func WritePGM(w io.Writer, m DoubleMatrix, factor float64) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P5\n%d %d\n255\n", m.W, m.H); err != nil {
		return err
	}
	for _, v := range m.V {
		scaled := v * factor
		if scaled < 0 {
			scaled = 0
		}
		if scaled > 255 {
			scaled = 255
		}
		if err := bw.WriteByte(byte(scaled)); err != nil {
			return err
		}
	}
	return bw.Flush()
}
