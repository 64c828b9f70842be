// Command pillowfight runs the pillowfight image filters from the
// command line.
//
// Usage:
//
//	pillowfight gaussian [options] <input> <output>
//	pillowfight sobel <input> <output>
//	pillowfight canny <input> <output>
//	pillowfight ace [options] <input> <output>
//	pillowfight swt [options] <input> <output>
//	pillowfight compare [options] <a> <b> <output>
//	pillowfight debug <input> <output.pgm|output.ppm>
package main

import (
	"flag"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/deepteams/pillowfight"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "gaussian":
		err = runGaussian(os.Args[2:])
	case "sobel":
		err = runSobel(os.Args[2:])
	case "canny":
		err = runCanny(os.Args[2:])
	case "ace":
		err = runACE(os.Args[2:])
	case "swt":
		err = runSWT(os.Args[2:])
	case "compare":
		err = runCompare(os.Args[2:])
	case "debug":
		err = runDebug(os.Args[2:])
	case "-h", "-help", "--help", "help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "pillowfight: unknown command %q\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "pillowfight: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage:
  pillowfight gaussian [options] <input> <output>
  pillowfight sobel <input> <output>
  pillowfight canny <input> <output>
  pillowfight ace [options] <input> <output>
  pillowfight swt [options] <input> <output>
  pillowfight compare [options] <a> <b> <output>
  pillowfight debug <input> <output.pgm|output.ppm>

Run "pillowfight <command> -h" for command-specific options.
`)
}

// loadImage decodes input in any format golang.org/x/image and the
// standard library register, and converts it to a pillowfight.Bitmap.
func loadImage(path string) (pillowfight.Bitmap, error) {
	f, err := os.Open(path)
	if err != nil {
		return pillowfight.Bitmap{}, err
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return pillowfight.Bitmap{}, fmt.Errorf("decoding %s: %w", path, err)
	}

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	out := pillowfight.NewBitmap(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, a := src.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			out.Set(x, y, uint8(r>>8), uint8(g>>8), uint8(b>>8), uint8(a>>8))
		}
	}
	return out, nil
}

// saveImage writes img as PNG (or JPEG when path ends in .jpg/.jpeg) to
// path.
func saveImage(path string, img pillowfight.Bitmap) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	rgba := image.NewNRGBA(image.Rect(0, 0, img.W, img.H))
	for y := 0; y < img.H; y++ {
		for x := 0; x < img.W; x++ {
			r, g, b, a := img.At(x, y)
			i := rgba.PixOffset(x, y)
			rgba.Pix[i+0], rgba.Pix[i+1], rgba.Pix[i+2], rgba.Pix[i+3] = r, g, b, a
		}
	}

	if isJPEG(path) {
		return jpeg.Encode(f, rgba, &jpeg.Options{Quality: 90})
	}
	return png.Encode(f, rgba)
}

func isJPEG(path string) bool {
	n := len(path)
	return (n >= 4 && path[n-4:] == ".jpg") || (n >= 5 && path[n-5:] == ".jpeg")
}

func runGaussian(args []string) error {
	fs := flag.NewFlagSet("gaussian", flag.ContinueOnError)
	sigma := fs.Float64("sigma", pillowfight.DefaultGaussianOptions().Sigma, "gaussian sigma (0 = derive from nb_stddev)")
	nbStddev := fs.Int("nb_stddev", pillowfight.DefaultGaussianOptions().NbStddev, "kernel length in taps")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return fmt.Errorf("gaussian: missing <input> <output>")
	}

	in, err := loadImage(fs.Arg(0))
	if err != nil {
		return err
	}
	out := pillowfight.NewBitmap(in.W, in.H)
	if err := pillowfight.Gaussian(in, out, pillowfight.GaussianOptions{Sigma: *sigma, NbStddev: *nbStddev}); err != nil {
		return err
	}
	return saveImage(fs.Arg(1), out)
}

func runSobel(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("sobel: missing <input> <output>")
	}
	in, err := loadImage(args[0])
	if err != nil {
		return err
	}
	out := pillowfight.NewBitmap(in.W, in.H)
	if err := pillowfight.Sobel(in, out); err != nil {
		return err
	}
	return saveImage(args[1], out)
}

func runCanny(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("canny: missing <input> <output>")
	}
	in, err := loadImage(args[0])
	if err != nil {
		return err
	}
	out := pillowfight.NewBitmap(in.W, in.H)
	if err := pillowfight.Canny(in, out); err != nil {
		return err
	}
	return saveImage(args[1], out)
}

func runACE(args []string) error {
	fs := flag.NewFlagSet("ace", flag.ContinueOnError)
	defaults := pillowfight.DefaultACEOptions()
	nbSamples := fs.Int("samples", defaults.NbSamples, "number of random reference samples")
	slope := fs.Float64("slope", defaults.Slope, "saturation slope")
	limit := fs.Float64("limit", defaults.Limit, "saturation limit")
	nbThreads := fs.Int("threads", defaults.NbThreads, "worker threads")
	seed := fs.Int64("seed", 0, "RNG seed (determinism contract)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return fmt.Errorf("ace: missing <input> <output>")
	}

	in, err := loadImage(fs.Arg(0))
	if err != nil {
		return err
	}
	out := pillowfight.NewBitmap(in.W, in.H)
	opts := pillowfight.ACEOptions{NbSamples: *nbSamples, Slope: *slope, Limit: *limit, NbThreads: *nbThreads, Seed: *seed}
	if err := pillowfight.ACE(in, out, opts); err != nil {
		return err
	}
	return saveImage(fs.Arg(1), out)
}

func runSWT(args []string) error {
	fs := flag.NewFlagSet("swt", flag.ContinueOnError)
	mode := fs.String("mode", "bw_text", "output mode: bw_text/grayscale_text/original_boxes")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return fmt.Errorf("swt: missing <input> <output>")
	}

	var output pillowfight.SWTOutputType
	switch *mode {
	case "bw_text":
		output = pillowfight.BWText
	case "grayscale_text":
		output = pillowfight.GrayscaleText
	case "original_boxes":
		output = pillowfight.OriginalBoxes
	default:
		return fmt.Errorf("swt: unknown mode %q", *mode)
	}

	in, err := loadImage(fs.Arg(0))
	if err != nil {
		return err
	}
	out := pillowfight.NewBitmap(in.W, in.H)
	if err := pillowfight.SWT(in, out, output); err != nil {
		return err
	}
	return saveImage(fs.Arg(1), out)
}

func runCompare(args []string) error {
	fs := flag.NewFlagSet("compare", flag.ContinueOnError)
	tolerance := fs.Int("tolerance", pillowfight.DefaultCompareOptions().Tolerance, "grayscale tolerance for equality")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 3 {
		return fmt.Errorf("compare: missing <a> <b> <output>")
	}

	a, err := loadImage(fs.Arg(0))
	if err != nil {
		return err
	}
	b, err := loadImage(fs.Arg(1))
	if err != nil {
		return err
	}
	out := pillowfight.NewBitmap(a.W, a.H)
	n, err := pillowfight.Compare(a, b, out, pillowfight.CompareOptions{Tolerance: *tolerance})
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "pillowfight: %d mismatching pixels\n", n)
	return saveImage(fs.Arg(2), out)
}

func runDebug(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("debug: missing <input> <output.pgm|output.ppm>")
	}
	in, err := loadImage(args[0])
	if err != nil {
		return err
	}

	f, err := os.Create(args[1])
	if err != nil {
		return err
	}
	defer f.Close()

	if isPGM(args[1]) {
		gray := pillowfight.NewBitmap(in.W, in.H)
		if err := pillowfight.Sobel(in, gray); err != nil {
			return err
		}
		m := pillowfight.DoubleMatrix{W: in.W, H: in.H, V: make([]float64, in.W*in.H)}
		for y := 0; y < in.H; y++ {
			for x := 0; x < in.W; x++ {
				m.Set(x, y, float64(gray.Grayscale(x, y)))
			}
		}
		return pillowfight.WritePGM(f, m, 1.0)
	}
	return pillowfight.WritePPM(f, in)
}

func isPGM(path string) bool {
	n := len(path)
	return n >= 4 && path[n-4:] == ".pgm"
}
