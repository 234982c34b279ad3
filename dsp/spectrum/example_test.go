package spectrum_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-meter/dsp/spectrum"
)

func ExampleAnalyzer() {
	a, err := spectrum.NewAnalyzer(1024)
	if err != nil {
		panic(err)
	}

	var frame []float64
	for i := range 1024 {
		x := math.Sin(2 * math.Pi * 3000 * float64(i) / 48000)
		if mags, ok := a.Push(x); ok {
			frame = mags
		}
	}

	bin, _ := spectrum.PeakBin(frame)
	fmt.Println(len(frame), bin, spectrum.BinFrequency(bin, a.Size(), 48000))
	// Output:
	// 512 64 3000
}

func ExampleMagnitudeToDB() {
	db := spectrum.MagnitudeToDB([]float64{8, 4, 0}, 8, -100)
	fmt.Printf("%.1f %.1f %.1f\n", db[0], db[1], db[2])
	// Output:
	// 0.0 -6.0 -100.0
}

func ExampleFrequencyBin() {
	fmt.Println(spectrum.FrequencyBin(1000, 1024, 48000))
	// Output:
	// 21
}

func ExampleCentroid() {
	fmt.Println(spectrum.Centroid([]float64{0, 1, 0, 1}, 8000))
	// Output:
	// 2000
}
