package whittaker_test

import (
	"fmt"

	"github.com/YuminosukeSato/scismooth/datasets"
	"github.com/YuminosukeSato/scismooth/whittaker"
)

func ExampleSmoother_Smooth() {
	y := []float64{1.1, 1.9, 3.1, 3.91, 5.0, 6.02, 7.01, 7.7, 9.0, 10.0}
	s, err := whittaker.New(2e4, 2, len(y))
	if err != nil {
		fmt.Println(err)
		return
	}
	z, err := s.Smooth(y)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(len(z))
	// Output: 10
}

func ExampleSmoother_Smooth_missingValues() {
	y := []float64{1.1, 1.9, 3.1, 3.91, 5.0, 0, 7.01, 7.7, 9.0, 10.0}
	w := []float64{1, 1, 1, 1, 1, 0, 1, 1, 1, 1}
	s, err := whittaker.New(2e4, 2, len(y), whittaker.WithWeights(w))
	if err != nil {
		fmt.Println(err)
		return
	}
	z, err := s.Smooth(y)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("interpolated: %t\n", z[5] > z[4] && z[5] < z[6])
	// Output: interpolated: true
}

func ExampleSmoother_SmoothOptimal() {
	y := datasets.Wood()
	s, err := whittaker.New(1, 2, len(y))
	if err != nil {
		fmt.Println(err)
		return
	}
	res, err := s.SmoothOptimal(y, true)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(len(res.All()), len(res.Optimal().Smoothed))
	// Output: 21 320
}
