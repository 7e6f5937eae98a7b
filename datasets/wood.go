// Package datasets bundles sample series for examples and benchmarks.
package datasets

// Wood returns a copy of the wood dataset: 320 evenly spaced readings used in
// the Whittaker smoothing literature.
func Wood() []float64 {
	out := make([]float64, len(wood))
	copy(out, wood)
	return out
}

var wood = []float64{
	106, 111, 111, 107, 105, 107, 110, 108, 111, 119, 117, 107, 105, 107, 109, 105,
	104, 102, 108, 113, 113, 107, 103, 103, 98, 102, 103, 104, 105, 105, 105, 101,
	103, 107, 109, 104, 100, 103, 100, 105, 102, 105, 106, 107, 104, 107, 109, 108,
	111, 107, 107, 106, 107, 102, 102, 101, 103, 103, 103, 100, 101, 101, 100, 102,
	101, 96, 96, 98, 104, 107, 107, 102, 105, 101, 105, 110, 111, 111, 100, 102,
	102, 107, 112, 114, 113, 108, 106, 103, 103, 101, 103, 106, 107, 106, 107, 107,
	104, 111, 117, 118, 115, 107, 110, 117, 121, 122, 123, 119, 117, 118, 115, 111,
	108, 107, 105, 105, 105, 103, 105, 107, 109, 110, 111, 108, 107, 106, 108, 107,
	105, 102, 101, 102, 101, 97, 100, 105, 108, 108, 105, 103, 103, 100, 103, 106,
	107, 97, 98, 100, 101, 97, 99, 101, 104, 107, 109, 111, 109, 103, 105, 102,
	108, 113, 113, 108, 107, 102, 106, 106, 106, 103, 97, 103, 107, 102, 107, 111,
	110, 107, 103, 99, 97, 99, 100, 99, 100, 99, 100, 99, 99, 98, 100, 102,
	102, 106, 112, 113, 109, 107, 105, 97, 105, 110, 113, 108, 101, 95, 99, 100,
	97, 92, 98, 101, 103, 101, 92, 95, 91, 86, 86, 87, 93, 97, 95, 91,
	86, 87, 88, 88, 89, 87, 90, 88, 87, 89, 90, 90, 87, 86, 88, 83,
	85, 85, 87, 91, 93, 96, 95, 89, 89, 85, 88, 89, 92, 95, 91, 87,
	83, 83, 82, 81, 81, 80, 81, 82, 80, 76, 72, 73, 75, 77, 75, 80,
	81, 81, 81, 81, 81, 84, 86, 87, 88, 86, 84, 82, 80, 79, 82, 82,
	76, 81, 83, 82, 81, 75, 78, 78, 78, 79, 82, 82, 84, 82, 77, 77,
	77, 75, 77, 73, 75, 76, 80, 77, 68, 71, 71, 68, 67, 69, 72, 82,
}
