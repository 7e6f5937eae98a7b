package model

// Smoother is implemented by anything that maps a series to its smoothed version.
type Smoother interface {
	// Smooth returns a new slice of the same length as y.
	Smooth(y []float64) ([]float64, error)
}

// ParameterGetter exposes the parameters a smoother was built with.
type ParameterGetter interface {
	Lambda() float64
	Order() int
	Length() int
}

// Updatable is implemented by smoothers whose parameters can change after
// construction. A rejected update leaves the smoother unchanged.
type Updatable interface {
	UpdateLambda(lambda float64) error
	UpdateOrder(order int) error
	UpdateWeights(weights []float64) error
}

// Versioned reports a counter that grows with every successful update.
type Versioned interface {
	Version() uint64
}

// StatefulSmoother combines the interfaces of a reusable, updatable smoother.
type StatefulSmoother interface {
	Smoother
	ParameterGetter
	Updatable
	Versioned
}
