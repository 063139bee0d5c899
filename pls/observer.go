package pls

import "time"

// FitEvent describes one fit.
type FitEvent struct {
	Algorithm  Algorithm
	Samples    int
	Features   int
	Targets    int
	Components int
}

// FitObserver receives fit lifecycle events. Calls happen on the fitting goroutine.
type FitObserver interface {
	FitStarted(e FitEvent)
	// ComponentFitted is called once per non-degenerate component with its weight norm.
	ComponentFitted(e FitEvent, index int, norm float64)
	// ComponentDegenerate is called once, for the first component whose weight vanished.
	ComponentDegenerate(e FitEvent, index int, norm float64)
	FitFinished(e FitEvent, elapsed time.Duration, err error)
}

// NopObserver ignores every event.
type NopObserver struct{}

func (NopObserver) FitStarted(FitEvent) {}
func (NopObserver) ComponentFitted(FitEvent, int, float64) {}
func (NopObserver) ComponentDegenerate(FitEvent, int, float64) {}
func (NopObserver) FitFinished(FitEvent, time.Duration, error) {}
