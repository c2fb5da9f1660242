package simulation

import (
	"context"
	"log"
	"time"

	"coldstore/internal/models"
)

// CycleFunc consumes one simulated batch
type CycleFunc func(ctx context.Context, readings []models.RawReading)

// Runner drives periodic simulation cycles
type Runner struct {
	simulator *Simulator
	interval  time.Duration
	onCycle   CycleFunc
}

// NewRunner creates a runner that emits a batch every interval
func NewRunner(simulator *Simulator, interval time.Duration, onCycle CycleFunc) *Runner {
	return &Runner{
		simulator: simulator,
		interval:  interval,
		onCycle:   onCycle,
	}
}

// Start runs cycles until the context is cancelled
func (r *Runner) Start(ctx context.Context) {
	log.Printf("SimulationRunner: Starting, interval=%v", r.interval)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	// Initial cycle
	r.cycle(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("SimulationRunner: Shutting down...")
			return
		case <-ticker.C:
			r.cycle(ctx)
		}
	}
}

func (r *Runner) cycle(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	r.onCycle(ctx, r.simulator.Batch())
}
