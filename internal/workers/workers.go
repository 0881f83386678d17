package workers

import "context"

// Workers aggregates the background workers of the engine and starts them
// together. All workers share the lifetime of the context passed to Run.
type Workers struct {
	workers []Worker
}

// NewWorkers builds the aggregate from the given workers.
func NewWorkers(ws ...Worker) *Workers {
	return &Workers{workers: ws}
}

// Run starts every registered worker in registration order.
func (w *Workers) Run(ctx context.Context) {
	for _, worker := range w.workers {
		worker.Run(ctx)
	}
}
