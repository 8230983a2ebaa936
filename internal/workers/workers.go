package workers

import (
	"github.com/soclink/authcore/internal/config"
	"github.com/soclink/authcore/internal/logger"
	"github.com/soclink/authcore/internal/service"
)

type Workers struct {
	workers []Worker
}

// NewWorkers assembles the background workers of the service: currently a
// single expiry sweeper over the in-memory security components.
func NewWorkers(services *service.Services, cfg config.Workers, logger *logger.Logger) *Workers {
	sweeper := NewExpirySweeper(cfg.SweepInterval, logger,
		services.Tracker,
		services.Sessions,
		services.Resets,
		services.MFA,
	)

	return &Workers{workers: []Worker{sweeper}}
}

func (w *Workers) Run() {
	for _, worker := range w.workers {
		worker.Run()
	}
}

// Stop terminates every worker that supports graceful shutdown and waits
// for it to exit.
func (w *Workers) Stop() {
	for _, worker := range w.workers {
		if stoppable, ok := worker.(interface{ Stop() }); ok {
			stoppable.Stop()
		}
	}
}
