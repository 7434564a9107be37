package worker //import "github.com/hondana-dev/hondana/worker"

import (
	"go.uber.org/zap"

	"github.com/hondana-dev/hondana/library"
	"github.com/hondana-dev/hondana/log"
	"github.com/hondana-dev/hondana/model"
)

// RefreshWorker recomputes invalidated views so the next read is warm.
// Refresh is best-effort: failures are logged and the view stays cold
// until the next read-through.
type RefreshWorker struct {
	id  int
	svc *library.Service
}

func (w *RefreshWorker) Run(queue <-chan model.Job) {
	for job := range queue {
		log.Debug("Refreshing view",
			zap.Int("worker_id", w.id),
			zap.String("view", job.View))
		if err := w.svc.RefreshView(job.View); err != nil {
			log.Warn("Failed to refresh view",
				zap.Int("worker_id", w.id),
				zap.String("view", job.View),
				zap.Error(err))
		}
	}
}
