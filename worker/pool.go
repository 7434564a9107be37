package worker //import "github.com/hondana-dev/hondana/worker"

import (
	"github.com/hondana-dev/hondana/library"
	"github.com/hondana-dev/hondana/model"
)

type WorkPool interface {
	Push(jobs ...model.Job)
}

type Pool struct {
	queue chan model.Job
}

func (p *Pool) Push(jobs ...model.Job) {
	for _, job := range jobs {
		p.queue <- job
	}
}

// NewPool creates a pool of background cache-refresh workers.
func NewPool(svc *library.Service, size int) *Pool {
	workerPool := &Pool{
		queue: make(chan model.Job, size*4),
	}

	for i := 0; i < size; i++ {
		worker := &RefreshWorker{id: i, svc: svc}
		go worker.Run(workerPool.queue)
	}
	return workerPool
}
