package session

import (
	"context"
	"sync"
)

// fetchJob runs on a pool worker and produces the message to deliver.
type fetchJob func(ctx context.Context) Msg

// fetchPool runs provider lookups off the owner goroutine and posts their
// results to out.
type fetchPool struct {
	pending chan fetchJob
	out     chan<- Msg
	done    <-chan struct{}
	wg      sync.WaitGroup
}

func newFetchPool(ctx context.Context, workers int, out chan<- Msg, done <-chan struct{}) *fetchPool {
	if workers < 1 {
		workers = 1
	}
	p := &fetchPool{
		pending: make(chan fetchJob, 32),
		out:     out,
		done:    done,
	}
	p.wg.Add(workers)
	for range workers {
		go p.processLoop(ctx)
	}
	return p
}

// submit queues a job. It reports false when the queue is full.
func (p *fetchPool) submit(job fetchJob) bool {
	select {
	case p.pending <- job:
		return true
	default:
		return false
	}
}

func (p *fetchPool) processLoop(ctx context.Context) {
	defer p.wg.Done()
	for job := range p.pending {
		msg := job(ctx)
		select {
		case p.out <- msg:
		case <-p.done:
		}
	}
}

// close stops accepting jobs and waits for the workers to exit.
func (p *fetchPool) close() {
	close(p.pending)
	p.wg.Wait()
}
