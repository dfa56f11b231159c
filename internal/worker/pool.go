package worker

import (
	"context"
	"sync"
)

// Job is a unit of work executed by the pool
type Job interface {
	Execute(ctx context.Context) Result
}

// Result is the outcome of a job
type Result interface {
	GetError() error
}

// Pool runs jobs on a fixed number of workers. Results are drained as they
// arrive, so Submit never blocks on unread results.
type Pool struct {
	workers   int
	jobs      chan Job
	results   chan Result
	collector *ResultCollector
	wg        sync.WaitGroup
	drained   chan struct{}
	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.RWMutex // guards closed against concurrent Submit
	closed    bool
	waitOnce  sync.Once
}

// NewPool creates a pool bound to ctx; cancelling ctx stops the workers
func NewPool(ctx context.Context, workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(ctx)

	return &Pool{
		workers:   workers,
		jobs:      make(chan Job, workers*2),
		results:   make(chan Result, workers*2),
		collector: NewResultCollector(),
		drained:   make(chan struct{}),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start launches the workers and the result collector
func (p *Pool) Start() {
	go func() {
		defer close(p.drained)
		for r := range p.results {
			p.collector.Add(r)
		}
	}()

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			p.results <- job.Execute(p.ctx)
		}
	}
}

// Submit queues a job. It reports false if the pool was cancelled or closed.
func (p *Pool) Submit(job Job) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return false
	}
	select {
	case <-p.ctx.Done():
		return false
	case p.jobs <- job:
		return true
	}
}

// Wait stops accepting jobs, waits for queued jobs to finish and returns the
// results in completion order
func (p *Pool) Wait() []Result {
	p.waitOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		close(p.jobs)
		p.mu.Unlock()

		p.wg.Wait()
		close(p.results)
		<-p.drained
		p.cancel()
	})
	return p.collector.Results()
}

// Shutdown cancels in-flight work and returns whatever completed
func (p *Pool) Shutdown() []Result {
	p.cancel()
	return p.Wait()
}

// ResultCollector gathers results from concurrent producers
type ResultCollector struct {
	results []Result
	mu      sync.Mutex
}

// NewResultCollector creates an empty collector
func NewResultCollector() *ResultCollector {
	return &ResultCollector{results: make([]Result, 0)}
}

// Add appends a result
func (c *ResultCollector) Add(result Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = append(c.results, result)
}

// Results returns a copy of the collected results
func (c *ResultCollector) Results() []Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Result, len(c.results))
	copy(out, c.results)
	return out
}
