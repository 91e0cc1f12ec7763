// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package asynchttp

import (
	"sync"

	"go.uber.org/zap"
)

// A pool runs submitted functions on a fixed number of worker
// goroutines. Functions submitted while every worker is busy wait in an
// unbounded FIFO queue, so submit never blocks.
type pool struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []func()
	closed bool
	wg     sync.WaitGroup
	size   int
	logger *zap.Logger
}

func newPool(size int, logger *zap.Logger) *pool {
	p := &pool{
		size:   size,
		logger: logger,
	}
	p.cond = sync.NewCond(&p.mu)
	p.wg.Add(size)
	for i := 0; i < size; i++ {
		go p.work(i)
	}
	return p
}

// submit queues f for execution. It returns false, without queueing f,
// if the pool is closed.
func (p *pool) submit(f func()) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return false
	}
	p.queue = append(p.queue, f)
	p.cond.Signal()
	return true
}

// pending returns the number of queued functions no worker has picked
// up yet.
func (p *pool) pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}

// close stops the pool accepting new functions and waits for the
// workers to drain the queue and exit.
func (p *pool) close() {
	p.mu.Lock()
	p.closed = true
	p.cond.Broadcast()
	p.mu.Unlock()
	p.wg.Wait()
}

func (p *pool) next() (func(), bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for len(p.queue) == 0 && !p.closed {
		p.cond.Wait()
	}
	if len(p.queue) == 0 {
		return nil, false
	}
	f := p.queue[0]
	p.queue[0] = nil
	p.queue = p.queue[1:]
	return f, true
}

func (p *pool) work(id int) {
	defer p.wg.Done()
	for {
		f, ok := p.next()
		if !ok {
			return
		}
		p.run(id, f)
	}
}

func (p *pool) run(id int, f func()) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("asynchttp: worker recovered from panic",
				zap.Int("worker", id), zap.Any("panic", r), zap.Stack("stack"))
		}
	}()
	f()
}
