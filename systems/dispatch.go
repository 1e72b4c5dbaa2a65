package systems

import (
	"runtime"
	"sync"
)

// Kernel processes the half-open element range [lo, hi) on worker w.
// Kernels launched together must not write the same element.
type Kernel func(w, lo, hi int)

// Launcher runs a kernel over n elements. Launch returns only after every
// element has been processed, so consecutive launches are separated by a
// full barrier.
type Launcher interface {
	Workers() int
	Launch(n int, k Kernel)
}

// Serial runs kernels inline on the calling goroutine.
type Serial struct{}

// Workers returns 1.
func (Serial) Workers() int { return 1 }

// Launch runs k over [0, n) as a single range.
func (Serial) Launch(n int, k Kernel) {
	if n > 0 {
		k(0, 0, n)
	}
}

// workChunk represents a range of elements for a worker to process.
type workChunk struct {
	start, end int
	kernel     Kernel
}

// Pool is a fixed set of persistent worker goroutines. Each Launch splits
// the range into one contiguous chunk per worker and waits for all chunks.
// A Pool is driven by one goroutine at a time.
type Pool struct {
	numWorkers int

	workChan chan workChunk // sends work to workers
	doneChan chan struct{}  // workers signal completion
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks active workers
	running  bool
}

// NewPool creates a pool with the given worker count (<= 0 means GOMAXPROCS).
// Workers start lazily on the first Launch.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Pool{numWorkers: workers}
}

// Workers returns the number of worker goroutines.
func (p *Pool) Workers() int {
	return p.numWorkers
}

func (p *Pool) start() {
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// worker runs in a goroutine, processing chunks until stopped.
func (p *Pool) worker(workerID int) {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			chunk.kernel(workerID, chunk.start, chunk.end)
			p.doneChan <- struct{}{}
		}
	}
}

// Launch dispatches k over [0, n) and blocks until every chunk is done.
func (p *Pool) Launch(n int, k Kernel) {
	if n <= 0 {
		return
	}
	if p.numWorkers == 1 || n == 1 {
		k(0, 0, n)
		return
	}
	p.start()

	chunkSize := (n + p.numWorkers - 1) / p.numWorkers

	chunksDispatched := 0
	for w := 0; w < p.numWorkers; w++ {
		start := w * chunkSize
		end := min(start+chunkSize, n)
		if start >= end {
			continue
		}
		p.workChan <- workChunk{start: start, end: end, kernel: k}
		chunksDispatched++
	}

	for i := 0; i < chunksDispatched; i++ {
		<-p.doneChan
	}
}

// Close signals all workers to exit and waits for them.
func (p *Pool) Close() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

// LauncherFor picks the serial launcher for small inputs, where goroutine
// handoff costs more than the work.
func LauncherFor(l Launcher, n, threshold int) Launcher {
	if l == nil || n < threshold {
		return Serial{}
	}
	return l
}
