package poller

import (
	"context"
	"log"
	"sync"
	"time"

	"pulsenews/internal/cache"
	"pulsenews/internal/ingest"
)

// Poller runs the feed ingest pipeline on a fixed interval so the
// store stays warm without anyone hitting the store endpoint.
type Poller struct {
	pipeline     *ingest.Pipeline
	cacheManager *cache.Manager
	pollInterval time.Duration
	ctx          context.Context
	cancel       context.CancelFunc
	wg           sync.WaitGroup
	mu           sync.RWMutex
	lastRun      time.Time
	isPolling    bool
}

func New(pipeline *ingest.Pipeline, cacheManager *cache.Manager, pollInterval time.Duration) *Poller {
	ctx, cancel := context.WithCancel(context.Background())
	return &Poller{
		pipeline:     pipeline,
		cacheManager: cacheManager,
		pollInterval: pollInterval,
		ctx:          ctx,
		cancel:       cancel,
	}
}

func (p *Poller) Start() {
	p.mu.Lock()
	if p.isPolling {
		p.mu.Unlock()
		return
	}
	p.isPolling = true
	p.mu.Unlock()

	log.Printf("Starting feed poller with interval: %v", p.pollInterval)

	p.wg.Add(1)
	go p.pollLoop()
}

func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.isPolling {
		p.mu.Unlock()
		return
	}
	p.isPolling = false
	p.mu.Unlock()

	log.Println("Stopping feed poller...")
	p.cancel()
	p.wg.Wait()
	log.Println("Feed poller stopped")
}

func (p *Poller) IsPolling() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.isPolling
}

// LastRun reports when the last ingest attempt finished, zero if none ran yet.
func (p *Poller) LastRun() time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastRun
}

func (p *Poller) pollLoop() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	// Poll immediately on start
	p.pollOnce()

	for {
		select {
		case <-ticker.C:
			p.pollOnce()
		case <-p.ctx.Done():
			return
		}
	}
}

func (p *Poller) pollOnce() {
	log.Println("Starting background feed ingest...")

	result, err := p.pipeline.Run(p.ctx)
	if err != nil {
		log.Printf("Error ingesting feed: %v", err)
	} else {
		log.Printf("Background ingest: fetched %d, inserted %d", result.FetchedCount, result.InsertedCount)
		if result.InsertedCount > 0 {
			// New rows invalidate any cached day views
			p.cacheManager.Flush()
		}
	}

	p.mu.Lock()
	p.lastRun = time.Now()
	p.mu.Unlock()
}
