/*
scheduler.go - Automated draft-roster scheduler

PURPOSE:
  Periodically makes sure every environment has a draft roster for the
  upcoming month(s), so coordinators start from a generated grid instead of
  an empty one.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - For each environment with physicians, looks at the next LookaheadMonths
    months
  - Skips months that already have a stored roster (never overwrites
    manual work)
  - Generation errors are logged per environment/month and do not stop
    the run

CONFIGURATION:
  - CheckInterval: How often to check (default: 6 hours)
  - LookaheadMonths: How many upcoming months to cover (default: 1)
  - Enabled: Whether scheduler is active (default: false)

USAGE:
  scheduler := NewDraftScheduler(store, generator)
  scheduler.Enabled = true
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: GenerateRoster endpoint (manual generation)
  - roster/generator.go: Generator
*/
package api

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/warp/roster-engine/roster"
	"github.com/warp/roster-engine/store/sqlite"
)

// DraftScheduler generates missing upcoming rosters.
type DraftScheduler struct {
	Store           *sqlite.Store
	Generator       *roster.Generator
	CheckInterval   time.Duration
	LookaheadMonths int
	Enabled         bool

	// Now is overridable for tests.
	Now func() time.Time

	ticker *time.Ticker
	stop   chan bool
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewDraftScheduler creates a new scheduler.
func NewDraftScheduler(store *sqlite.Store, gen *roster.Generator) *DraftScheduler {
	return &DraftScheduler{
		Store:           store,
		Generator:       gen,
		CheckInterval:   6 * time.Hour,
		LookaheadMonths: 1,
		Now:             time.Now,
		stop:            make(chan bool),
	}
}

// Start begins the scheduler.
func (ds *DraftScheduler) Start() {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	if !ds.Enabled {
		log.Println("[Scheduler] Disabled, not starting")
		return
	}

	ds.ticker = time.NewTicker(ds.CheckInterval)
	ds.wg.Add(1)

	go ds.run()

	log.Printf("[Scheduler] Started with check interval: %v", ds.CheckInterval)
}

// Stop stops the scheduler.
func (ds *DraftScheduler) Stop() {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	if ds.ticker != nil {
		ds.ticker.Stop()
		close(ds.stop)
		ds.wg.Wait()
		ds.ticker = nil
		log.Println("[Scheduler] Stopped")
	}
}

func (ds *DraftScheduler) run() {
	defer ds.wg.Done()

	// Run immediately on start
	ds.checkAndGenerate(context.Background())

	for {
		select {
		case <-ds.ticker.C:
			ds.checkAndGenerate(context.Background())
		case <-ds.stop:
			return
		}
	}
}

// RunNow triggers an immediate check and returns the number of rosters
// generated.
func (ds *DraftScheduler) RunNow(ctx context.Context) int {
	return ds.checkAndGenerate(ctx)
}

func (ds *DraftScheduler) checkAndGenerate(ctx context.Context) int {
	now := ds.Now()
	log.Printf("[Scheduler] Checking for missing rosters at %v", now)

	envs, err := ds.Store.ListEnvironments(ctx)
	if err != nil {
		log.Printf("[Scheduler] Error listing environments: %v", err)
		return 0
	}

	generated, skipped := 0, 0
	for _, env := range envs {
		year, month := now.Year(), now.Month()
		for i := 0; i < ds.LookaheadMonths; i++ {
			year, month = roster.NextMonth(year, month)

			existing, err := ds.Store.LoadRoster(ctx, year, month, env)
			if err != nil {
				log.Printf("[Scheduler] Error loading roster %s %d-%02d: %v", env, year, month, err)
				continue
			}
			if existing != nil {
				skipped++
				continue
			}

			gen, err := ds.Generator.Generate(ctx, roster.GenerateRequest{
				Month:         month,
				Year:          year,
				EnvironmentID: env,
			})
			if err != nil {
				log.Printf("[Scheduler] Error generating %s %d-%02d: %v", env, year, month, err)
				continue
			}
			generated++
			log.Printf("[Scheduler] Drafted %s %d-%02d: gap=%d", env, year, month, gen.Record.Statistics.CoverageGap)
		}
	}

	if generated > 0 || skipped > 0 {
		log.Printf("[Scheduler] Completed: %d generated, %d skipped (already exist)", generated, skipped)
	}
	return generated
}

// GetNextRunTime returns when the next scheduled check will occur.
func (ds *DraftScheduler) GetNextRunTime() time.Time {
	return ds.Now().Add(ds.CheckInterval)
}
