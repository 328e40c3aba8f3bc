package background

import (
	"context"
	"log"
	"sync"
	"time"

	"menumart/internal/services"

	"github.com/go-co-op/gocron/v2"
)

// JobScheduler manages recurring background jobs
type JobScheduler struct {
	scheduler gocron.Scheduler
	tenantSvc services.TenantService
	jobs      map[string]gocron.Job
	mu        sync.RWMutex
}

func NewJobScheduler(tenantSvc services.TenantService) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	js := &JobScheduler{
		scheduler: scheduler,
		tenantSvc: tenantSvc,
		jobs:      make(map[string]gocron.Job),
	}

	js.registerJobs()

	return js, nil
}

// Start starts the job scheduler
func (js *JobScheduler) Start() {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
}

// Stop stops the job scheduler
func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() {
	// Cache warm job - every 5 minutes. Keeps slug resolution for enabled
	// tenants off the database between deployments and cache restarts.
	warmJob, err := js.scheduler.NewJob(
		gocron.DurationJob(5*time.Minute),
		gocron.NewTask(js.warmTenantCache, context.Background()),
		gocron.WithName("tenant-cache-warm"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create cache warm job: %v", err)
	} else {
		js.jobs["tenant-cache-warm"] = warmJob
	}

	// Denylist housekeeping - every hour. Redis expires entries via TTL;
	// this job exists as the hook for future pattern-based cleanup.
	cleanupJob, err := js.scheduler.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(js.cleanupDenylist),
		gocron.WithName("denylist-cleanup"),
	)
	if err != nil {
		log.Printf("Failed to create denylist cleanup job: %v", err)
	} else {
		js.jobs["denylist-cleanup"] = cleanupJob
	}

	log.Printf("Registered %d background jobs", len(js.jobs))
}

func (js *JobScheduler) cleanupDenylist() error {
	log.Printf("Denylist cleanup completed (entries expire via TTL)")
	return nil
}

func (js *JobScheduler) warmTenantCache(ctx context.Context) error {
	log.Printf("Starting tenant cache warm")
	if err := js.tenantSvc.WarmCache(ctx); err != nil {
		log.Printf("Tenant cache warm failed: %v", err)
		return err
	}
	log.Printf("Completed tenant cache warm")
	return nil
}

// AddJob adds a custom job to the scheduler
func (js *JobScheduler) AddJob(name string, interval time.Duration, taskFn interface{}, params ...interface{}) error {
	js.mu.Lock()
	defer js.mu.Unlock()

	job, err := js.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(taskFn, params...),
		gocron.WithName(name),
	)
	if err != nil {
		return err
	}

	js.jobs[name] = job
	return nil
}

// RemoveJob removes a job from the scheduler
func (js *JobScheduler) RemoveJob(name string) error {
	js.mu.Lock()
	defer js.mu.Unlock()

	if job, exists := js.jobs[name]; exists {
		err := js.scheduler.RemoveJob(job.ID())
		delete(js.jobs, name)
		return err
	}

	return nil
}

// GetJobStatus returns information about scheduled jobs
func (js *JobScheduler) GetJobStatus() map[string]interface{} {
	js.mu.RLock()
	defer js.mu.RUnlock()

	jobs := make([]string, 0, len(js.jobs))
	for name := range js.jobs {
		jobs = append(jobs, name)
	}

	return map[string]interface{}{
		"total_jobs": len(js.jobs),
		"jobs":       jobs,
	}
}
