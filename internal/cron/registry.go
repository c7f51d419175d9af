package cron

import "context"

// Job is one unit of work run by the cron worker on every tick, such as the
// expiring tariff sweep.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Registry holds the jobs in run order. Job names are unique since they
// label the cron metrics.
type Registry struct {
	jobs []Job
}

func NewRegistry(jobs ...Job) *Registry {
	registry := &Registry{}
	for _, job := range jobs {
		registry.Register(job)
	}
	return registry
}

// Register appends job and reports whether it was accepted. Nil jobs and
// jobs whose name is already taken are ignored.
func (r *Registry) Register(job Job) bool {
	if job == nil {
		return false
	}
	for _, existing := range r.jobs {
		if existing.Name() == job.Name() {
			return false
		}
	}
	r.jobs = append(r.jobs, job)
	return true
}

// Jobs returns a copy of the registered jobs in the order they were added.
func (r *Registry) Jobs() []Job {
	jobs := make([]Job, len(r.jobs))
	copy(jobs, r.jobs)
	return jobs
}
