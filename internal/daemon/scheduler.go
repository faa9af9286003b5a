package daemon

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"scrapeycat/internal/effects"
	"scrapeycat/internal/engine"
	"scrapeycat/internal/telemetry"
)

// Scheduler drives a flat job list off a cron.Cron instance. Each
// firing runs the job's script through its own Executor invocation
// and dispatches the (possibly dedup-filtered) effects — failures are
// isolated to that firing and logged, never stopping the scheduler,
// per the spec's error-isolation requirement.
type Scheduler struct {
	Executor   *engine.Executor
	Dispatcher *effects.Dispatcher
	Tel        telemetry.API

	cron *cron.Cron
	jobs []*Job
}

// NewScheduler constructs a Scheduler. tel may be nil to silence
// scheduling diagnostics.
func NewScheduler(ex *engine.Executor, dispatcher *effects.Dispatcher, tel telemetry.API) *Scheduler {
	var logger cron.Logger = cron.DefaultLogger
	if tel != nil {
		logger = cronLogger{tel: tel}
	}

	return &Scheduler{
		Executor:   ex,
		Dispatcher: dispatcher,
		Tel:        tel,
		cron:       cron.New(cron.WithLogger(logger)),
	}
}

// AddJobs registers every job against the cron scheduler. A job whose
// schedule doesn't parse under the standard 5-field dialect is a
// fatal *ConfigError.
func (s *Scheduler) AddJobs(jobs []Job) error {
	for i := range jobs {
		j := &jobs[i]
		s.jobs = append(s.jobs, j)

		_, err := s.cron.AddFunc(j.Schedule, func() {
			s.fire(context.Background(), j)
		})
		if err != nil {
			return &ConfigError{Detail: fmt.Sprintf("suites.%s: job %q: invalid cron schedule %q", j.Suite, j.Label(), j.Schedule), Err: err}
		}
	}
	return nil
}

// Start begins the scheduler loop in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling, then blocks until any in-flight firing
// finishes.
func (s *Scheduler) Stop(ctx context.Context) {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) fire(ctx context.Context, j *Job) {
	st, err := s.Executor.RunContext(ctx, 0, j.Script, j.Args, j.Kwargs)
	if err != nil {
		s.reportBroken(j, err)
		return
	}

	toDispatch := j.Filter(st.Effects)
	if err := s.Dispatcher.DispatchAll(toDispatch); err != nil {
		s.reportBroken(j, err)
	}
}

func (s *Scheduler) reportBroken(j *Job, err error) {
	if s.Tel == nil {
		return
	}
	s.Tel.ReportBroken("daemon.fire", j.Suite, j.Label(), err)
}

type cronLogger struct {
	tel telemetry.API
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.tel.ReportDebug(fmt.Sprintf("daemon.cron: %s", msg), keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.tel.ReportBroken("daemon.cron", fmt.Errorf("%s: %w", msg, err), keysAndValues)
}
