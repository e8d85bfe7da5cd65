// Package digest emails the sales rep a daily summary of due follow-ups.
package digest

import (
	"context"
	"fmt"
	"time"

	"mlm_sales_backend/internal/email"
	"mlm_sales_backend/internal/reminders"
	"mlm_sales_backend/platform/config"
	"mlm_sales_backend/platform/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/robfig/cron/v3"
)

const runTimeout = 2 * time.Minute

var runs = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "followup_digest_runs_total",
		Help: "Follow-up digest runs by result",
	},
	[]string{"result"},
)

// ReminderSource computes the follow-ups that are due.
type ReminderSource interface {
	List(ctx context.Context) ([]reminders.Reminder, error)
}

// Job builds the digest on a cron schedule.
type Job struct {
	spec    string
	to      string
	source  ReminderSource
	sender  email.Sender
	log     *logger.Logger
	now     func() time.Time
	cron    *cron.Cron
	entryID cron.EntryID
}

// New validates the cron spec. Without a recipient the digest is only logged.
func New(cfg config.DigestConfig, source ReminderSource, sender email.Sender, log *logger.Logger) (*Job, error) {
	spec := cfg.GetDigestCron()
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("invalid DIGEST_CRON %q: %w", spec, err)
	}
	if sender == nil {
		sender = email.NoopSender{}
	}
	return &Job{
		spec:   spec,
		to:     cfg.GetDigestEmail(),
		source: source,
		sender: sender,
		log:    log,
		now:    func() time.Time { return time.Now().UTC() },
		cron:   cron.New(),
	}, nil
}

// Start schedules the job and stops the scheduler when ctx is done.
func (j *Job) Start(ctx context.Context) error {
	id, err := j.cron.AddFunc(j.spec, func() {
		runCtx, cancel := context.WithTimeout(ctx, runTimeout)
		defer cancel()
		if err := j.Run(runCtx); err != nil {
			j.log.JobError("followup_digest", err)
		}
	})
	if err != nil {
		return err
	}
	j.entryID = id
	j.cron.Start()
	j.log.Info("follow-up digest scheduled", "cron", j.spec, "recipient", j.to)

	go func() {
		<-ctx.Done()
		<-j.cron.Stop().Done()
	}()
	return nil
}

// Next reports when the digest runs next. It is zero before Start.
func (j *Job) Next() time.Time {
	return j.cron.Entry(j.entryID).Next
}

// Run builds and delivers one digest.
func (j *Job) Run(ctx context.Context) error {
	items, err := j.source.List(ctx)
	if err != nil {
		runs.WithLabelValues("error").Inc()
		return fmt.Errorf("list reminders: %w", err)
	}

	digest := Build(items, j.now())
	if j.to == "" {
		j.log.Info("follow-up digest", "due", len(digest.Items))
		for _, item := range digest.Items {
			j.log.Info("follow-up due",
				"lead", item.LeadName,
				"priority", item.Priority,
				"timing", item.Timing,
				"action", item.SuggestedAction,
			)
		}
		runs.WithLabelValues("logged").Inc()
		return nil
	}

	if err := j.sender.SendFollowUpDigest(ctx, j.to, digest); err != nil {
		runs.WithLabelValues("error").Inc()
		return fmt.Errorf("send digest: %w", err)
	}
	runs.WithLabelValues("sent").Inc()
	j.log.Info("follow-up digest sent", "to", j.to, "due", len(digest.Items))
	return nil
}

// Build converts reminders into digest rows, keeping their order.
func Build(items []reminders.Reminder, now time.Time) email.FollowUpDigest {
	out := email.FollowUpDigest{GeneratedAt: now, Items: make([]email.DigestItem, 0, len(items))}
	for _, r := range items {
		out.Items = append(out.Items, email.DigestItem{
			LeadName:        r.LeadName,
			Status:          r.Status,
			Priority:        r.Priority,
			Timing:          r.Timing,
			SuggestedAction: r.SuggestedAction,
		})
	}
	return out
}
