package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"

	"github.com/stockdesk/stockdesk/jobs"
)

// Inspector is the subset of the Asynq inspector the CLI reads.
type Inspector interface {
	GetQueueInfo(queue string) (*asynq.QueueInfo, error)
	ListScheduledTasks(queue string, opts ...asynq.ListOption) ([]*asynq.TaskInfo, error)
	Close() error
}

// JobsCLI wraps manual management helpers for Asynq jobs.
type JobsCLI struct {
	client    *jobs.Client
	inspector Inspector
}

// NewJobsCLI initialises the CLI helpers using the provided Redis address.
func NewJobsCLI(redisAddr string) (*JobsCLI, error) {
	opts := asynq.RedisClientOpt{Addr: redisAddr}
	client, err := jobs.NewClient(opts)
	if err != nil {
		return nil, err
	}
	return &JobsCLI{client: client, inspector: asynq.NewInspector(opts)}, nil
}

// NewJobsCLIWith builds the helpers from existing collaborators.
func NewJobsCLIWith(client *jobs.Client, inspector Inspector) *JobsCLI {
	return &JobsCLI{client: client, inspector: inspector}
}

// Close releases underlying resources.
func (c *JobsCLI) Close() error {
	var err error
	if c.inspector != nil {
		if closeErr := c.inspector.Close(); closeErr != nil {
			err = closeErr
		}
	}
	if c.client != nil {
		if closeErr := c.client.Close(); closeErr != nil {
			err = closeErr
		}
	}
	return err
}

// Trigger enqueues a supported job by name with its default payload.
func (c *JobsCLI) Trigger(ctx context.Context, name string, limit int) (*asynq.TaskInfo, error) {
	if c == nil || c.client == nil {
		return nil, errors.New("jobs cli: client not configured")
	}
	switch name {
	case jobs.TaskCacheRefresh, "refresh":
		return c.client.EnqueueCacheRefresh(ctx, jobs.CacheRefreshPayload{Reason: "stockctl"})
	case jobs.TaskLowStockScan, "scan":
		return c.client.EnqueueLowStockScan(ctx, jobs.LowStockScanPayload{Limit: limit})
	default:
		return nil, fmt.Errorf("jobs cli: unsupported job %s", name)
	}
}

// QueueStats summarises the current queue state.
type QueueStats struct {
	Queue     string
	Pending   int
	Active    int
	Scheduled int
	Retry     int
}

// InspectQueue reports the queue metrics for the default queue.
func (c *JobsCLI) InspectQueue(ctx context.Context) (QueueStats, error) {
	if c == nil || c.inspector == nil {
		return QueueStats{}, errors.New("jobs cli: inspector not configured")
	}
	stats := QueueStats{Queue: jobs.QueueDefault}
	info, err := c.inspector.GetQueueInfo(jobs.QueueDefault)
	if errors.Is(err, asynq.ErrQueueNotFound) {
		return stats, nil
	}
	if err != nil {
		return QueueStats{}, err
	}
	if info != nil {
		stats.Pending = info.Pending
		stats.Active = info.Active
		stats.Scheduled = info.Scheduled
		stats.Retry = info.Retry
	}
	return stats, nil
}

// ListScheduled returns scheduled task infos for observability.
func (c *JobsCLI) ListScheduled(ctx context.Context, size int) ([]*asynq.TaskInfo, error) {
	if c == nil || c.inspector == nil {
		return nil, errors.New("jobs cli: inspector not configured")
	}
	if size <= 0 {
		size = 10
	}
	return c.inspector.ListScheduledTasks(jobs.QueueDefault, asynq.PageSize(size), asynq.Page(1))
}

func jobsCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Trigger and inspect background jobs",
	}
	cmd.AddCommand(jobsTriggerCmd(flags), jobsQueueCmd(flags))
	return cmd
}

func withJobs(flags *globalFlags, fn func(*JobsCLI) error) error {
	j, err := NewJobsCLI(flags.redisAddr)
	if err != nil {
		return err
	}
	defer func() { _ = j.Close() }()
	return fn(j)
}

func jobsTriggerCmd(flags *globalFlags) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:       "trigger <refresh|scan>",
		Short:     "Enqueue a cache refresh or low-stock scan",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"refresh", "scan"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withJobs(flags, func(j *JobsCLI) error {
				info, err := j.Trigger(cmd.Context(), args[0], limit)
				if errors.Is(err, asynq.ErrDuplicateTask) {
					fmt.Fprintln(cmd.OutOrStdout(), Warn.Sprint("  A refresh is already queued"))
					return nil
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "  %s %s queued as %s\n", Good.Sprint("✓"), info.Type, info.ID)
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", jobs.DefaultLowStockScanLimit, "Scan limit")
	return cmd
}

func jobsQueueCmd(flags *globalFlags) *cobra.Command {
	var scheduled int
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Show queue depth and upcoming scheduled tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withJobs(flags, func(j *JobsCLI) error {
				return printQueue(cmd, j, scheduled)
			})
		},
	}
	cmd.Flags().IntVarP(&scheduled, "scheduled", "n", 10, "Scheduled tasks to list")
	return cmd
}

func printQueue(cmd *cobra.Command, j *JobsCLI, scheduled int) error {
	out := cmd.OutOrStdout()
	stats, err := j.InspectQueue(cmd.Context())
	if err != nil {
		return err
	}
	Banner(out, "queue "+stats.Queue)
	fmt.Fprintf(out, "  Pending:    %d\n", stats.Pending)
	fmt.Fprintf(out, "  Active:     %d\n", stats.Active)
	fmt.Fprintf(out, "  Scheduled:  %d\n", stats.Scheduled)
	fmt.Fprintf(out, "  Retry:      %d\n", stats.Retry)

	tasks, err := j.ListScheduled(cmd.Context(), scheduled)
	if err != nil && !errors.Is(err, asynq.ErrQueueNotFound) {
		return err
	}
	for _, t := range tasks {
		fmt.Fprintf(out, "  %s %s at %s\n", Subtle.Sprint("•"), t.Type, t.NextProcessAt.Format("2006-01-02 15:04"))
	}
	return nil
}
