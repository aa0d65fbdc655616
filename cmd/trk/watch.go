package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/tracker/internal/api"
	"github.com/alfredjeanlab/tracker/internal/events"
)

var watchCmd = &cobra.Command{
	Use:   "watch <project>",
	Short: "Watch a project's issue listing and print rows as they change",
	Long: `Watch a project's issue listing.

With a NATS URL (--nats, TRACKER_NATS_URL or the active remote) the listing
is re-queried whenever a tracker event arrives. Otherwise it is polled at
--interval.`,
	GroupID: "views",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		interval, _ := cmd.Flags().GetDuration("interval")
		once, _ := cmd.Flags().GetBool("once")
		filter, _ := cmd.Flags().GetString("filter")
		natsURL, _ := cmd.Flags().GetString("nats")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		projectID, err := resolveProject(ctx, trackerClient, args[0])
		if err != nil {
			return err
		}

		w := &issueWatcher{
			out:       cmd.OutOrStdout(),
			projectID: projectID,
			filter:    filter,
			seen:      make(map[string]string),
		}
		if err := w.queryAndPrint(ctx); err != nil {
			return err
		}
		if once {
			return nil
		}

		if natsURL == "" {
			natsURL = os.Getenv("TRACKER_NATS_URL")
		}
		if natsURL == "" {
			natsURL = activeRemoteNATSURL()
		}
		if natsURL != "" {
			return w.watchNATS(ctx, natsURL)
		}
		return w.watchPoll(ctx, interval)
	},
}

// issueWatcher prints listing rows that are new or whose last_update moved.
type issueWatcher struct {
	out       io.Writer
	projectID int64
	filter    string
	seen      map[string]string // issue id -> last_update
}

// watchNATS re-queries on tracker events, debounced.
func (w *issueWatcher) watchNATS(ctx context.Context, natsURL string) error {
	reconnectCh := make(chan struct{}, 1)

	sub, err := events.NewNATSSubscriber(natsURL,
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Printf("nats: disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			log.Printf("nats: reconnected")
			select {
			case reconnectCh <- struct{}{}:
			default:
			}
		}),
	)
	if err != nil {
		return fmt.Errorf("connecting to NATS: %w", err)
	}
	defer sub.Close()

	ch, cancel, err := sub.Subscribe(events.TopicAll)
	if err != nil {
		return fmt.Errorf("subscribing to events: %w", err)
	}
	defer cancel()

	debounce := time.NewTimer(0)
	debounce.Stop()
	select {
	case <-debounce.C:
	default:
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-ch:
			if !ok {
				return nil
			}
			debounce.Reset(200 * time.Millisecond)
		case <-reconnectCh:
			debounce.Reset(0)
		case <-debounce.C:
			if err := w.queryAndPrint(ctx); err != nil {
				return err
			}
		}
	}
}

func (w *issueWatcher) watchPoll(ctx context.Context, interval time.Duration) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(interval):
		}
		if err := w.queryAndPrint(ctx); err != nil {
			return err
		}
	}
}

func (w *issueWatcher) queryAndPrint(ctx context.Context) error {
	resp, err := trackerClient.GetProjectIssues(ctx, w.projectID, w.filter)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	changed := w.diff(resp.Rows)
	if len(changed) == 0 {
		return nil
	}
	out := &api.GetProjectIssuesResponse{Columns: resp.Columns, Rows: changed}
	if ok, err := printStructured(w.out, out); ok {
		return err
	}
	return printIssueRows(w.out, out)
}

// diff returns rows that are new or changed since the last query and
// records them as seen.
func (w *issueWatcher) diff(rows [][13]any) [][13]any {
	var changed [][13]any
	for _, row := range rows {
		id := formatCell(row[0], 0)
		updated := fmt.Sprint(row[2])
		if prev, ok := w.seen[id]; !ok || prev != updated {
			changed = append(changed, row)
		}
		w.seen[id] = updated
	}
	return changed
}

func init() {
	watchCmd.Flags().Duration("interval", 5*time.Second, "polling interval")
	watchCmd.Flags().Bool("once", false, "exit after first query")
	watchCmd.Flags().StringP("filter", "f", "", "issue filter, e.g. status=notclosed")
	watchCmd.Flags().String("nats", "", "NATS URL for event-driven refresh")
}
