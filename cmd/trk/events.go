package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/tracker/internal/ui"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Stream tracker events from the server (super users only)",
	Long: `Stream tracker events over the HTTP event stream.

--topic takes NATS-style patterns such as "tracker.category.*" and may be
repeated. Requires super-user credentials.`,
	GroupID: "views",
	Args:    cobra.NoArgs,
	// Streams over HTTP directly and does not need a tracker client.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		topics, _ := cmd.Flags().GetStringSlice("topic")
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return streamEvents(ctx, httpURL, credentials().Header(), topics, cmd.OutOrStdout())
	},
}

// sseEvent is one decoded server-sent event.
type sseEvent struct {
	ID    string          `json:"id"`
	Topic string          `json:"topic"`
	Data  json.RawMessage `json:"data"`
}

func streamEvents(ctx context.Context, baseURL, authz string, topics []string, out io.Writer) error {
	u := strings.TrimRight(baseURL, "/") + "/v1/events/stream"
	if len(topics) > 0 {
		u += "?" + url.Values{"topics": {strings.Join(topics, ",")}}.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("opening event stream: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("event stream: HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	err = readSSE(resp.Body, func(evt sseEvent) error {
		if ok, err := printStructured(out, evt); ok {
			return err
		}
		_, err := fmt.Fprintf(out, "%s %s %s\n", ui.RenderMuted(evt.ID), ui.RenderAccent(evt.Topic), evt.Data)
		return err
	})
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// readSSE decodes a text/event-stream body and calls fn for each event.
// Comment lines such as keepalives are skipped.
func readSSE(r io.Reader, fn func(sseEvent) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	var evt sseEvent
	var data []string
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			if len(data) > 0 {
				evt.Data = json.RawMessage(strings.Join(data, "\n"))
				if err := fn(evt); err != nil {
					return err
				}
			}
			evt, data = sseEvent{}, nil
		case strings.HasPrefix(line, ":"):
		case strings.HasPrefix(line, "id:"):
			evt.ID = strings.TrimSpace(strings.TrimPrefix(line, "id:"))
		case strings.HasPrefix(line, "event:"):
			evt.Topic = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data = append(data, strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		}
	}
	return scanner.Err()
}

func init() {
	eventsCmd.Flags().StringSlice("topic", nil, "topic pattern to follow (repeatable)")
}
