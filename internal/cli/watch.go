package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

// clearScreen moves the cursor home and clears the terminal
const clearScreen = "\033[H\033[2J"

func newWatchCmd() *cobra.Command {
	var count int
	var noClear bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream the board live",
		Long: `Connect to the server's event stream and redraw the board on every tick.

Events:
  - board: the rendered board
  - tick: the tick outcome as JSON

With --output json every event is printed as one JSON line.
Press Ctrl+C to disconnect.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return streamEvents(ctx, cmd.OutOrStdout(), watchOptions{
				json:    cfg.Output == FormatJSON,
				count:   count,
				noClear: noClear,
			})
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 0, "Exit after this many board events (0 streams forever)")
	cmd.Flags().BoolVar(&noClear, "no-clear", false, "Do not clear the screen between boards")

	return cmd
}

// SSEEvent represents a parsed SSE event
type SSEEvent struct {
	Time  time.Time `json:"time"`
	Event string    `json:"event"`
	Data  string    `json:"data"`
}

type watchOptions struct {
	json    bool
	count   int
	noClear bool
}

func streamEvents(ctx context.Context, w io.Writer, opts watchOptions) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, client.BaseURL()+"/snake/events", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	// No timeout: the stream stays open until ctx is cancelled
	resp, err := (&http.Client{}).Do(req)
	client.logger.Debug("event stream", slog.String("url", req.URL.String()), slog.Bool("connected", err == nil))
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	boards := 0
	err = readEvents(resp.Body, func(evt SSEEvent) bool {
		printEvent(w, evt, opts)
		if evt.Event == "board" {
			boards++
		}
		return opts.count == 0 || boards < opts.count
	})
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("stream error: %w", err)
	}
	return nil
}

// readEvents parses an SSE stream, calling fn for each complete event until fn returns false
func readEvents(r io.Reader, fn func(SSEEvent) bool) error {
	scanner := bufio.NewScanner(r)
	var currentEvent string
	var dataLines []string

	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case strings.HasPrefix(line, "event: "):
			currentEvent = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			dataLines = append(dataLines, strings.TrimPrefix(line, "data: "))
		case line == "":
			if currentEvent != "" {
				evt := SSEEvent{Time: time.Now(), Event: currentEvent, Data: strings.Join(dataLines, "\n")}
				if !fn(evt) {
					return nil
				}
			}
			currentEvent = ""
			dataLines = nil
		}
	}
	return scanner.Err()
}

func printEvent(w io.Writer, evt SSEEvent, opts watchOptions) {
	if opts.json {
		data, _ := json.Marshal(evt)
		fmt.Fprintln(w, string(data))
		return
	}

	switch evt.Event {
	case "board":
		if !opts.noClear {
			fmt.Fprint(w, clearScreen)
		}
		fmt.Fprintln(w, evt.Data)
	case "tick":
		var t struct {
			Tick    int64  `json:"tick"`
			Heading string `json:"heading"`
			Length  int    `json:"length"`
			Reset   bool   `json:"reset"`
		}
		if err := json.Unmarshal([]byte(evt.Data), &t); err != nil {
			return
		}
		line := fmt.Sprintf("tick %d  heading %s  length %d", t.Tick, t.Heading, t.Length)
		if t.Reset {
			line += "  (reset)"
		}
		fmt.Fprintln(w, line)
	}
}
