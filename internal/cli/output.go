package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mcoot/crowdsnake/internal/model"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == FormatJSON {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == FormatJSON {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case BoardResult:
		fmt.Fprint(o.w, v.Board)
	case StateResult:
		o.printState(v)
	case HistoryResult:
		o.printHistory(v)
	case VoteResult:
		fmt.Fprintf(o.w, "Voted %s (pending: %s)\n", v.Direction, formatTally(v.Pending))
	case HealthResult:
		o.printHealthResult(v)
	default:
		o.printJSON(data)
	}
}

// BoardResult is the plain-text board
type BoardResult struct {
	Board string `json:"board"`
}

// StateResult mirrors GET /api/v1/state
type StateResult struct {
	model.Snapshot
	Board string `json:"board"`
}

// HistoryResult mirrors GET /api/v1/history
type HistoryResult struct {
	Ticks []model.TickRecord `json:"ticks"`
	Limit int                `json:"limit"`
}

// VoteResult mirrors POST /api/v1/votes
type VoteResult struct {
	Direction model.Direction `json:"direction"`
	Pending   model.VoteTally `json:"pending"`
}

// HealthResult mirrors GET /api/v1/health
type HealthResult struct {
	Status  string `json:"status"`
	Running bool   `json:"running"`
	Tick    int64  `json:"tick"`
}

func (o *Output) printState(s StateResult) {
	fmt.Fprint(o.w, s.Board)
	fmt.Fprintf(o.w, "Tick:    %d\n", s.Tick)
	fmt.Fprintf(o.w, "Heading: %s\n", s.Heading)
	fmt.Fprintf(o.w, "Length:  %d\n", s.Length())
	fmt.Fprintf(o.w, "Resets:  %d\n", s.Resets)
	fmt.Fprintf(o.w, "Votes:   %s\n", formatTally(s.Votes))
}

func (o *Output) printHistory(h HistoryResult) {
	if len(h.Ticks) == 0 {
		fmt.Fprintln(o.w, "No ticks recorded yet")
		return
	}
	fmt.Fprintf(o.w, "%-8s %-6s %-9s %-6s %s\n", "TICK", "MOVE", "HEAD", "LEN", "NOTE")
	for _, t := range h.Ticks {
		var notes []string
		if t.Ate {
			notes = append(notes, "ate")
		}
		if t.Reset {
			notes = append(notes, "reset")
		}
		if t.FoodSpawned != nil {
			notes = append(notes, fmt.Sprintf("food@%d,%d", t.FoodSpawned.X, t.FoodSpawned.Y))
		}
		fmt.Fprintf(o.w, "%-8d %-6s %-9s %-6d %s\n",
			t.Tick, t.Heading, fmt.Sprintf("%d,%d", t.Head.X, t.Head.Y), t.Length, strings.Join(notes, " "))
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Fprintf(o.w, "Status: %s\n", h.Status)
	fmt.Fprintf(o.w, "Running: %t\n", h.Running)
	fmt.Fprintf(o.w, "Tick: %d\n", h.Tick)
}

func formatTally(t model.VoteTally) string {
	parts := make([]string, 0, model.NumDirections)
	for _, d := range model.AllDirections {
		parts = append(parts, fmt.Sprintf("%s=%d", d, t.Get(d)))
	}
	return strings.Join(parts, " ")
}
