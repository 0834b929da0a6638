package cli

import (
	"encoding/json"
	"fmt"
	"os"

	apiclient "github.com/mcoot/quizrace/internal/client"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"error": err.Error()})
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case *apiclient.JoinResult:
		o.printJoin(v)
	case *apiclient.Snapshot:
		o.printSnapshot(v)
	case *apiclient.AnswerResult:
		o.printAnswer(v)
	case *apiclient.LeaderboardResult:
		o.printLeaderboard(v.Leaderboard)
	case *apiclient.HealthResult:
		fmt.Printf("Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) printJoin(j *apiclient.JoinResult) {
	fmt.Printf("Joined as: %s (%s)\n", j.Username, j.PlayerID)
	fmt.Printf("Score: %d\n", j.Score)
	fmt.Printf("High Score: %d\n", j.HighScore)
}

func (o *Output) printSnapshot(s *apiclient.Snapshot) {
	fmt.Printf("Question: %s\n", s.Text)
	fmt.Printf("Time left: %.0fs\n", float64(s.RemainingMs)/1000)
	if s.HasWinner() {
		fmt.Printf("Winner: %s\n", s.WinnerName)
	}
	if len(s.Leaderboard) > 0 {
		fmt.Println("\nLeaderboard:")
		o.printLeaderboard(s.Leaderboard)
	}
}

func (o *Output) printAnswer(a *apiclient.AnswerResult) {
	fmt.Println(a.Message)
}

func (o *Output) printLeaderboard(entries []apiclient.LeaderboardEntry) {
	for i, e := range entries {
		fmt.Printf("  %2d. %-20s %4d (best %d)\n", i+1, e.Username, e.Score, e.HighScore)
	}
}
