package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	apiclient "github.com/mcoot/quizrace/internal/client"
	"github.com/mcoot/quizrace/internal/poll"
)

func newPlayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Play interactively: watch questions and type answers",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.PlayerID == "" {
				return errors.New("not joined yet; run 'quizrace join <username>' first")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			session := &playSession{
				client:   client,
				playerID: cfg.PlayerID,
				username: cfg.Username,
			}
			return session.run(ctx)
		},
	}
}

// playSession is the interactive game loop. A polling engine streams
// question snapshots in; stdin lines come in as answer attempts. The
// session keeps a local one-second countdown between polls, resynced
// from every snapshot so it never drifts far.
type playSession struct {
	client   *apiclient.Client
	playerID string
	username string

	current     *apiclient.Snapshot
	remainingMs int64
	health      poll.Health
}

func (s *playSession) run(ctx context.Context) error {
	fmt.Printf("Playing as %s. Type an answer and press Enter. Ctrl+C to quit.\n\n", s.username)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
	engine := poll.New(s.client, poll.DefaultConfig(), logger)
	go engine.Run(ctx)

	lines := readLines(ctx)
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			fmt.Println("\nGoodbye!")
			return nil

		case event, ok := <-engine.Events():
			if !ok {
				return nil
			}
			s.handleEvent(event)

		case line, ok := <-lines:
			if !ok {
				fmt.Println("\nGoodbye!")
				return nil
			}
			s.handleInput(ctx, line)

		case <-ticker.C:
			s.tickCountdown()
		}
	}
}

func (s *playSession) handleEvent(event poll.Event) {
	if event.Err != nil {
		if s.health != event.Health {
			s.health = event.Health
			fmt.Printf("[%s] connection trouble, polling every %s\n",
				event.Health, event.Interval)
		}
		return
	}

	if s.health != poll.HealthConnected {
		s.health = poll.HealthConnected
		fmt.Println("[connected] back online")
	}

	snapshot := event.Snapshot
	firstQuestion := s.current == nil
	s.remainingMs = snapshot.RemainingMs

	if firstQuestion || event.QuestionChanged {
		if event.QuestionChanged && !event.KeepFeedback {
			fmt.Println()
		}
		s.current = snapshot
		s.printQuestion(snapshot)
		return
	}

	// Same question; only announce a newly appeared winner
	if snapshot.HasWinner() && !s.current.HasWinner() {
		fmt.Printf("\n%s won this round!\n", snapshot.WinnerName)
	}
	s.current = snapshot
}

func (s *playSession) handleInput(ctx context.Context, line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}

	value, err := strconv.ParseFloat(line, 64)
	if err != nil {
		fmt.Println("Please enter a number")
		return
	}

	if s.current == nil {
		fmt.Println("No question yet, hold on...")
		return
	}

	result, err := s.client.SubmitAnswer(ctx, s.playerID, s.current.QuestionID, value)
	if err != nil {
		if errors.Is(err, apiclient.ErrNetworkFailure) {
			fmt.Println("Network error, please try again")
			return
		}
		var apiErr *apiclient.APIError
		if errors.As(err, &apiErr) {
			fmt.Println(apiErr.Message)
			return
		}
		fmt.Printf("Error: %s\n", err)
		return
	}

	fmt.Println(result.Message)
}

// tickCountdown decrements the displayed remaining time between polls.
// Cosmetic only; the server clock is authoritative and every snapshot
// resyncs the value.
func (s *playSession) tickCountdown() {
	if s.current == nil || s.remainingMs <= 0 {
		return
	}
	s.remainingMs -= 1000
	if s.remainingMs < 0 {
		s.remainingMs = 0
	}
}

func (s *playSession) printQuestion(snapshot *apiclient.Snapshot) {
	fmt.Printf("Question: %s   (%.0fs left)\n", snapshot.Text, float64(snapshot.RemainingMs)/1000)
	if snapshot.HasWinner() {
		fmt.Printf("Winner: %s\n", snapshot.WinnerName)
	}
	fmt.Print("> ")
}

// readLines streams stdin lines on a channel; closed on EOF
func readLines(ctx context.Context) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}
