// Package report summarises a simulation run for the terminal and as JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/lox/blackjackforbots/internal/statistics"
)

// Report is the JSON document written by `blackjack simulate --output`
type Report struct {
	Bot      string        `json:"bot"`
	Decks    int           `json:"decks"`
	Seed     int64         `json:"seed"`
	Elapsed  time.Duration `json:"elapsed_ns"`
	Episodes int           `json:"episodes"`

	Mean     float64    `json:"mean"`
	Median   float64    `json:"median"`
	StdDev   float64    `json:"std_dev"`
	StdError float64    `json:"std_error"`
	CI95     [2]float64 `json:"ci95"`
	AvgSteps float64    `json:"avg_steps"`

	Wins        int     `json:"wins"`
	Blackjacks  int     `json:"blackjacks"`
	Pushes      int     `json:"pushes"`
	Losses      int     `json:"losses"`
	PlayerBusts int     `json:"player_busts"`
	DealerBusts int     `json:"dealer_busts"`
	WinRate     float64 `json:"win_rate"`

	UpCards []UpCard `json:"up_cards"`
}

// UpCard is the mean return against one dealer up card value
type UpCard struct {
	Value    int     `json:"value"`
	Episodes int     `json:"episodes"`
	Mean     float64 `json:"mean"`
}

// Meta identifies the run a report belongs to
type Meta struct {
	Bot     string
	Decks   int
	Seed    int64
	Elapsed time.Duration
}

// New builds a report from accumulated statistics
func New(meta Meta, stats *statistics.Statistics) *Report {
	low, high := stats.ConfidenceInterval95()
	r := &Report{
		Bot:         meta.Bot,
		Decks:       meta.Decks,
		Seed:        meta.Seed,
		Elapsed:     meta.Elapsed,
		Episodes:    stats.Episodes,
		Mean:        stats.Mean(),
		Median:      stats.Median(),
		StdDev:      stats.StdDev(),
		StdError:    stats.StdError(),
		CI95:        [2]float64{low, high},
		AvgSteps:    stats.AvgSteps(),
		Wins:        stats.Wins,
		Blackjacks:  stats.Blackjacks,
		Pushes:      stats.Pushes,
		Losses:      stats.Losses,
		PlayerBusts: stats.PlayerBust,
		DealerBusts: stats.DealerBust,
		WinRate:     stats.WinRate(),
	}

	for value := 2; value <= 11; value++ {
		up := stats.UpCardResults[value]
		if up.Episodes == 0 {
			continue
		}
		r.UpCards = append(r.UpCards, UpCard{
			Value:    value,
			Episodes: up.Episodes,
			Mean:     stats.UpCardMean(value),
		})
	}
	return r
}

// Print writes a human-readable summary
func (r *Report) Print(w io.Writer) {
	if r.Decks > 0 {
		fmt.Fprintf(w, "\n=== FINAL RESULTS: %s bot, %d deck(s) ===\n", r.Bot, r.Decks)
	} else {
		fmt.Fprintf(w, "\n=== FINAL RESULTS: %s bot ===\n", r.Bot)
	}
	fmt.Fprintf(w, "Rounds played: %d\n", r.Episodes)
	fmt.Fprintf(w, "Seed: %d\n", r.Seed)
	if r.Elapsed > 0 {
		fmt.Fprintf(w, "Total time: %v (%.0f rounds/sec)\n",
			r.Elapsed.Round(time.Millisecond), float64(r.Episodes)/r.Elapsed.Seconds())
	}

	fmt.Fprintf(w, "\n=== STATISTICAL RESULTS ===\n")
	fmt.Fprintf(w, "Mean: %.4f units/round\n", r.Mean)
	fmt.Fprintf(w, "Median: %.4f units/round\n", r.Median)
	fmt.Fprintf(w, "Std Dev: %.4f units\n", r.StdDev)
	fmt.Fprintf(w, "Std Error: %.4f units\n", r.StdError)
	fmt.Fprintf(w, "95%% CI: [%.4f, %.4f] units/round\n", r.CI95[0], r.CI95[1])
	fmt.Fprintf(w, "Actions per round: %.2f\n", r.AvgSteps)

	fmt.Fprintf(w, "\n=== OUTCOMES ===\n")
	fmt.Fprintf(w, "Wins: %d (%s)\n", r.Wins, r.pct(r.Wins))
	fmt.Fprintf(w, "Blackjacks: %d (%s)\n", r.Blackjacks, r.pct(r.Blackjacks))
	fmt.Fprintf(w, "Pushes: %d (%s)\n", r.Pushes, r.pct(r.Pushes))
	fmt.Fprintf(w, "Losses: %d (%s), %d by player bust\n", r.Losses, r.pct(r.Losses), r.PlayerBusts)
	fmt.Fprintf(w, "Dealer busts: %d (%s)\n", r.DealerBusts, r.pct(r.DealerBusts))

	if len(r.UpCards) > 0 {
		fmt.Fprintf(w, "\n=== DEALER UP CARD ===\n")
		for _, up := range r.UpCards {
			label := fmt.Sprint(up.Value)
			if up.Value == 11 {
				label = "A"
			}
			fmt.Fprintf(w, "%2s: %d rounds, %+.3f units/round\n", label, up.Episodes, up.Mean)
		}
	}
}

func (r *Report) pct(n int) string {
	if r.Episodes == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(n)/float64(r.Episodes)*100)
}

// WriteFile writes the report as indented JSON. The file is written to a
// temporary sibling and renamed into place, so readers never see a partial
// report.
func (r *Report) WriteFile(filename string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	data = append(data, '\n')

	// Same directory keeps the rename on one filesystem
	tmpFile, err := os.CreateTemp(filepath.Dir(filename), filepath.Base(filename)+".tmp.*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	defer func() {
		if tmpFile != nil {
			_ = tmpFile.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	tmpFile = nil

	if err := os.Chmod(tmpPath, 0o644); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, filename); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}
