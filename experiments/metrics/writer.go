package metrics

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// Agent kinds understood by the experiments
const (
	Minimax   = "minimax"
	AlphaBeta = "alphabeta"
	UCB1      = "ucb1"
	Sampling  = "sampling"
	Random    = "random"
)

type AgentConfig struct {
	ID          int
	Kind        string
	Ordering    string  // minimax and alphabeta: "natural" or "priority"
	Simulations int     // ucb1 and sampling
	Temperature float64 // sampling
	Seed        uint64  // 0 draws a fresh seed per search
}

type GameRecord struct {
	ID     int
	Agent1 int // AgentConfig.ID playing X
	Agent2 int // AgentConfig.ID playing O
	GameMetric
}

type MoveRecord struct {
	Game int // GameRecord.ID
	MoveMetric
}

// SearchRecord compares the engines on a single position.
type SearchRecord struct {
	Board  string
	Player string
	Value  float64
	SearchMetric
}

type Writer struct {
	baseDir string
}

// NewWriter creates dir/name/<timestamp> to hold the experiment's CSV files.
func NewWriter(dir, name string) (*Writer, error) {
	timestamp := time.Now().UTC().Format("20060102T150405Z")
	baseDir := filepath.Join(dir, name, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create directory")
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteAgentConfigs(configs []AgentConfig) error {
	header := []string{"id", "kind", "ordering", "simulations", "temperature", "seed"}
	rows := make([][]string, 0, len(configs))
	for _, config := range configs {
		rows = append(rows, []string{
			strconv.Itoa(config.ID),
			config.Kind,
			config.Ordering,
			strconv.Itoa(config.Simulations),
			strconv.FormatFloat(config.Temperature, 'g', -1, 64),
			strconv.FormatUint(config.Seed, 10),
		})
	}
	return errors.Wrap(w.write("agent_configs.csv", header, rows), "failed to write agent configs")
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	header := []string{"id", "agent1", "agent2", "starting_player", "outcome", "winner", "start_time", "end_time", "duration", "total_moves"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.ID),
			strconv.Itoa(record.Agent1),
			strconv.Itoa(record.Agent2),
			record.StartingPlayer,
			record.Outcome,
			record.Winner,
			record.StartTime.Format(time.RFC3339),
			record.EndTime.Format(time.RFC3339),
			record.Duration.String(),
			strconv.Itoa(record.TotalMoves),
		})
	}
	return errors.Wrap(w.write("game_records.csv", header, rows), "failed to write game records")
}

func (w *Writer) WriteMoveRecords(records []MoveRecord) error {
	header := []string{"game", "step", "player", "action", "engine", "duration", "nodes", "simulations"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.Game),
			strconv.Itoa(record.Step),
			record.Player,
			strconv.Itoa(record.Action),
			record.Engine,
			record.Duration.String(),
			strconv.Itoa(record.Nodes),
			strconv.Itoa(record.Simulations),
		})
	}
	return errors.Wrap(w.write("move_records.csv", header, rows), "failed to write move records")
}

func (w *Writer) WriteSearchRecords(records []SearchRecord) error {
	header := []string{"board", "player", "engine", "value", "nodes", "duration"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			record.Board,
			record.Player,
			record.Engine,
			strconv.FormatFloat(record.Value, 'g', -1, 64),
			strconv.Itoa(record.Nodes),
			record.Duration.String(),
		})
	}
	return errors.Wrap(w.write("search_records.csv", header, rows), "failed to write search records")
}

// write stores header and rows in a new file. Flush and close failures are
// reported together.
func (w *Writer) write(name string, header []string, rows [][]string) (err error) {
	f, err := os.Create(filepath.Join(w.baseDir, name))
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", name)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			err = multierror.Append(err, cerr)
		}
	}()

	writer := csv.NewWriter(f)
	if err := writer.Write(header); err != nil {
		return errors.Wrap(err, "failed to write header")
	}
	if err := writer.WriteAll(rows); err != nil {
		return errors.Wrap(err, "failed to write rows")
	}
	writer.Flush()
	return writer.Error()
}
