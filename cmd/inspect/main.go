// Command inspect checks and explores dice chess configuration files without
// starting the server.
//
//	inspect validate [files...]              validate configs (default: every file in --config-dir)
//	inspect board <config>                   print the starting position
//	inspect moves <config> <file> <rank> <budget> [--json]
//	inspect analyze [configs...]             opening mobility per die face
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/dicechess/game/config"
	"github.com/wricardo/dicechess/game/engine"
	"github.com/wricardo/dicechess/game/service"
)

func main() {
	if err := newApp(os.Stdout).Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp(w io.Writer) *cli.Command {
	return &cli.Command{
		Name:   "inspect",
		Usage:  "validate and explore dice chess configurations",
		Writer: w,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   "configs",
				Usage:   "directory containing game configurations",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "validate",
				Usage:     "validate configuration files",
				ArgsUsage: "[files...]",
				Action:    runValidate,
			},
			{
				Name:      "board",
				Usage:     "print the starting position of a configuration",
				ArgsUsage: "<config>",
				Action:    runBoard,
			},
			{
				Name:      "moves",
				Usage:     "list the legal moves of the piece on a square for a budget",
				ArgsUsage: "<config> <file> <rank> <budget>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "print JSON instead of text"},
				},
				Action: runMoves,
			},
			{
				Name:      "analyze",
				Usage:     "summarize material and opening mobility per die face",
				ArgsUsage: "[configs...]",
				Action:    runAnalyze,
			},
		},
	}
}

// ValidationResult captures the outcome of validating a single file.
type ValidationResult struct {
	File     string   `json:"file"`
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// validateFile loads one config and checks it the way the server would,
// plus warnings for positions that load but play badly.
func validateFile(path string) ValidationResult {
	result := ValidationResult{File: filepath.Base(path), Valid: true}

	cfg, err := engine.LoadGameConfig(path)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	eng, err := engine.NewEngineWithDice(cfg, engine.FixedDice(engine.MaxDice))
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	board := eng.GetBoard()
	for _, p := range board.ActivePieces() {
		if p.Kind != engine.Pawn {
			continue
		}
		if next := p.Position.Offset(0, engine.Forward(p.Color)); !board.InBounds(next) {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%s pawn at %s sits on the last rank and can never move", p.Color, engine.SquareName(p.Position)))
		}
	}

	first := eng.Turn()
	if !engine.HasAnyMove(board, first, engine.MaxDice) {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%s moves first but has no legal move even with a %d", first, engine.MaxDice))
	}

	return result
}

func configFiles(dir string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no configuration files found in %s", dir)
	}
	sort.Strings(files)
	return files, nil
}

func runValidate(ctx context.Context, cmd *cli.Command) error {
	w := cmd.Root().Writer

	files := cmd.Args().Slice()
	if len(files) == 0 {
		var err error
		if files, err = configFiles(cmd.String("config-dir")); err != nil {
			return err
		}
	}

	invalid := 0
	for _, file := range files {
		result := validateFile(file)
		if result.Valid {
			fmt.Fprintf(w, "✅ %s\n", result.File)
		} else {
			invalid++
			fmt.Fprintf(w, "❌ %s\n", result.File)
		}
		for _, e := range result.Errors {
			fmt.Fprintf(w, "   error: %s\n", e)
		}
		for _, warning := range result.Warnings {
			fmt.Fprintf(w, "   warning: %s\n", warning)
		}
	}

	fmt.Fprintf(w, "\n%d/%d configurations valid\n", len(files)-invalid, len(files))
	if invalid > 0 {
		return fmt.Errorf("%d invalid configuration(s)", invalid)
	}
	return nil
}

func loadNamedConfig(cmd *cli.Command, name string) (*engine.GameConfig, error) {
	manager, err := config.NewManager(cmd.String("config-dir"))
	if err != nil {
		return nil, err
	}
	return manager.LoadConfig(name)
}

func formatBoard(board *engine.Board) string {
	var b strings.Builder
	b.WriteString("  01234567\n")
	for rank, row := range board.Render() {
		fmt.Fprintf(&b, "%d %s\n", rank, row)
	}
	return b.String()
}

func runBoard(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() != 1 {
		return fmt.Errorf("usage: inspect board <config>")
	}

	cfg, err := loadNamedConfig(cmd, cmd.Args().First())
	if err != nil {
		return err
	}

	state := engine.InitGameStateFromConfig(cfg)
	w := cmd.Root().Writer
	fmt.Fprintf(w, "%s: %s\n", cfg.Name, cfg.Description)
	fmt.Fprintf(w, "First turn: %s\n\n", state.Turn)
	fmt.Fprint(w, formatBoard(state.Board))
	return nil
}

func parseIntArg(cmd *cli.Command, index int, name string) (int, error) {
	value, err := strconv.Atoi(cmd.Args().Get(index))
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", name, cmd.Args().Get(index))
	}
	return value, nil
}

func runMoves(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() != 4 {
		return fmt.Errorf("usage: inspect moves <config> <file> <rank> <budget>")
	}

	cfg, err := loadNamedConfig(cmd, cmd.Args().Get(0))
	if err != nil {
		return err
	}

	file, err := parseIntArg(cmd, 1, "file")
	if err != nil {
		return err
	}
	rank, err := parseIntArg(cmd, 2, "rank")
	if err != nil {
		return err
	}
	budget, err := parseIntArg(cmd, 3, "budget")
	if err != nil {
		return err
	}

	board := engine.BuildBoard(cfg.Layout)
	sq := engine.Sq(file, rank)
	if !board.InBounds(sq) {
		return fmt.Errorf("square %s is off the board", engine.SquareName(sq))
	}

	piece := board.Get(sq)
	result := service.LegalMovesResult{
		Square:    sq,
		Piece:     piece,
		MovesLeft: budget,
		Moves:     engine.LegalMoves(piece, board, budget),
	}

	w := cmd.Root().Writer
	if cmd.Bool("json") {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	if piece == nil {
		fmt.Fprintf(w, "No piece at %s\n", engine.SquareName(sq))
		return nil
	}

	fmt.Fprintf(w, "%s %s at %s, budget %d: %d move(s)\n", piece.Color, piece.Kind, engine.SquareName(sq), budget, len(result.Moves))
	for _, m := range result.Moves {
		capture := ""
		if m.Capture {
			capture = " x " + string(board.Get(m.To).Kind)
		}
		fmt.Fprintf(w, "  %s cost %d%s\n", engine.SquareName(m.To), m.Cost, capture)
	}
	return nil
}

func runAnalyze(ctx context.Context, cmd *cli.Command) error {
	w := cmd.Root().Writer

	names := cmd.Args().Slice()
	if len(names) == 0 {
		files, err := configFiles(cmd.String("config-dir"))
		if err != nil {
			return err
		}
		for _, f := range files {
			names = append(names, strings.TrimSuffix(filepath.Base(f), ".json"))
		}
	}

	for _, name := range names {
		cfg, err := loadNamedConfig(cmd, name)
		if err != nil {
			fmt.Fprintf(w, "\n=== %s ===\nError: %v\n", name, err)
			continue
		}
		fmt.Fprintf(w, "\n=== %s ===\n", name)
		analyzeConfig(w, cfg)
	}
	return nil
}

// analyzeConfig prints material per side and, for each die face, how many of
// the first player's pieces could move on the opening roll.
func analyzeConfig(w io.Writer, cfg *engine.GameConfig) {
	state := engine.InitGameStateFromConfig(cfg)
	board := state.Board

	fmt.Fprintf(w, "Name: %s\n", cfg.Name)
	for _, color := range []engine.Color{engine.White, engine.Black} {
		counts := map[engine.PieceKind]int{}
		for _, p := range board.ActivePieces() {
			if p.Color == color {
				counts[p.Kind]++
			}
		}
		fmt.Fprintf(w, "%s: %d pieces (K%d Q%d R%d B%d N%d P%d)\n", engine.Title(color), engine.CountPieces(board, color),
			counts[engine.King], counts[engine.Queen], counts[engine.Rook], counts[engine.Bishop], counts[engine.Knight], counts[engine.Pawn])
	}

	fmt.Fprintf(w, "Opening mobility for %s:\n", state.Turn)
	for face := engine.MinDice; face <= engine.MaxDice; face++ {
		movable, destinations := 0, 0
		for _, p := range engine.MovablePieces(board, state.Turn) {
			if moves := engine.LegalMoves(p, board, face); len(moves) > 0 {
				movable++
				destinations += len(moves)
			}
		}
		fmt.Fprintf(w, "  roll %d: %d piece(s) can move, %d destination(s)\n", face, movable, destinations)
	}
}
