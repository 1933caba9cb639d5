// Command autoplay plays complete dice chess games against a running server
// through the REST API, both sides driven by a greedy move policy.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"time"

	"github.com/wricardo/dicechess/game/engine"
	"github.com/wricardo/dicechess/game/service"
)

// Player runs the roll / move / end-turn loop for whichever side is to play
type Player struct {
	client   *Client
	strategy *GreedyStrategy
	delay    time.Duration
	verbose  bool
}

// GameSummary describes how one game finished
type GameSummary struct {
	Winner engine.Color
	Turns  int
	Moves  int
}

// PlayTurn plays out the current turn and returns the state after it
func (p *Player) PlayTurn(ctx context.Context, state *engine.GameState) (*engine.GameState, int, error) {
	moves := 0
	turn := state.Turn
	number := state.TurnNumber

	for state.Phase != engine.GameOver && state.Turn == turn && state.TurnNumber == number {
		var (
			res    *service.CommandResult
			choice Choice
			moved  bool
			err    error
		)

		switch state.Phase {
		case engine.AwaitingRoll:
			res, err = p.client.Roll(ctx)
		case engine.RollAnimating:
			res, err = p.client.CompleteRoll(ctx)
		case engine.AwaitingMove:
			choice, moved = p.strategy.NextMove(state)
			if !moved {
				res, err = p.client.EndTurn(ctx)
				break
			}
			if _, err = p.client.Select(ctx, choice.From); err == nil {
				res, err = p.client.Move(ctx, choice.Move.To)
			}
		default:
			return state, moves, fmt.Errorf("unexpected phase %q", state.Phase)
		}

		if err != nil {
			return state, moves, err
		}
		if !res.Accepted() {
			return state, moves, fmt.Errorf("server rejected command in phase %s: %s", state.Phase, res.Reason)
		}

		if p.verbose {
			switch {
			case moved:
				log.Printf("♟️  %s %s -> %s cost %d", turn, engine.SquareName(choice.From), engine.SquareName(choice.Move.To), choice.Move.Cost)
			case state.Phase == engine.AwaitingRoll:
				log.Printf("🎲 %s rolled %d", turn, res.GameState.DiceValue)
			}
		}
		if moved {
			moves++
		}
		state = res.GameState

		if p.delay > 0 {
			time.Sleep(p.delay)
		}
	}

	return state, moves, nil
}

// PlayGame plays from state until a king falls or maxTurns turns have passed.
// Winner is empty when the turn limit stopped the game.
func (p *Player) PlayGame(ctx context.Context, state *engine.GameState, maxTurns int) (*GameSummary, error) {
	summary := &GameSummary{}

	for state.Phase != engine.GameOver && summary.Turns < maxTurns {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		next, moves, err := p.PlayTurn(ctx, state)
		summary.Moves += moves
		if err != nil {
			return summary, err
		}
		summary.Turns++
		state = next
	}

	summary.Winner = state.Winner
	return summary, nil
}

func main() {
	serverURL := flag.String("url", "http://localhost:8080", "Game server URL")
	configID := flag.String("config", "", "Game configuration ID (classic, skirmish, cavalry, endgame)")
	continueSession := flag.String("continue", "", "Resume playing an existing session by ID")
	games := flag.Int("games", 1, "Number of games to play")
	maxTurns := flag.Int("max-turns", 500, "Maximum turns per game")
	seed := flag.Uint64("seed", 0, "Seed for tie breaks (0 = always pick the first candidate)")
	verbose := flag.Bool("v", false, "Verbose output")
	delayMs := flag.Int("delay", 0, "Delay between commands in milliseconds (0 = no delay)")
	flag.Parse()

	ctx := context.Background()

	log.Printf("Connecting to game server at %s", *serverURL)
	client := NewClient(*serverURL)

	if *continueSession != "" {
		info, err := client.Resume(ctx, *continueSession)
		if err != nil {
			log.Fatalf("Failed to resume session %s: %v", *continueSession, err)
		}
		log.Printf("🔄 Resuming session: %s (%s)", info.ID, info.ConfigName)
	} else {
		info, err := client.CreateSession(ctx, *configID)
		if err != nil {
			log.Fatalf("Failed to create session: %v", err)
		}
		log.Printf("✨ Session created: %s (%s)", info.ID, info.ConfigName)
	}

	var rng *rand.Rand
	if *seed != 0 {
		rng = rand.New(rand.NewPCG(*seed, *seed))
	}

	player := &Player{
		client:   client,
		strategy: NewGreedyStrategy(rng),
		delay:    time.Duration(*delayMs) * time.Millisecond,
		verbose:  *verbose,
	}

	wins := map[engine.Color]int{}
	for game := 1; game <= *games; game++ {
		state, err := client.State(ctx)
		if err != nil {
			log.Fatalf("Failed to get state: %v", err)
		}
		if state.Phase == engine.GameOver || game > 1 {
			if state, err = client.Reset(ctx); err != nil {
				log.Fatalf("Failed to reset game: %v", err)
			}
		}

		log.Printf("\n=== 🎮 Game %d/%d ===", game, *games)
		summary, err := player.PlayGame(ctx, state, *maxTurns)
		if err != nil {
			log.Fatalf("Game %d aborted after %d turns: %v", game, summary.Turns, err)
		}

		if summary.Winner == "" {
			log.Printf("⏱️  Game %d stopped at the %d turn limit (%d moves)", game, summary.Turns, summary.Moves)
			continue
		}
		wins[summary.Winner]++
		log.Printf("🏁 Game %d: %s wins in %d turns (%d moves)", game, engine.Title(summary.Winner), summary.Turns, summary.Moves)
	}

	log.Printf("Session: %s", client.SessionID())
	log.Printf("Results: white %d, black %d, unfinished %d", wins[engine.White], wins[engine.Black], *games-wins[engine.White]-wins[engine.Black])
	if wins[engine.White]+wins[engine.Black] == 0 {
		os.Exit(1)
	}
}
