package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/dicechess/game/engine"
	"github.com/wricardo/dicechess/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Dice Chess",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Dice Chess - MCP Interface

This is a thin client that proxies all requests to the REST API server.

Chess where each turn you roll a die and spend the result as a movement budget
across your pieces. Capture the enemy king to win.

TURN LOOP:
1. roll_dice
2. legal_moves / game_state to plan
3. move_piece as many times as the budget allows (each piece once per turn)
4. end_turn to forfeit the rest (turns may end automatically)

Squares are (file, rank) with (0,0) the top-left corner. White starts on ranks 6-7,
black on ranks 0-1. Call game_instructions for the full rules.`),
	)

	c.registerTools()
}

func sessionProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

func coordinateProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"minimum":     0,
		"maximum":     engine.BoardSize - 1,
		"description": description,
	}
}

func sessionOnlySchema() mcp.ToolInputSchema {
	return mcp.ToolInputSchema{
		Type: "object",
		Properties: map[string]interface{}{
			"session_id": sessionProperty(),
		},
		Required: []string{"session_id"},
	}
}

func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional config selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "Config to use, see list_configs (optional, defaults to classic)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: sessionOnlySchema(),
	}, c.handleGetSession)

	// Turn commands
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the board, turn, phase, dice and remaining budget",
		InputSchema: sessionOnlySchema(),
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "roll_dice",
		Description: "Roll the die for the side to move. The rolled value becomes the movement budget.",
		InputSchema: sessionOnlySchema(),
	}, c.handleRollDice)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "select_square",
		Description: "Click a square: selects an own unmoved piece, moves the selected piece there, or clears the selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"file":       coordinateProperty("File (column) 0-7, left to right"),
				"rank":       coordinateProperty("Rank (row) 0-7, top to bottom"),
			},
			Required: []string{"session_id", "file", "rank"},
		},
	}, c.handleSelectSquare)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_piece",
		Description: "Select the piece on the from square and move it to the to square in one step",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"from_file":  coordinateProperty("File of the piece to move"),
				"from_rank":  coordinateProperty("Rank of the piece to move"),
				"to_file":    coordinateProperty("Destination file"),
				"to_rank":    coordinateProperty("Destination rank"),
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of why you are making this move",
				},
			},
			Required: []string{"session_id", "from_file", "from_rank", "to_file", "to_rank"},
		},
	}, c.handleMovePiece)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "end_turn",
		Description: "End the current turn and forfeit any remaining budget",
		InputSchema: sessionOnlySchema(),
	}, c.handleEndTurn)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "legal_moves",
		Description: "Preview the destinations and costs for the piece on a square with the current budget",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"file":       coordinateProperty("File of the piece"),
				"rank":       coordinateProperty("Rank of the piece"),
			},
			Required: []string{"session_id", "file", "rank"},
		},
	}, c.handleLegalMoves)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Start a new game in the same session",
		InputSchema: sessionOnlySchema(),
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available game configurations",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the complete rules of dice chess",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	if args, ok := request.Params.Arguments.(map[string]interface{}); ok {
		return args
	}
	return map[string]interface{}{}
}

// intArg reads a JSON number argument
func intArg(args map[string]interface{}, key string) (int, error) {
	switch v := args[key].(type) {
	case float64:
		return int(v), nil
	case int:
		return v, nil
	case json.Number:
		n, err := v.Int64()
		return int(n), err
	case nil:
		return 0, fmt.Errorf("%s is required", key)
	default:
		return 0, fmt.Errorf("%s must be an integer", key)
	}
}

func squareArg(args map[string]interface{}, fileKey, rankKey string) (engine.Square, error) {
	file, err := intArg(args, fileKey)
	if err != nil {
		return engine.Square{}, err
	}
	rank, err := intArg(args, rankKey)
	if err != nil {
		return engine.Square{}, err
	}
	return engine.Sq(file, rank), nil
}

func (c *Client) command(ctx context.Context, sessionID, path string, body interface{}) (*service.CommandResult, error) {
	var result service.CommandResult
	if err := c.apiCall(ctx, "POST", fmt.Sprintf("/api/sessions/%s/%s", sessionID, path), body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	configID, _ := args["config_id"].(string)

	body := map[string]string{}
	if configID != "" {
		body["config_id"] = configID
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\n\n%s", session.ID, session.ConfigName, formatGameState(session.GameState))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		status := ""
		if s.GameState != nil {
			status = fmt.Sprintf(", %s to %s", engine.Title(s.GameState.Turn), phaseVerb(s.GameState.Phase))
		}
		fmt.Fprintf(&b, "- %s (Config: %s, Created: %s%s)\n",
			s.ID, s.ConfigName, s.CreatedAt.Format("15:04:05"), status)
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", fmt.Sprintf("/api/sessions/%s", sessionID), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", fmt.Sprintf("/api/sessions/%s/state", sessionID), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

// handleRollDice rolls and, since agents have no animation, completes the roll
func (c *Client) handleRollDice(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	result, err := c.command(ctx, sessionID, "roll", nil)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	events := result.Events

	if result.Accepted() && result.GameState.Phase == engine.RollAnimating {
		completed, err := c.command(ctx, sessionID, "roll/complete", nil)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		events = append(events, completed.Events...)
		completed.Events = events
		result = completed
	}

	return mcp.NewToolResultText(formatCommandResult(result)), nil
}

func (c *Client) handleSelectSquare(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)

	sq, err := squareArg(args, "file", "rank")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := c.command(ctx, sessionID, "select", sq)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatCommandResult(result)), nil
}

func (c *Client) handleMovePiece(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)

	from, err := squareArg(args, "from_file", "from_rank")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	to, err := squareArg(args, "to_file", "to_rank")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	// A click on anything but an own unmoved piece would move the current
	// selection instead, so check the from square first.
	var state engine.GameState
	if err := c.apiCall(ctx, "GET", fmt.Sprintf("/api/sessions/%s/state", sessionID), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if state.Phase != engine.AwaitingMove {
		return mcp.NewToolResultError(fmt.Sprintf("Cannot move now: %s to %s", engine.Title(state.Turn), phaseVerb(state.Phase))), nil
	}
	var piece *engine.Piece
	if state.Board != nil {
		piece = state.Board.Get(from)
	}
	if piece == nil || piece.Color != state.Turn || piece.MovedThisTurn {
		return mcp.NewToolResultError(fmt.Sprintf("No movable %s piece at %s\n\n%s", state.Turn, engine.SquareName(from), formatGameState(&state))), nil
	}

	selected, err := c.command(ctx, sessionID, "select", from)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !selected.Accepted() || selected.GameState.SelectedPiece == engine.NoPiece {
		msg := fmt.Sprintf("Could not select a piece at %s", engine.SquareName(from))
		if selected.Reason != "" {
			msg += ": " + selected.Reason
		}
		return mcp.NewToolResultError(msg + "\n\n" + formatGameState(selected.GameState)), nil
	}

	moved, err := c.command(ctx, sessionID, "move", to)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatCommandResult(moved)), nil
}

func (c *Client) handleEndTurn(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	result, err := c.command(ctx, sessionID, "end-turn", nil)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatCommandResult(result)), nil
}

func (c *Client) handleLegalMoves(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)

	sq, err := squareArg(args, "file", "rank")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var preview service.LegalMovesResult
	path := fmt.Sprintf("/api/sessions/%s/moves?file=%d&rank=%d", sessionID, sq.File, sq.Rank)
	if err := c.apiCall(ctx, "GET", path, nil, &preview); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatLegalMoves(&preview)), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var response struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"game_state"`
	}

	if err := c.apiCall(ctx, "POST", fmt.Sprintf("/api/sessions/%s/reset", sessionID), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("%s\n\n%s", response.Message, formatGameState(response.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Configurations:\n\n")
	for _, cfg := range configs {
		fmt.Fprintf(&b, "• %s (config_id: %s)\n  %s\n  Pieces: %d, First turn: %s, Auto end turn: %t\n\n",
			cfg.Name, cfg.ConfigID, cfg.Description, cfg.PieceCount, cfg.FirstTurn, cfg.AutoEndTurn)
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(instructions), nil
}

const instructions = `Dice Chess - Complete Instructions

GAME OBJECTIVE:
Capture the enemy king. There is no check or checkmate; the game ends the
moment a king is taken.

BOARD:
• 8x8, squares are (file, rank). (0,0) is the top-left corner.
• Black starts on ranks 0-1, white on ranks 6-7. White pawns move toward rank 0.
• Uppercase letters are white (K Q R B N P), lowercase are black, '.' is empty.

TURN STRUCTURE:
1. Roll the die (1-6). The value is your movement budget for the turn.
2. Move any number of your pieces, each at most once per turn, paying the cost
   of every move from the budget.
3. The turn ends when you end it or when the budget reaches zero.
Unused budget is lost.

MOVE COSTS:
• Pawn: 1 forward; 2 for the two-square opening from its start rank (both
  squares must be empty); 1 to capture diagonally forward. No en passant.
• Knight: 3 per L-shaped jump. Jumps over pieces.
• Bishop, Rook, Queen: 1 per square travelled along the line. Cannot pass
  through pieces; a capture ends the slide.
• King: 1 for a single step in any direction. No castling.
A move is only offered when its cost fits the remaining budget.

STRATEGY NOTES:
• A roll of 1-2 cannot move a knight. Plan pawn and king steps for low rolls.
• Spreading a large roll over several pieces usually beats one long slide.
• Sliders are cheap for short hops and expensive for long ones.
• Your king can be captured at any time; keep it shielded from long lines.

TOOLS:
• roll_dice - rolls and grants the budget
• legal_moves - preview destinations and costs for a square
• move_piece - select and move in one call
• select_square - the raw click command
• end_turn - forfeit the remaining budget
• game_state - board and turn status

Good luck!`

// Formatting helpers

func phaseVerb(phase engine.Phase) string {
	switch phase {
	case engine.AwaitingRoll:
		return "roll"
	case engine.RollAnimating:
		return "finish rolling"
	case engine.AwaitingMove:
		return "move"
	default:
		return string(phase)
	}
}

func formatSessionInfo(session *service.SessionInfo) string {
	result := fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\nLast Accessed: %s\n\n",
		session.ID, session.ConfigName,
		session.CreatedAt.Format(time.RFC3339), session.LastAccessedAt.Format(time.RFC3339))
	return result + formatGameState(session.GameState)
}

// formatBoard draws rank 0 on top with file and rank labels
func formatBoard(board *engine.Board) string {
	if board == nil {
		return "(no board)\n"
	}

	var b strings.Builder
	b.WriteString("   0 1 2 3 4 5 6 7\n")
	for rank := 0; rank < engine.BoardSize; rank++ {
		fmt.Fprintf(&b, "%d  ", rank)
		for file := 0; file < engine.BoardSize; file++ {
			if file > 0 {
				b.WriteByte(' ')
			}
			b.WriteByte(engine.PieceSymbol(board.Get(engine.Sq(file, rank))))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "Game state unavailable"
	}

	var b strings.Builder
	if state.Phase == engine.GameOver {
		fmt.Fprintf(&b, "🏁 GAME OVER - %s wins\n", engine.Title(state.Winner))
	} else {
		fmt.Fprintf(&b, "Turn %d: %s to %s\n", state.TurnNumber, engine.Title(state.Turn), phaseVerb(state.Phase))
	}
	fmt.Fprintf(&b, "Dice: %d, Moves left: %d\n", state.DiceValue, state.MovesLeft)

	if state.Board != nil {
		if p := state.Board.Piece(state.SelectedPiece); p != nil {
			fmt.Fprintf(&b, "Selected: %s %s at %s\n", p.Color, p.Kind, engine.SquareName(p.Position))
		}
	}
	if state.TurnShouldEnd {
		b.WriteString("Budget spent, end the turn\n")
	}
	if state.Message != "" {
		fmt.Fprintf(&b, "Message: %s\n", state.Message)
	}

	b.WriteString("\n")
	b.WriteString(formatBoard(state.Board))

	if len(state.LegalMoves) > 0 {
		b.WriteString("\nLegal moves for selection:\n")
		b.WriteString(formatMoveList(state.LegalMoves))
	}

	return b.String()
}

func formatMoveList(moves []engine.Move) string {
	var b strings.Builder
	for _, m := range moves {
		capture := ""
		if m.Capture {
			capture = " (capture)"
		}
		fmt.Fprintf(&b, "  -> %s cost %d%s\n", engine.SquareName(m.To), m.Cost, capture)
	}
	return b.String()
}

func formatLegalMoves(preview *service.LegalMovesResult) string {
	if preview.Piece == nil {
		return fmt.Sprintf("No piece at %s", engine.SquareName(preview.Square))
	}

	header := fmt.Sprintf("%s %s at %s with %d moves left:\n",
		engine.Title(preview.Piece.Color), preview.Piece.Kind, engine.SquareName(preview.Square), preview.MovesLeft)
	if len(preview.Moves) == 0 {
		return header + "  (no legal moves)"
	}
	return header + formatMoveList(preview.Moves)
}

func formatCommandResult(result *service.CommandResult) string {
	var b strings.Builder

	switch result.Outcome {
	case engine.Applied:
		b.WriteString("✓ Applied\n")
	case engine.Illegal:
		b.WriteString("✗ Illegal move\n")
	default:
		b.WriteString("✗ Ignored\n")
	}
	if result.Reason != "" {
		fmt.Fprintf(&b, "Reason: %s\n", result.Reason)
	}

	if len(result.Events) > 0 {
		b.WriteString("Events:\n")
		for _, ev := range result.Events {
			fmt.Fprintf(&b, "  • %s\n", ev.Message)
		}
	}

	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}
