// Command konkan-play is an interactive terminal client for the Konkan
// engine: a human plays one seat against AI opponents driven by
// pkg/search, with the engine suggesting the human's own move too. A
// second mode watches the engine play itself for a configurable number
// of rounds and offers to persist the session log.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/rs/zerolog"

	"github.com/konkan-engine/konkan/pkg/actiongen"
	"github.com/konkan-engine/konkan/pkg/analysis"
	"github.com/konkan-engine/konkan/pkg/cards"
	"github.com/konkan-engine/konkan/pkg/rules"
	"github.com/konkan-engine/konkan/pkg/scoreboard"
	"github.com/konkan-engine/konkan/pkg/search"
)

var (
	suitColor = map[cards.Suit]*color.Color{
		cards.Spades:   color.New(color.FgWhite, color.Bold),
		cards.Clubs:    color.New(color.FgWhite, color.Bold),
		cards.Hearts:   color.New(color.FgRed, color.Bold),
		cards.Diamonds: color.New(color.FgRed, color.Bold),
	}
	headerColor = color.New(color.FgCyan, color.Bold)
	infoColor   = color.New(color.FgYellow)
	warnColor   = color.New(color.FgRed)
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen}).With().Timestamp().Logger()

	printHeader("Konkan Engine")
	fmt.Println("A rummy-family card game, played against an information-set MCTS opponent.")
	fmt.Println()

	mode, err := promptSelect("Choose a mode", []string{"Play against the engine", "Watch the engine play itself"})
	if err != nil {
		log.Error().Err(err).Msg("menu selection failed")
		return
	}

	cfg := rules.DefaultConfig()
	cfg.NumPlayers = promptInt("Number of players", 2, 2, 6)
	cfg.HandSize = promptInt("Hand size", cfg.HandSize, 5, 20)

	seed := time.Now().UnixNano()
	rng := rand.New(rand.NewSource(seed))

	switch mode {
	case 0:
		playInteractive(cfg, rng, log)
	case 1:
		n := promptInt("How many rounds to simulate", 3, 1, 50)
		simulateSelfPlay(cfg, rng, n, log)
	}
}

// playInteractive runs one round with a human in seat 0 and AI opponents
// in every other seat, rendering hand/table state and letting the engine
// both suggest and play moves for the AI seats.
func playInteractive(cfg rules.Config, rng *rand.Rand, log zerolog.Logger) {
	const human = 0
	state := dealRound(cfg, rng)
	gen := actiongen.NewGenerator(state.Pool, analysis.DefaultWeights())

	for state.Public.WinnerIndex < 0 {
		printTable(state)
		actor := state.Public.TurnIndex

		if actor == human {
			if err := humanTurn(state, gen, rng); err != nil {
				warnColor.Println("turn aborted:", err)
				return
			}
			continue
		}

		if err := aiTurn(state, actor, gen, rng); err != nil {
			log.Error().Err(err).Int("player", actor).Msg("AI turn failed")
			return
		}
	}

	printHeader("Round over")
	printScores(state)
}

// simulateSelfPlay plays n full rounds with every seat AI-controlled and
// prints a running scoreboard, then offers to persist the session.
func simulateSelfPlay(cfg rules.Config, rng *rand.Rand, n int, log zerolog.Logger) {
	history, err := scoreboard.NewMatchHistory(cfg.NumPlayers)
	if err != nil {
		log.Error().Err(err).Msg("failed to start match history")
		return
	}

	for round := 1; round <= n; round++ {
		cfg.DealerIndex = (cfg.DealerIndex + 1) % cfg.NumPlayers
		state := dealRound(cfg, rng)
		gen := actiongen.NewGenerator(state.Pool, analysis.DefaultWeights())

		turns := 0
		for state.Public.WinnerIndex < 0 && turns < 2000 {
			actor := state.Public.TurnIndex
			if err := aiTurn(state, actor, gen, rng); err != nil {
				log.Error().Err(err).Int("round", round).Int("player", actor).Msg("AI turn failed")
				return
			}
			turns++
		}

		if err := history.RecordRound(state, round); err != nil {
			log.Error().Err(err).Int("round", round).Msg("failed to record round")
			return
		}

		fmt.Printf("Round %d: winner P%d\n", round, state.Public.WinnerIndex+1)
	}

	printHeader("Match totals")
	for _, t := range history.Totals() {
		fmt.Printf("P%d: %d wins, net %d\n", t.PlayerIndex+1, t.Wins, t.NetPoints)
	}

	if promptYesNo("Save this session's log?") {
		path := fmt.Sprintf("konkan-session-%s.yaml", history.SessionID)
		if err := scoreboard.SaveSession(path, history); err != nil {
			log.Error().Err(err).Msg("failed to save session")
			return
		}
		infoColor.Println("saved to", path)
	}
}

func dealRound(cfg rules.Config, rng *rand.Rand) *rules.State {
	deck := cards.NewDeck()
	cards.Shuffle(deck, rng)
	state, err := rules.Deal(cfg, deck, rng)
	if err != nil {
		panic(err) // malformed config is a programming fault, not a runtime condition
	}
	return state
}

// humanTurn drives one draw+play cycle for the human seat, surfacing the
// engine's recommendation at every decision point.
func humanTurn(state *rules.State, gen *actiongen.Generator, rng *rand.Rand) error {
	const human = 0
	printSubHeader("Your turn")

	draws := gen.LegalDrawActions(state, human)
	if len(draws) == 0 {
		return fmt.Errorf("no legal draw actions")
	}
	labels := make([]string, len(draws))
	for i, d := range draws {
		labels[i] = drawLabel(d)
	}
	choice, err := promptSelect("Draw from", labels)
	if err != nil {
		return err
	}
	if err := rules.ApplyDraw(state, human, draws[choice]); err != nil {
		return err
	}

	printHand(state.Players[human].Hand)

	actions := gen.LegalPlayActions(state, human, state.Config.DiscardCap)
	if len(actions) == 0 {
		return fmt.Errorf("no legal play actions")
	}

	report := search.RunSearch(state, human, rng, searchConfigFrom(state.Config))
	infoColor.Printf("engine suggests: %s\n", describeAction(report.Best))

	playLabels := make([]string, len(actions))
	for i, a := range actions {
		playLabels[i] = describeAction(a)
	}
	choice, err = promptSelect("Your move", playLabels)
	if err != nil {
		return err
	}
	return actiongen.Apply(state, human, actions[choice])
}

// aiTurn draws (preferring trash when eligible) and plays the engine's
// top search recommendation for actor.
func aiTurn(state *rules.State, actor int, gen *actiongen.Generator, rng *rand.Rand) error {
	draws := gen.LegalDrawActions(state, actor)
	if len(draws) == 0 {
		return fmt.Errorf("player %d has no legal draw actions", actor)
	}
	draw := draws[0]
	for _, d := range draws {
		if d.Kind == rules.DrawFromTrash {
			draw = d
		}
	}
	if err := rules.ApplyDraw(state, actor, draw); err != nil {
		return err
	}

	report := search.RunSearch(state, actor, rng, searchConfigFrom(state.Config))
	if len(report.Actions) == 0 {
		return fmt.Errorf("player %d has no legal play actions", actor)
	}
	return actiongen.Apply(state, actor, report.Best)
}

func searchConfigFrom(cfg rules.Config) search.Config {
	return search.Config{
		Simulations:     cfg.Simulations,
		ExploreConst:    cfg.ExplorationConstant,
		DirichletAlpha:  cfg.DirichletAlpha,
		DirichletWeight: cfg.DirichletWeight,
		OpponentPriors:  cfg.OpponentPriors,
		MaxCandidates:   cfg.DiscardCap,
	}
}

func drawLabel(d rules.DrawAction) string {
	if d.Kind == rules.DrawFromTrash {
		return "trash pile"
	}
	return "stock"
}

func describeAction(a actiongen.PlayAction) string {
	switch {
	case len(a.LayDown) > 0:
		return fmt.Sprintf("lay down %d meld(s), discard %s", len(a.LayDown), a.Discard)
	case len(a.SarfMoves) > 0:
		return fmt.Sprintf("sarf %s, discard %s", a.SarfMoves[0].Card, a.Discard)
	default:
		return fmt.Sprintf("discard %s", a.Discard)
	}
}

func printHeader(title string) {
	fmt.Println()
	headerColor.Println("=== " + title + " ===")
}

func printSubHeader(title string) {
	fmt.Println()
	headerColor.Println("--- " + title + " ---")
}

func printHand(hand cards.Mask) {
	fmt.Print("Hand: ")
	for _, id := range hand.IDs() {
		printCard(id)
		fmt.Print(" ")
	}
	fmt.Println()
}

func printCard(id cards.ID) {
	d := cards.Decode(id)
	if d.IsJoker {
		fmt.Print("JK")
		return
	}
	suitColor[d.Suit].Print(id.String())
}

func printTable(state *rules.State) {
	printHeader(fmt.Sprintf("Turn: player %d", state.Public.TurnIndex+1))
	for i := range state.Players {
		count := state.Players[i].Hand.Popcount()
		fmt.Printf("P%d: %d cards", i+1, count)
		if state.Players[i].HasComeDown {
			fmt.Print(" (down)")
		}
		fmt.Println()
	}
	if top, ok := state.Public.TopTrash(); ok {
		fmt.Print("Trash top: ")
		printCard(top)
		fmt.Println()
	}
	for _, tm := range state.Table.Melds {
		fmt.Printf("Table meld #%d (%s, owner P%d): ", tm.ID, tm.Kind, tm.Owner+1)
		for _, id := range tm.Cards.IDs() {
			printCard(id)
			fmt.Print(" ")
		}
		fmt.Println()
	}
}

func printScores(state *rules.State) {
	for _, sc := range rules.FinalScores(state) {
		marker := " "
		if sc.Won {
			marker = "*"
		}
		fmt.Printf("%sP%d: laid %d, deadwood %d, net %d\n", marker, sc.PlayerIndex+1, sc.LaidPoints, sc.DeadwoodPoints, sc.Net)
	}
}

func promptSelect(label string, items []string) (int, error) {
	prompt := promptui.Select{Label: label, Items: items}
	idx, _, err := prompt.Run()
	return idx, err
}

func promptInt(label string, def, min, max int) int {
	prompt := promptui.Prompt{
		Label:   fmt.Sprintf("%s (%d-%d, default %d)", label, min, max, def),
		Default: strconv.Itoa(def),
		Validate: func(input string) error {
			n, err := strconv.Atoi(input)
			if err != nil {
				return fmt.Errorf("enter a number")
			}
			if n < min || n > max {
				return fmt.Errorf("must be between %d and %d", min, max)
			}
			return nil
		},
	}
	result, err := prompt.Run()
	if err != nil {
		return def
	}
	n, err := strconv.Atoi(result)
	if err != nil {
		return def
	}
	return n
}

func promptYesNo(label string) bool {
	prompt := promptui.Prompt{Label: label + " (y/N)", Default: "n"}
	result, err := prompt.Run()
	if err != nil {
		return false
	}
	return result == "y" || result == "Y" || result == "yes"
}
