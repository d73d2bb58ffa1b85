// Command konkan-bench runs a head-to-head self-play benchmark between
// two search configurations and reports win rates and score totals. Seat
// assignment alternates per round so neither agent keeps the opener
// advantage, and rounds exceeding the turn limit fall back to declaring
// the lowest-deadwood player the winner.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/konkan-engine/konkan/pkg/actiongen"
	"github.com/konkan-engine/konkan/pkg/analysis"
	"github.com/konkan-engine/konkan/pkg/cards"
	"github.com/konkan-engine/konkan/pkg/rules"
	"github.com/konkan-engine/konkan/pkg/scoreboard"
	"github.com/konkan-engine/konkan/pkg/search"
)

var log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen}).With().Timestamp().Logger()

func main() {
	var (
		rounds                int
		baselineSimulations   int
		challengerSimulations int
		workers               int
		seed                  int64
		configPath            string
		sessionOut            string
	)

	root := &cobra.Command{
		Use:   "konkan-bench",
		Short: "Benchmark two Konkan search configurations against each other",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				viper.SetConfigFile(configPath)
				if err := viper.ReadInConfig(); err != nil {
					return fmt.Errorf("reading config %q: %w", configPath, err)
				}
				if viper.IsSet("rounds") {
					rounds = viper.GetInt("rounds")
				}
				if viper.IsSet("baseline_simulations") {
					baselineSimulations = viper.GetInt("baseline_simulations")
				}
				if viper.IsSet("challenger_simulations") {
					challengerSimulations = viper.GetInt("challenger_simulations")
				}
			}

			baseline := search.DefaultConfig()
			baseline.Simulations = baselineSimulations
			challenger := search.DefaultConfig()
			challenger.Simulations = challengerSimulations

			report := runHeadToHead(rounds, baseline, challenger, seed, workers)
			printReport(report)

			if sessionOut != "" {
				if err := scoreboard.SaveSession(sessionOut, report.History); err != nil {
					return fmt.Errorf("saving session: %w", err)
				}
				log.Info().Str("path", sessionOut).Msg("session saved")
			}
			return nil
		},
	}

	flags := root.Flags()
	flags.IntVar(&rounds, "rounds", 20, "number of rounds to play")
	flags.IntVar(&baselineSimulations, "baseline-simulations", 64, "search simulation budget for the baseline agent")
	flags.IntVar(&challengerSimulations, "challenger-simulations", 128, "search simulation budget for the challenger agent")
	flags.IntVar(&workers, "workers", runtime.NumCPU(), "parallel self-play workers")
	flags.Int64Var(&seed, "seed", 123, "top-level RNG seed")
	flags.StringVar(&configPath, "config", "", "optional YAML/JSON config file overriding rounds/simulations")
	flags.StringVar(&sessionOut, "session-out", "", "optional path to save the resulting match history as YAML")

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("konkan-bench failed")
		os.Exit(1)
	}
}

// AgentBreakdown is one agent's aggregate statistics across a benchmark.
type AgentBreakdown struct {
	Wins           int
	LaidPoints     int
	DeadwoodPoints int
	NetPoints      int
}

// HeadToHeadReport summarizes a completed benchmark.
type HeadToHeadReport struct {
	History    *scoreboard.MatchHistory
	Baseline   AgentBreakdown
	Challenger AgentBreakdown
}

// runHeadToHead plays rounds rounds alternating which seat is the
// baseline/challenger, splitting the work across workers independent
// goroutines. Each worker owns its own RNG and state, so no locks are
// needed beyond the WaitGroup.
func runHeadToHead(rounds int, baseline, challenger search.Config, seed int64, workers int) HeadToHeadReport {
	if workers < 1 {
		workers = 1
	}
	if rounds < 1 {
		rounds = 1
	}

	mainRNG := rand.New(rand.NewSource(seed))
	seeds := make([]int64, rounds)
	for i := range seeds {
		seeds[i] = mainRNG.Int63()
	}

	summaries := make([]scoreboard.RoundSummary, rounds)
	labels := make([][2]string, rounds)

	var wg sync.WaitGroup
	jobs := make(chan int, rounds)
	for i := 0; i < rounds; i++ {
		jobs <- i
	}
	close(jobs)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				roundNumber := i + 1
				rng := rand.New(rand.NewSource(seeds[i]))

				var configs [2]search.Config
				var lbl [2]string
				if roundNumber%2 == 1 {
					configs, lbl = [2]search.Config{baseline, challenger}, [2]string{"baseline", "challenger"}
				} else {
					configs, lbl = [2]search.Config{challenger, baseline}, [2]string{"challenger", "baseline"}
				}
				// A fixed dealer makes seat 1 the opener every round, so the
				// seat swap above alternates the opener between the agents.
				dealerIndex := 0

				summary, err := playRound(roundNumber, configs, dealerIndex, rng)
				if err != nil {
					log.Error().Err(err).Int("round", roundNumber).Msg("round failed")
					continue
				}
				summaries[i] = summary
				labels[i] = lbl
			}
		}()
	}
	wg.Wait()

	history, err := scoreboard.NewMatchHistory(2)
	if err != nil {
		panic(err) // a hardcoded 2-player benchmark can never fail this check
	}

	var baselineAgg, challengerAgg AgentBreakdown
	for i, summary := range summaries {
		if summary.Scores == nil {
			continue
		}
		if err := history.Record(summary); err != nil {
			log.Error().Err(err).Int("round", i+1).Msg("failed to record round")
			continue
		}
		for _, sc := range summary.Scores {
			bucket := &baselineAgg
			if labels[i][sc.PlayerIndex] == "challenger" {
				bucket = &challengerAgg
			}
			bucket.LaidPoints += sc.LaidPoints
			bucket.DeadwoodPoints += sc.DeadwoodPoints
			bucket.NetPoints += sc.Net
			if sc.Won {
				bucket.Wins++
			}
		}
	}

	return HeadToHeadReport{History: history, Baseline: baselineAgg, Challenger: challengerAgg}
}

// playRound plays one 2-player round to completion under configs[0]/[1]
// (indexed by seat), falling back to discarding the player's lowest-index
// held card if the search's chosen action is somehow illegal, and
// declaring the lowest-deadwood player the winner if the round exceeds
// its turn limit.
func playRound(roundNumber int, configs [2]search.Config, dealerIndex int, rng *rand.Rand) (scoreboard.RoundSummary, error) {
	const turnLimit = 400

	cfg := rules.DefaultConfig()
	cfg.NumPlayers = 2
	cfg.DealerIndex = dealerIndex

	deck := cards.NewDeck()
	cards.Shuffle(deck, rng)
	state, err := rules.Deal(cfg, deck, rng)
	if err != nil {
		return scoreboard.RoundSummary{}, err
	}
	gen := actiongen.NewGenerator(state.Pool, analysis.DefaultWeights())

	for turn := 0; turn < turnLimit && state.Public.WinnerIndex < 0; turn++ {
		actor := state.Public.TurnIndex

		if state.Players[actor].Phase == rules.AwaitingDraw {
			draws := gen.LegalDrawActions(state, actor)
			if len(draws) == 0 {
				return scoreboard.RoundSummary{}, fmt.Errorf("round %d: no legal draw actions for player %d", roundNumber, actor)
			}
			draw := draws[0]
			for _, d := range draws {
				if d.Kind == rules.DrawFromTrash {
					draw = d
				}
			}
			if err := rules.ApplyDraw(state, actor, draw); err != nil {
				return scoreboard.RoundSummary{}, err
			}
			continue
		}

		actions := gen.LegalPlayActions(state, actor, state.Config.DiscardCap)
		if len(actions) == 0 {
			return scoreboard.RoundSummary{}, fmt.Errorf("round %d: no legal play actions for player %d", roundNumber, actor)
		}

		report := search.RunSearch(state, actor, rng, configs[actor])
		chosen := report.Best
		if len(report.Actions) == 0 {
			chosen = actions[0]
		}

		snapshot := state.Clone()
		if err := actiongen.Apply(state, actor, chosen); err != nil {
			*state = *snapshot
			fallback := actiongen.PlayAction{Discard: state.Players[actor].Hand.IDs()[0]}
			if err := actiongen.Apply(state, actor, fallback); err != nil {
				return scoreboard.RoundSummary{}, err
			}
		}
	}

	if state.Public.WinnerIndex < 0 {
		lowest, lowestDeadwood := 0, -1
		for i := range state.Players {
			dw := 0
			for _, id := range state.Players[i].Hand.IDs() {
				dw += cards.Points(id)
			}
			if lowestDeadwood < 0 || dw < lowestDeadwood {
				lowest, lowestDeadwood = i, dw
			}
		}
		state.Public.WinnerIndex = lowest
	}

	return scoreboard.RoundSummary{
		RoundNumber: roundNumber,
		WinnerIndex: state.Public.WinnerIndex,
		Scores:      rules.FinalScores(state),
	}, nil
}

func printReport(r HeadToHeadReport) {
	fmt.Println()
	fmt.Println("=== Benchmark report ===")
	totalRounds := len(r.History.Rounds)
	fmt.Printf("rounds played: %d\n", totalRounds)
	fmt.Printf("baseline:   %d wins, laid %d, deadwood %d, net %d\n", r.Baseline.Wins, r.Baseline.LaidPoints, r.Baseline.DeadwoodPoints, r.Baseline.NetPoints)
	fmt.Printf("challenger: %d wins, laid %d, deadwood %d, net %d\n", r.Challenger.Wins, r.Challenger.LaidPoints, r.Challenger.DeadwoodPoints, r.Challenger.NetPoints)
	if totalRounds > 0 {
		fmt.Printf("challenger win rate: %.1f%%\n", 100*float64(r.Challenger.Wins)/float64(totalRounds))
	}
}
