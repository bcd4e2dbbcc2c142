package main

import (
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/iwvelando/print-configurator/internal/catalog"
	"github.com/iwvelando/print-configurator/internal/config"
	"github.com/iwvelando/print-configurator/internal/simulation"
	"github.com/iwvelando/print-configurator/pkg/constants"
	"github.com/iwvelando/print-configurator/pkg/output"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// selectionFlags describe a selection on the command line: a YAML file,
// key=value pairs applied on top of it, or both.
type selectionFlags struct {
	file string
	sets []string
}

func (s *selectionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.file, "selection", "", "YAML selection file")
	cmd.Flags().StringArrayVar(&s.sets, "set", nil, "selection value as key=value (size=101, quantity=500, awkjobs=10010,20020)")
}

func parsePairs(pairs []string) ([]string, simulation.Selections, error) {
	keys := make([]string, 0, len(pairs))
	values := make(simulation.Selections, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, nil, fmt.Errorf("expected key=value, got %q", pair)
		}
		if _, seen := values[key]; !seen {
			keys = append(keys, key)
		}
		values[key] = strings.TrimSpace(value)
	}
	return keys, values, nil
}

func (s *selectionFlags) build(a *app) (catalog.OptionSelection, error) {
	sel := catalog.NewSelection(a.product.ProductID, a.conf.Catalog.CoverCd)
	if s.file != "" {
		data, err := os.ReadFile(s.file)
		if err != nil {
			return sel, fmt.Errorf("failed to read selection: %w", err)
		}
		var spec catalog.SelectionSpec
		if err := yaml.Unmarshal(data, &spec); err != nil {
			return sel, fmt.Errorf("failed to parse selection: %w", err)
		}
		if spec.ProductID == 0 {
			spec.ProductID = a.product.ProductID
		}
		if sel, err = spec.Selection(); err != nil {
			return sel, err
		}
	}

	_, pairs, err := parsePairs(s.sets)
	if err != nil {
		return sel, err
	}
	eval := simulation.NewCatalogEvaluator(a.engine, a.resolver, simulation.EvaluatorOptions{Base: sel, Logger: a.logger})
	return eval.Selection(pairs)
}

func newOptionsCommand(flags *globalFlags) *cobra.Command {
	var sets []string
	cmd := &cobra.Command{
		Use:   "options",
		Short: "Apply choices in order and list what is still available",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := flags.load(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = a.logger.Sync() }()

			keys, pairs, err := parsePairs(sets)
			if err != nil {
				return err
			}
			sel := catalog.NewSelection(a.product.ProductID, a.conf.Catalog.CoverCd)
			rest := simulation.Selections{}
			for _, key := range keys {
				level, err := catalog.ParseLevel(key)
				if err != nil {
					rest[key] = pairs[key]
					continue
				}
				value, err := strconv.Atoi(pairs[key])
				if err != nil {
					return fmt.Errorf("invalid %s value %q: %w", level, pairs[key], err)
				}
				result := a.engine.SelectOption(sel, level, value)
				if len(result.ResetLevels) > 0 {
					a.logger.Info("selection reset downstream levels",
						zap.String("op", "main.options"),
						zap.String("level", string(level)),
						zap.Any("reset", result.ResetLevels),
					)
				}
				sel = result.Selection
			}

			eval := simulation.NewCatalogEvaluator(a.engine, a.resolver, simulation.EvaluatorOptions{Base: sel, Logger: a.logger})
			if sel, err = eval.Selection(rest); err != nil {
				return err
			}
			output.PrettyAvailable(cmd.OutOrStdout(), a.engine.GetAvailableOptions(sel))
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, "choice as level=value, applied in order")
	return cmd
}

func newValidateCommand(flags *globalFlags) *cobra.Command {
	sel := &selectionFlags{}
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the catalog, or a selection against it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := flags.load(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = a.logger.Sync() }()

			if sel.file == "" && len(sel.sets) == 0 {
				warnings := a.product.Validate()
				for _, w := range warnings {
					fmt.Fprintln(cmd.OutOrStdout(), w)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d warning(s)\n", len(warnings))
				return nil
			}

			selection, err := sel.build(a)
			if err != nil {
				return err
			}
			violations := append(a.engine.CheckAvailability(selection), a.engine.ValidateSelection(selection)...)
			output.PrettyViolations(cmd.OutOrStdout(), violations)
			if len(violations) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "selection is valid")
			}
			return nil
		},
	}
	sel.register(cmd)
	return cmd
}

func newPriceCommand(flags *globalFlags) *cobra.Command {
	sel := &selectionFlags{}
	cmd := &cobra.Command{
		Use:   "price",
		Short: "Quote a selection",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := flags.load(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = a.logger.Sync() }()

			selection, err := sel.build(a)
			if err != nil {
				return err
			}
			breakdown, err := a.resolver.Quote(selection)
			if err != nil {
				return err
			}
			output.PrettyBreakdown(cmd.OutOrStdout(), breakdown)
			return nil
		},
	}
	sel.register(cmd)
	return cmd
}

func newSimulateCommand(flags *globalFlags) *cobra.Command {
	var (
		mode       string
		shards     int
		seed       int64
		quantities []int
	)
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run every option combination of the product and classify it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := flags.load(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = a.logger.Sync() }()

			sim := a.conf.Simulation
			if mode != "" {
				sim.Mode = mode
			}
			if shards > 0 {
				sim.Shards = shards
			}
			if seed != 0 {
				sim.Seed = seed
			}
			if len(quantities) > 0 {
				sim.Quantities = quantities
			}
			if err := sim.Validate(); err != nil {
				return err
			}
			return runSimulation(cmd, a, sim)
		},
	}
	cmd.Flags().StringVar(&mode, "mode", "", "what to do above the case limit: all, sample, force")
	cmd.Flags().IntVar(&shards, "shards", 0, "number of parallel shards")
	cmd.Flags().Int64Var(&seed, "seed", 0, "sampling seed")
	cmd.Flags().IntSliceVar(&quantities, "quantity", nil, "order quantities to simulate")
	return cmd
}

func runSimulation(cmd *cobra.Command, a *app, sim config.SimulationConfig) error {
	sets := simulation.OptionSetsFor(a.engine, a.conf.Catalog.CoverCd, sim.Quantities)

	seed := sim.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	resolution, err := simulation.ResolveOptionSets(sets, simulation.ResolveOptions{
		Sample:   sim.Sample(),
		ForceRun: sim.ForceRun(),
		Rand:     rand.New(rand.NewSource(seed)),
	})
	if err != nil {
		return err
	}
	if resolution.Overflow {
		return fmt.Errorf("combination count overflows the limit of %d", simulation.MaxCases)
	}
	if resolution.TooLarge {
		return fmt.Errorf("%d combinations exceed the limit of %d: rerun with --mode sample or --mode force",
			resolution.Total, simulation.MaxCases)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	eval := simulation.NewCatalogEvaluator(a.engine, a.resolver, simulation.EvaluatorOptions{
		Base:   catalog.NewSelection(a.product.ProductID, a.conf.Catalog.CoverCd),
		Logger: a.logger,
	})
	lastReported := 0
	result, err := simulation.RunCasesParallel(ctx, resolution.Combinations, eval, sim.Shards, simulation.RunOptions{
		Logger: a.logger,
		OnProgress: func(current, total int) {
			if current-lastReported >= sim.ProgressInterval || current == total {
				lastReported = current
				a.logger.Info("simulation progress",
					zap.String("op", "main.simulate"),
					zap.Int("current", current),
					zap.Int("total", total),
				)
			}
		},
	})
	if err != nil {
		return err
	}

	switch a.conf.Output.Format {
	case constants.OutputFormatCSV:
		return output.CsvFormat(cmd.OutOrStdout(), result)
	default:
		output.PrettyFormat(cmd.OutOrStdout(), result)
		return nil
	}
}

func newCompletenessCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "completeness",
		Short: "Show the publish checklist of the product",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := flags.load(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = a.logger.Sync() }()

			output.PrettyCompleteness(cmd.OutOrStdout(), simulation.CheckCompleteness(simulation.CompletenessFromProduct(a.product)))
			return nil
		},
	}
}
