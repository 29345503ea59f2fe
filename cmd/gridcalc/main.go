package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nikitaxru/gridcalc"
)

var (
	legacyGuard bool
	maxPasses   int
	marker      string
)

func options() gridcalc.Options {
	opts := gridcalc.DefaultOptions()
	opts.Transitive = !legacyGuard
	if maxPasses > 0 {
		opts.MaxPasses = maxPasses
	}
	if marker != "" {
		opts.FormulaMarker = marker
	}
	return opts
}

var rootCmd = &cobra.Command{
	Use:           "gridcalc",
	Short:         "Вычисление формул сетки",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var evalCmd = &cobra.Command{
	Use:   "eval FORMULA",
	Short: "Вычислить одну формулу над ячейками из --cell",
	Long: `Вычисляет формулу над снимком из флагов --cell.

Примеры:
  gridcalc eval "sum(A1A3)" --cell A1=1 --cell A2=2 --cell A3=3
  gridcalc eval 'IF(A1>5,"yes","no")' --cell A1=10
  gridcalc eval "sum(A1B1)" --cell A1=1 --self B1`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cells, _ := cmd.Flags().GetStringArray("cell")
		self, _ := cmd.Flags().GetString("self")

		snap, err := parseCells(cells)
		if err != nil {
			return err
		}
		guard := gridcalc.NewGuard()
		if self != "" {
			c, err := gridcalc.DecodeReference(self)
			if err != nil {
				return fmt.Errorf("--self: %w", err)
			}
			guard = gridcalc.NewGuard(c)
		}
		res := gridcalc.NewEngine(options()).Evaluate(args[0], snap, guard)
		fmt.Fprintln(cmd.OutOrStdout(), res.Computed().String())
		return nil
	},
}

var recalcCmd = &cobra.Command{
	Use:   "recalc SRC.xlsx DST.xlsx",
	Short: "Пересчитать формулы книги и сохранить значения",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sheet, _ := cmd.Flags().GetString("sheet")
		return gridcalc.RecalculateWorkbook(args[0], args[1], sheet, options())
	},
}

// parseCells разбирает значения вида "A1=10"; значение может быть формулой с маркером
func parseCells(pairs []string) (*gridcalc.Snapshot, error) {
	snap := gridcalc.NewSnapshot()
	for _, pair := range pairs {
		ref, raw, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("--cell %q: ожидается REF=VALUE", pair)
		}
		c, err := gridcalc.DecodeReference(strings.TrimSpace(ref))
		if err != nil {
			return nil, fmt.Errorf("--cell %q: %w", pair, err)
		}
		snap.Put(gridcalc.Cell{Row: c.Row, Col: c.Col, DisplayText: raw, Computed: gridcalc.ParseValue(raw)})
	}
	return snap, nil
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&legacyGuard, "legacy-guard", false, "Не передавать защитный набор в ячейки-формулы (читать готовые значения)")
	rootCmd.PersistentFlags().IntVar(&maxPasses, "max-passes", 0, "Предел проходов пересчёта")
	rootCmd.PersistentFlags().StringVar(&marker, "marker", "", "Маркер формулы в конце ввода (по умолчанию \"=\")")

	evalCmd.Flags().StringArray("cell", nil, "Ячейка снимка: REF=VALUE (повторяемый)")
	evalCmd.Flags().String("self", "", "Координата самой формулы для защитного набора")
	recalcCmd.Flags().String("sheet", "", "Лист для пересчёта (по умолчанию все)")

	rootCmd.AddCommand(evalCmd, recalcCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
