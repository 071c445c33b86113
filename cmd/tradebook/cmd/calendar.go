package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradebook/calendar"
)

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Render a month of trading days as a 6x7 grid",
	Long: `Render the trading calendar for a month.

Each cell shows the day's P/L and its 10% risk budget; weekend cells carry the
week total. Days without trades stay blank.

Examples:
  tradebook calendar
  tradebook calendar --year 2024 --month 3`,
	Args: cobra.NoArgs,
	RunE: runCalendar,
}

var (
	calYear  int
	calMonth int
)

func init() {
	rootCmd.AddCommand(calendarCmd)

	calendarCmd.Flags().IntVarP(&calYear, "year", "y", 0, "year to display (default current)")
	calendarCmd.Flags().IntVarP(&calMonth, "month", "m", 0, "month to display 1-12 (default current)")
}

func runCalendar(cmd *cobra.Command, args []string) error {
	now := time.Now().In(cfg.Location())
	if calYear == 0 {
		calYear = now.Year()
	}
	if calMonth == 0 {
		calMonth = int(now.Month())
	}

	store, err := openStore()
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer store.Close()

	grid, err := calendar.Build(cmd.Context(), store, calYear, time.Month(calMonth), cfg.RiskPercent())
	if err != nil {
		return fmt.Errorf("build grid: %w", err)
	}

	renderGrid(os.Stdout, grid)
	return nil
}

const cellWidth = 11

func renderGrid(w io.Writer, g *calendar.Grid) {
	fmt.Fprintf(w, "%s %d    (prev %d-%02d, next %d-%02d)\n\n",
		g.Month, g.Year, g.PrevYear, g.PrevMonth, g.NextYear, g.NextMonth)

	for _, name := range []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"} {
		fmt.Fprintf(w, "%-*s", cellWidth, name)
	}
	fmt.Fprintln(w)

	for row := 0; row < calendar.GridCells/7; row++ {
		week := g.Cells[row*7 : row*7+7]

		for _, c := range week {
			label := fmt.Sprintf("%2d", c.Date.Day())
			if !c.InMonth {
				label = fmt.Sprintf("(%d)", c.Date.Day())
			}
			fmt.Fprintf(w, "%-*s", cellWidth, label)
		}
		fmt.Fprintln(w)

		for _, c := range week {
			fmt.Fprintf(w, "%-*s", cellWidth, plLabel(c))
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w)
	}
}

func plLabel(c calendar.Cell) string {
	switch {
	case c.WeekPL != nil:
		return "wk " + signed(*c.WeekPL)
	case c.DayPL != nil:
		return signed(*c.DayPL)
	default:
		return ""
	}
}

func signed(d decimal.Decimal) string {
	if d.IsNegative() {
		return d.StringFixed(2)
	}
	return "+" + d.StringFixed(2)
}
