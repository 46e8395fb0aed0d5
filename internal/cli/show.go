package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rxwatch/catalyst/internal/store"
)

var (
	showCompany string
	showLimit   int
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current event store",
	Long: `Show lists the events currently in the store, in stored
(chronological) order.

Example:
  catalyst show
  catalyst show --company "Vertex Pharmaceuticals" --limit 20`,
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().StringVar(&showCompany, "company", "", "filter to one company")
	showCmd.Flags().IntVar(&showLimit, "limit", 0, "print at most this many events (0 = all)")
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	events, err := store.New(cfg.Store.Path).Load()
	if err != nil {
		return err
	}

	printed := 0
	for _, ev := range events {
		if showCompany != "" && ev.Company != showCompany {
			continue
		}
		fmt.Printf("%-10s  %-20s  %-24s  %s\n", ev.Date, ev.Type, ev.Company, ev.Title)
		printed++
		if showLimit > 0 && printed >= showLimit {
			break
		}
	}

	fmt.Printf("\n%d events (%s)\n", printed, cfg.Store.Path)
	return nil
}
