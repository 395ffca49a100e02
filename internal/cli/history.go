package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubetwist/internal/storage"
)

var (
	historyLimit    int
	historySessions bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List journaled twists",
	Long:  `List the most recent twists in the journal, or one line per session with --sessions.`,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of rows")
	historyCmd.Flags().BoolVar(&historySessions, "sessions", false, "Summarise sessions instead of listing twists")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	repo := storage.NewTwistRepository(db)
	if historySessions {
		return listSessions(repo)
	}

	twists, err := repo.Recent(historyLimit)
	if err != nil {
		return err
	}
	if len(twists) == 0 {
		fmt.Println("No twists recorded")
		return nil
	}

	fmt.Printf("%-20s %-8s %-7s %5s %-8s %s\n", "TIME", "SESSION", "FACE", "TURNS", "SOURCE", "DRAG")
	for _, t := range twists {
		fmt.Printf("%-20s %-8s %-7s %+5d %-8s %s\n",
			t.At.Local().Format("2006-01-02 15:04:05"),
			t.SessionID.String()[:8],
			t.Face,
			t.QuarterTurns,
			t.Source,
			t.Drag.Round(time.Millisecond),
		)
	}
	return nil
}

func listSessions(repo *storage.TwistRepository) error {
	sessions, err := repo.Sessions(historyLimit)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Println("No sessions recorded")
		return nil
	}

	fmt.Printf("%-8s %-20s %-6s %6s %6s %s\n", "SESSION", "STARTED", "MODE", "TWISTS", "QTURNS", "DEVICE")
	for _, s := range sessions {
		device := "-"
		if s.DeviceName != nil {
			device = *s.DeviceName
			if s.Battery != nil {
				device += fmt.Sprintf(" (%d%%)", *s.Battery)
			}
		}
		fmt.Printf("%-8s %-20s %-6s %6d %6d %s\n",
			s.SessionID.String()[:8],
			s.StartedAt.Local().Format("2006-01-02 15:04:05"),
			s.Mode,
			s.Twists,
			s.QuarterTurns,
			device,
		)
	}
	return nil
}
