package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubetwist/internal/config"
	"github.com/SeamusWaldron/cubetwist/internal/storage"
)

var statusScan bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration, journal and device information",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusScan, "scan", false, "Also scan for GoCube devices")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	stateFile, err := loadStateFile()
	if err != nil {
		return err
	}
	state := stateFile.State()

	fmt.Println("cubetwist status")
	fmt.Println("================")
	fmt.Println()

	cfgFile := config.UsedFile()
	if cfgFile == "" {
		cfgFile = "(defaults)"
	}
	fmt.Printf("Config:   %s\n", cfgFile)
	fmt.Printf("Logs:     %s\n", settings.LogsDir)
	fmt.Printf("Database: %s\n", settings.DBPath)

	db, err := openDB()
	if err == nil {
		defer db.Close()
		printJournalTotals(storage.NewTwistRepository(db))
	} else {
		fmt.Printf("Journal unavailable: %v\n", err)
	}

	fmt.Println()

	if state.LastDeviceID != "" {
		fmt.Printf("Last device: %s (%s)\n", state.LastDeviceName, state.LastDeviceID)
	} else {
		fmt.Println("No device history")
	}

	if !statusScan {
		return nil
	}

	fmt.Println()
	_, results, err := ScanForGoCube()
	if err != nil {
		fmt.Printf("Scan error: %v\n", err)
		return nil
	}
	printScanResults(results)
	return nil
}

func printJournalTotals(repo *storage.TwistRepository) {
	sessions, err := repo.Sessions(10000)
	if err != nil {
		fmt.Printf("Journal error: %v\n", err)
		return
	}

	twists := 0
	for _, s := range sessions {
		twists += s.Twists
	}
	fmt.Printf("Sessions: %d\n", len(sessions))
	fmt.Printf("Twists:   %d\n", twists)
	if len(sessions) > 0 {
		fmt.Printf("Last session: %s (%s)\n", sessions[0].StartedAt.Format(time.RFC3339), sessions[0].Mode)
	}
}
