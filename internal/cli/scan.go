package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubetwist/internal/ble"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for GoCube devices",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, results, err := ScanForGoCube()
		if err != nil {
			return err
		}
		printScanResults(results)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

// ScanForGoCube runs a single scan of device.scanTimeout and returns the
// client that performed it so the caller can connect with it.
func ScanForGoCube() (*ble.Client, []ble.ScanResult, error) {
	fmt.Println("Scanning for GoCube devices...")

	client, err := ble.NewClient(logger)
	if err != nil {
		return nil, nil, fmt.Errorf("BLE not available: %w", err)
	}

	timeout := settings.Device.ScanTimeout
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	results, err := client.Scan(ctx, timeout)
	if err != nil {
		return client, nil, fmt.Errorf("scan failed: %w", err)
	}

	if len(results) == 0 {
		return client, nil, nil
	}

	fmt.Printf("Found: %s\n", results[0].Name)
	return client, results, nil
}

func printScanResults(results []ble.ScanResult) {
	if len(results) == 0 {
		printWakeTips()
		return
	}
	fmt.Printf("Found %d device(s):\n", len(results))
	for _, r := range results {
		fmt.Printf("  - %s (UUID: %s, RSSI: %d)\n", r.Name, r.UUID, r.RSSI)
	}
}

func printWakeTips() {
	fmt.Println("No GoCube devices found.")
	fmt.Println()
	fmt.Println("To fix this:")
	fmt.Println("  1. Rotate your cube to wake it up")
	fmt.Println("  2. Make sure it's not connected to your phone")
	fmt.Println("  3. Check that Bluetooth is enabled")
}

// pickDevice prefers the device used last time.
func pickDevice(results []ble.ScanResult, lastID string) ble.ScanResult {
	for _, r := range results {
		if lastID != "" && r.UUID == lastID {
			return r
		}
	}
	return results[0]
}
