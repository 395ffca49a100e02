package cli

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubetwist/internal/ble"
	"github.com/SeamusWaldron/cubetwist/internal/recorder"
	"github.com/SeamusWaldron/cubetwist/internal/storage"
)

// connectTimeout bounds connecting to a device found by the prescan.
const connectTimeout = 15 * time.Second

var mirrorCmd = &cobra.Command{
	Use:   "mirror",
	Short: "Mirror a GoCube's twists on screen",
	Long: `Connect to a GoCube over Bluetooth and replay every twist of the
physical cube as an animated quarter turn. Mouse twists still work; device
twists wait until the cube on screen is at rest.`,
	Annotations: map[string]string{tuiAnnotation: "true"},
	RunE:        runMirror,
}

func init() {
	rootCmd.AddCommand(mirrorCmd)
}

func runMirror(cmd *cobra.Command, args []string) error {
	stateFile, err := loadStateFile()
	if err != nil {
		return err
	}

	// Scan before the TUI takes over the terminal
	client, results, err := ScanForGoCube()
	if err != nil {
		return err
	}
	if len(results) == 0 {
		printWakeTips()
		return nil
	}
	target := pickDevice(results, stateFile.LastDeviceID())

	db, session, err := openJournal(storage.ModeMirror, stateFile)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	model := newCubeModel(modelOptions{
		session: session,
		mirror:  true,
		client:  client,
		connect: connectCmd(client, target, session, stateFile),
	})
	client.SetMessageCallback(model.forward)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	if session != nil && session.Err() != nil {
		return fmt.Errorf("journal: %w", session.Err())
	}
	return nil
}

// connectCmd connects to target and turns on orientation reports.
func connectCmd(client *ble.Client, target ble.ScanResult, session *recorder.Session, sf *recorder.StateFile) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()

		if err := client.Connect(ctx, target); err != nil {
			return bleErrorMsg{err: err}
		}
		if err := client.EnableOrientation(); err != nil {
			logger.Warn().Err(err).Msg("orientation reports not enabled")
		}

		address, name := client.DeviceUUID(), client.DeviceName()
		if session != nil {
			session.SetDevice(address, name, client.Battery())
		} else if err := sf.SetLastDevice(address, name); err != nil {
			logger.Warn().Err(err).Msg("state file not updated")
		}
		return bleConnectedMsg{name: name}
	}
}
