package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubetwist/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Twist the cube with the mouse",
	Long: `Open the cube in the terminal. Press on a layer and drag to twist it;
release to let it snap to the nearest quarter turn. Dragging empty space
orbits the camera.`,
	Annotations: map[string]string{tuiAnnotation: "true"},
	RunE:        runPlay,
}

var playAutoRotate bool

func init() {
	playCmd.Flags().BoolVar(&playAutoRotate, "auto-rotate", false, "Start with the idle spin enabled (overrides animation.autoRotate)")
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("auto-rotate") {
		settings.Animation.AutoRotate = playAutoRotate
	}

	stateFile, err := loadStateFile()
	if err != nil {
		return err
	}

	db, session, err := openJournal(storage.ModePlay, stateFile)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	model := newCubeModel(modelOptions{session: session})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	if session != nil && session.Err() != nil {
		return fmt.Errorf("journal: %w", session.Err())
	}
	return nil
}
