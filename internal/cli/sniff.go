package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubetwist/internal/protocol"
)

var sniffDuration time.Duration

var sniffCmd = &cobra.Command{
	Use:   "sniff",
	Short: "Print decoded GoCube notifications",
	Long: `Connect to a GoCube and print every notification it sends, decoded where
the message type is known. Useful for checking which face a twist maps to.`,
	RunE: runSniff,
}

func init() {
	sniffCmd.Flags().DurationVar(&sniffDuration, "duration", 2*time.Minute, "Stop after this long")
	rootCmd.AddCommand(sniffCmd)
}

func runSniff(cmd *cobra.Command, args []string) error {
	stateFile, err := loadStateFile()
	if err != nil {
		return err
	}

	client, results, err := ScanForGoCube()
	if err != nil {
		return err
	}
	if len(results) == 0 {
		printWakeTips()
		return nil
	}
	target := pickDevice(results, stateFile.LastDeviceID())

	client.SetMessageCallback(func(msg *protocol.Message) {
		fmt.Println(describeMessage(msg))
	})

	ctx, cancel := context.WithTimeout(context.Background(), sniffDuration)
	defer cancel()

	fmt.Printf("Connecting to %s...\n", target.Name)
	if err := client.Connect(ctx, target); err != nil {
		return err
	}
	defer client.Disconnect()

	if err := client.EnableOrientation(); err != nil {
		logger.Warn().Err(err).Msg("orientation reports not enabled")
	}
	defer func() {
		if err := client.DisableOrientation(); err != nil {
			logger.Debug().Err(err).Msg("orientation reports not disabled")
		}
	}()
	if err := stateFile.SetLastDevice(client.DeviceUUID(), client.DeviceName()); err != nil {
		logger.Warn().Err(err).Msg("state file not updated")
	}

	fmt.Println("Rotate the cube to see data... (Ctrl+C to exit)")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-sigChan:
	case <-ctx.Done():
	}
	fmt.Println("\nDisconnecting...")
	return nil
}

// describeMessage renders one notification as a single line.
func describeMessage(msg *protocol.Message) string {
	head := fmt.Sprintf("[%s] %-12s", time.Now().Format("15:04:05.000"), msg.TypeName())

	switch msg.Type {
	case protocol.MsgTypeRotation:
		events, err := protocol.DecodeRotation(msg.Payload)
		if err != nil {
			return fmt.Sprintf("%s %v", head, err)
		}
		line := head
		for _, ev := range events {
			dir := "ccw"
			if ev.Clockwise {
				dir = "cw"
			}
			line += fmt.Sprintf(" %s(%s) %s", ev.Color, ev.Face(), dir)
		}
		return line

	case protocol.MsgTypeOrientation:
		ev, err := protocol.DecodeOrientation(msg.Payload)
		if err != nil {
			return fmt.Sprintf("%s %v", head, err)
		}
		return fmt.Sprintf("%s up=%s front=%s", head, ev.Up, ev.Front)

	case protocol.MsgTypeBattery:
		ev, err := protocol.DecodeBattery(msg.Payload)
		if err != nil {
			return fmt.Sprintf("%s %v", head, err)
		}
		return fmt.Sprintf("%s %d%%", head, ev.Level)

	case protocol.MsgTypeCubeType:
		ev, err := protocol.DecodeCubeType(msg.Payload)
		if err != nil {
			return fmt.Sprintf("%s %v", head, err)
		}
		return fmt.Sprintf("%s %s", head, ev.TypeName)

	default:
		return fmt.Sprintf("%s %s", head, msg.RawBase64)
	}
}
