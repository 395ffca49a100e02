// Package ble talks to GoCube smart cubes over Bluetooth LE.
package ble

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"tinygo.org/x/bluetooth"

	"github.com/SeamusWaldron/cubetwist/internal/protocol"
)

// Errors
var (
	ErrNotConnected     = errors.New("ble: not connected to device")
	ErrAlreadyConnected = errors.New("ble: already connected to a device")
	ErrServiceNotFound  = errors.New("ble: GoCube service not found")
)

var (
	serviceUUID = mustParseUUID(protocol.ServiceUUID)
	txCharUUID  = mustParseUUID(protocol.TxCharUUID)
	rxCharUUID  = mustParseUUID(protocol.RxCharUUID)
)

func mustParseUUID(s string) bluetooth.UUID {
	u, err := bluetooth.ParseUUID(s)
	if err != nil {
		panic(err)
	}
	return u
}

// ScanResult is a GoCube seen while scanning.
type ScanResult struct {
	Name    string
	UUID    string // adapter address, stable per host
	RSSI    int16
	Address bluetooth.Address
}

// link is an open connection to one cube.
type link struct {
	device bluetooth.Device
	rx     bluetooth.DeviceCharacteristic
	target ScanResult
}

// Client owns the adapter and at most one link.
type Client struct {
	adapter *bluetooth.Adapter
	log     zerolog.Logger

	mu        sync.RWMutex
	link      *link
	battery   int
	onMessage func(*protocol.Message)
}

// NewClient enables the default adapter.
func NewClient(log zerolog.Logger) (*Client, error) {
	adapter := bluetooth.DefaultAdapter
	if err := adapter.Enable(); err != nil {
		return nil, fmt.Errorf("failed to enable BLE adapter: %w", err)
	}
	return &Client{
		adapter: adapter,
		log:     log.With().Str("component", "ble").Logger(),
		battery: -1,
	}, nil
}

// SetMessageCallback sets the callback for parsed notifications. It runs on
// the adapter's goroutine.
func (c *Client) SetMessageCallback(cb func(*protocol.Message)) {
	c.mu.Lock()
	c.onMessage = cb
	c.mu.Unlock()
}

// Scan listens for GoCube advertisements until timeout or ctx is done.
func (c *Client) Scan(ctx context.Context, timeout time.Duration) ([]ScanResult, error) {
	if c.IsConnected() {
		return nil, ErrAlreadyConnected
	}

	var (
		mu      sync.Mutex
		results []ScanResult
		seen    = make(map[string]bool)
	)
	onResult := func(_ *bluetooth.Adapter, r bluetooth.ScanResult) {
		name := r.LocalName()
		if !strings.HasPrefix(strings.ToLower(name), "gocube") {
			return
		}
		addr := r.Address.String()

		mu.Lock()
		defer mu.Unlock()
		if seen[addr] {
			return
		}
		seen[addr] = true
		results = append(results, ScanResult{Name: name, UUID: addr, RSSI: r.RSSI, Address: r.Address})
	}

	done := make(chan error, 1)
	go func() { done <- c.adapter.Scan(onResult) }()

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}

	c.adapter.StopScan()
	if err := <-done; err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}

	mu.Lock()
	defer mu.Unlock()
	c.log.Debug().Int("found", len(results)).Msg("scan complete")
	return results, nil
}

// Connect opens a link to a scanned cube and subscribes to its
// notifications. It gives up when ctx is done.
func (c *Client) Connect(ctx context.Context, target ScanResult) error {
	if c.IsConnected() {
		return ErrAlreadyConnected
	}

	device, err := awaitContext(ctx,
		func() (bluetooth.Device, error) {
			return c.adapter.Connect(target.Address, bluetooth.ConnectionParams{})
		},
		func(d bluetooth.Device) {
			// Connected after we gave up
			d.Disconnect()
		},
	)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	l, err := c.subscribe(device, target)
	if err != nil {
		device.Disconnect()
		return err
	}

	c.mu.Lock()
	c.link = l
	c.mu.Unlock()

	c.log.Info().Str("name", target.Name).Str("address", target.UUID).Msg("connected")

	if err := c.RequestBattery(); err != nil {
		c.log.Warn().Err(err).Msg("battery request failed")
	}
	return nil
}

// subscribe finds the cube's UART characteristics and enables notifications.
func (c *Client) subscribe(device bluetooth.Device, target ScanResult) (*link, error) {
	services, err := device.DiscoverServices([]bluetooth.UUID{serviceUUID})
	if err != nil {
		return nil, fmt.Errorf("failed to discover services: %w", err)
	}
	if len(services) == 0 {
		return nil, ErrServiceNotFound
	}

	chars, err := services[0].DiscoverCharacteristics([]bluetooth.UUID{txCharUUID, rxCharUUID})
	if err != nil {
		return nil, fmt.Errorf("failed to discover characteristics: %w", err)
	}

	l := &link{device: device, target: target}
	var tx bluetooth.DeviceCharacteristic
	for _, ch := range chars {
		switch ch.UUID() {
		case txCharUUID:
			tx = ch
		case rxCharUUID:
			l.rx = ch
		}
	}

	if err := tx.EnableNotifications(c.handleNotification); err != nil {
		return nil, fmt.Errorf("failed to enable notifications: %w", err)
	}
	return l, nil
}

// awaitContext runs fn and waits for it or for ctx. When ctx wins, a late
// successful result is passed to abandon.
func awaitContext[T any](ctx context.Context, fn func() (T, error), abandon func(T)) (T, error) {
	type outcome struct {
		v   T
		err error
	}
	ch := make(chan outcome, 1)
	go func() {
		v, err := fn()
		ch <- outcome{v, err}
	}()

	select {
	case o := <-ch:
		return o.v, o.err
	case <-ctx.Done():
		go func() {
			if o := <-ch; o.err == nil && abandon != nil {
				abandon(o.v)
			}
		}()
		var zero T
		return zero, ctx.Err()
	}
}

// Disconnect closes the link, if any.
func (c *Client) Disconnect() error {
	c.mu.Lock()
	l := c.link
	c.link = nil
	c.battery = -1
	c.mu.Unlock()

	if l == nil {
		return nil
	}
	c.log.Info().Str("name", l.target.Name).Msg("disconnected")
	return l.device.Disconnect()
}

// IsConnected reports whether a link is open.
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.link != nil
}

// DeviceName returns the connected cube's advertised name, or "".
func (c *Client) DeviceName() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.link == nil {
		return ""
	}
	return c.link.target.Name
}

// DeviceUUID returns the connected cube's address, or "".
func (c *Client) DeviceUUID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.link == nil {
		return ""
	}
	return c.link.target.UUID
}

// Battery returns the last reported battery level, or -1.
func (c *Client) Battery() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.battery
}

// SendCommand writes a one-byte command frame to the cube.
func (c *Client) SendCommand(cmd byte) error {
	c.mu.RLock()
	l := c.link
	c.mu.RUnlock()
	if l == nil {
		return ErrNotConnected
	}

	frame := protocol.BuildCommand(cmd)
	if _, err := l.rx.WriteWithoutResponse(frame); err != nil {
		_, err = l.rx.Write(frame)
		return err
	}
	return nil
}

// RequestBattery asks the cube for its battery level.
func (c *Client) RequestBattery() error {
	return c.SendCommand(protocol.CmdRequestBattery)
}

// EnableOrientation turns on orientation notifications.
func (c *Client) EnableOrientation() error {
	return c.SendCommand(protocol.CmdEnableOrientation)
}

// DisableOrientation turns off orientation notifications.
func (c *Client) DisableOrientation() error {
	return c.SendCommand(protocol.CmdDisableOrientation)
}

// FlashBacklight flashes the cube's LEDs.
func (c *Client) FlashBacklight() error {
	return c.SendCommand(protocol.CmdFlashBacklight)
}

func (c *Client) handleNotification(data []byte) {
	msg, err := protocol.Parse(data)
	if err != nil {
		c.log.Debug().Err(err).Hex("data", data).Msg("dropping notification")
		return
	}

	c.mu.Lock()
	if msg.Type == protocol.MsgTypeBattery {
		if ev, err := protocol.DecodeBattery(msg.Payload); err == nil {
			c.battery = ev.Level
		}
	}
	cb := c.onMessage
	c.mu.Unlock()

	if cb != nil {
		cb(msg)
	}
}
