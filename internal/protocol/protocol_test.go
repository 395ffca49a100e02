package protocol

import (
	"errors"
	"testing"

	"github.com/SeamusWaldron/cubetwist"
)

func TestParse_RoundTrip(t *testing.T) {
	frame := Frame(MsgTypeRotation, []byte{0x04, 0x00, 0x09, 0x03})

	msg, err := Parse(frame)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if msg.Type != MsgTypeRotation {
		t.Errorf("Type = 0x%02X", msg.Type)
	}
	if msg.TypeName() != "rotation" {
		t.Errorf("TypeName = %q", msg.TypeName())
	}
	if string(msg.Payload) != string([]byte{0x04, 0x00, 0x09, 0x03}) {
		t.Errorf("Payload = % X", msg.Payload)
	}
	if msg.RawBase64 == "" {
		t.Error("RawBase64 empty")
	}
}

func TestParse_Errors(t *testing.T) {
	good := Frame(MsgTypeBattery, []byte{80})

	badChecksum := append([]byte(nil), good...)
	badChecksum[len(badChecksum)-3]++

	badPrefix := append([]byte(nil), good...)
	badPrefix[0] = 0x00

	badSuffix := append([]byte(nil), good...)
	badSuffix[len(badSuffix)-1] = 0x00

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"too short", []byte{0x2A, 0x01}, ErrMessageTooShort},
		{"prefix", badPrefix, ErrInvalidPrefix},
		{"suffix", badSuffix, ErrInvalidSuffix},
		{"checksum", badChecksum, ErrInvalidChecksum},
		{"truncated", good[:len(good)-1], ErrInvalidLength},
	}

	for _, tt := range tests {
		if _, err := Parse(tt.data); !errors.Is(err, tt.want) {
			t.Errorf("%s: err = %v, want %v", tt.name, err, tt.want)
		}
	}
}

func TestBuildCommand(t *testing.T) {
	cmd := BuildCommand(CmdRequestBattery)
	want := []byte{0x2A, 0x01, 0x32, 0x2A + 0x01 + 0x32, 0x0D, 0x0A}
	if string(cmd) != string(want) {
		t.Errorf("BuildCommand = % X, want % X", cmd, want)
	}
}

func TestDecodeRotation(t *testing.T) {
	events, err := DecodeRotation([]byte{0x04, 0x00, 0x09, 0x03, 0x01, 0x06})
	if err != nil {
		t.Fatalf("DecodeRotation: %v", err)
	}

	want := []struct {
		color     cubetwist.Color
		face      cubetwist.Direction
		clockwise bool
	}{
		{cubetwist.White, cubetwist.Top, true},
		{cubetwist.Red, cubetwist.Right, false},
		{cubetwist.Blue, cubetwist.Back, false},
	}
	if len(events) != len(want) {
		t.Fatalf("got %d events, want %d", len(events), len(want))
	}
	for i, w := range want {
		e := events[i]
		if e.Color != w.color || e.Face() != w.face || e.Clockwise != w.clockwise {
			t.Errorf("event %d = {%v %v %v}, want {%v %v %v}",
				i, e.Color, e.Face(), e.Clockwise, w.color, w.face, w.clockwise)
		}
	}
	if events[2].CenterOrientation != 0x06 {
		t.Errorf("CenterOrientation = %d", events[2].CenterOrientation)
	}
}

func TestDecodeRotation_Invalid(t *testing.T) {
	if _, err := DecodeRotation([]byte{0x01}); !errors.Is(err, ErrInvalidPayload) {
		t.Errorf("odd length: err = %v", err)
	}
	if _, err := DecodeRotation([]byte{0x0C, 0x00}); !errors.Is(err, ErrInvalidPayload) {
		t.Errorf("face code 0x0C: err = %v", err)
	}
}

func TestDecodeBattery(t *testing.T) {
	ev, err := DecodeBattery([]byte{73})
	if err != nil {
		t.Fatal(err)
	}
	if ev.Level != 73 {
		t.Errorf("Level = %d", ev.Level)
	}
	if _, err := DecodeBattery(nil); err == nil {
		t.Error("empty payload should fail")
	}
}

func TestDecodeCubeType(t *testing.T) {
	ev, err := DecodeCubeType([]byte{0x01})
	if err != nil {
		t.Fatal(err)
	}
	if ev.TypeName != "edge" {
		t.Errorf("TypeName = %q", ev.TypeName)
	}
}

func TestDecodeOrientation(t *testing.T) {
	tests := []struct {
		payload string
		up      cubetwist.Direction
		front   cubetwist.Direction
	}{
		{"0#0#0#1000", cubetwist.Top, cubetwist.Front},
		// Half turn about x: top goes down, front goes back.
		{"1000#0#0#0", cubetwist.Bottom, cubetwist.Back},
		// Quarter turn about z: up tips toward -x.
		{"0#0#707#707\x1b\r\n", cubetwist.Left, cubetwist.Front},
	}

	for _, tt := range tests {
		ev, err := DecodeOrientation([]byte(tt.payload))
		if err != nil {
			t.Fatalf("%q: %v", tt.payload, err)
		}
		if ev.Up != tt.up || ev.Front != tt.front {
			t.Errorf("%q: up=%v front=%v, want up=%v front=%v", tt.payload, ev.Up, ev.Front, tt.up, tt.front)
		}
	}

	if _, err := DecodeOrientation([]byte("1#2#3")); !errors.Is(err, ErrInvalidPayload) {
		t.Errorf("3 parts: err = %v", err)
	}
	if _, err := DecodeOrientation([]byte("0#0#0#0")); !errors.Is(err, ErrInvalidPayload) {
		t.Errorf("zero quaternion: err = %v", err)
	}
}
