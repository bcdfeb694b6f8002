package backlight

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeDBusClient struct {
	calls []call
	err   error
}

type call struct {
	subsystem string
	device    string
	value     uint32
}

func (f *fakeDBusClient) Close() error { return nil }

func (f *fakeDBusClient) SetBrightness(subsystem, device string, value uint32) error {
	f.calls = append(f.calls, call{subsystem, device, value})
	return f.err
}

func testLogind(client *fakeDBusClient) *Logind {
	return &Logind{logger: zap.NewNop(), client: client, device: "backlight0", max: 4095}
}

func TestLogind_SetBrightness(t *testing.T) {
	tests := []struct {
		name    string
		percent int
		want    uint32
	}{
		{"Full", 100, 4095},
		{"Half", 50, 2047},
		{"One percent", 1, 40},
		{"Zero", 0, 0},
		{"Clamped high", 150, 4095},
		{"Clamped low", -5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeDBusClient{}
			bl := testLogind(client)

			require.NoError(t, bl.SetBrightness(tt.percent))
			require.Len(t, client.calls, 1)
			assert.Equal(t, call{"backlight", "backlight0", tt.want}, client.calls[0])
		})
	}
}

func TestLogind_Power(t *testing.T) {
	client := &fakeDBusClient{}
	bl := testLogind(client)

	require.NoError(t, bl.Power(false))
	require.NoError(t, bl.Power(true))

	require.Len(t, client.calls, 2)
	assert.Equal(t, uint32(0), client.calls[0].value, "off value")
	assert.Equal(t, uint32(4095), client.calls[1].value, "on value")
}

func TestLogind_PropagatesDBusError(t *testing.T) {
	client := &fakeDBusClient{err: errors.New("not authorized")}
	bl := testLogind(client)

	require.Error(t, bl.SetBrightness(50), "expected an error from the bus")
}

func TestNoop(t *testing.T) {
	var bl Noop
	assert.NoError(t, bl.Power(true))
	assert.NoError(t, bl.SetBrightness(50))
}
