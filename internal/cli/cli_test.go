package cli

import (
	"bytes"
	"flag"
	"path/filepath"
	"testing"
	"time"

	"github.com/opd-ai/framemodem/frame"
	"github.com/opd-ai/framemodem/stream"
	"github.com/opd-ai/framemodem/symbol"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		target string
		kind   Kind
		addr   string
	}{
		{"payload.fmr", KindRecord, "payload.fmr"},
		{"CAPTURE.FMR", KindRecord, "CAPTURE.FMR"},
		{"udp://127.0.0.1:5004", KindRTP, "127.0.0.1:5004"},
		{"0", KindCamera, "0"},
		{"2", KindCamera, "2"},
		{"payload.mp4", KindVideo, "payload.mp4"},
		{"/tmp/capture.mkv", KindVideo, "/tmp/capture.mkv"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			kind, addr := Classify(tt.target)
			assert.Equal(t, tt.kind, kind)
			assert.Equal(t, tt.addr, addr)
		})
	}
}

func TestStreamFlags_Config(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    func(*stream.Config)
		wantErr error
	}{
		{"defaults", nil, func(*stream.Config) {}, nil},
		{"8-bit small grid", []string{"-scheme", "8", "-grid-width", "4", "-grid-height", "2", "-width", "640", "-height", "360"},
			func(c *stream.Config) {
				c.Scheme = symbol.Scheme8
				c.Grid = frame.Grid{VirtualWidth: 4, VirtualHeight: 2, ActualWidth: 640, ActualHeight: 360}
			}, nil},
		{"explicit phase", []string{"-redundancy", "5", "-phase-skip", "0"},
			func(c *stream.Config) { c.Redundancy, c.PhaseSkip = 5, 0 }, nil},
		{"grid too small", []string{"-grid-width", "1", "-grid-height", "1"}, nil, stream.ErrInvalidGridGeometry},
		{"bad scheme", []string{"-scheme", "3"}, nil, symbol.ErrInvalidScheme},
		{"zero redundancy", []string{"-redundancy", "0"}, nil, stream.ErrInvalidConfig},
		{"phase skip too large", []string{"-redundancy", "2", "-phase-skip", "2"}, nil, stream.ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := flag.NewFlagSet("test", flag.ContinueOnError)
			f := RegisterStreamFlags(fs)
			require.NoError(t, fs.Parse(tt.args))

			cfg, err := f.Config()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			want := stream.DefaultConfig()
			tt.want(&want)
			assert.Equal(t, want, cfg)
		})
	}
}

func TestStreamFlags_SetupLogging(t *testing.T) {
	defer logrus.SetLevel(logrus.GetLevel())
	defer logrus.SetOutput(logrus.StandardLogger().Out)

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f := RegisterStreamFlags(fs)
	require.NoError(t, fs.Parse([]string{"-log-level", "warn"}))

	var buf bytes.Buffer
	require.NoError(t, f.SetupLogging(&buf))
	assert.Equal(t, logrus.WarnLevel, logrus.GetLevel())
	logrus.Info("hidden")
	logrus.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	require.NoError(t, fs.Parse([]string{"-log-level", "loud"}))
	assert.Error(t, f.SetupLogging(&buf))
}

func TestEndpoints_RecordRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frames.fmr")

	sink, err := OpenSink(path, 16, 8, 30)
	require.NoError(t, err)
	f := frame.NewFrame(16, 8)
	f.Fill(f.Bounds(), symbol.HSV{H: 45, S: 85, V: 204})
	require.NoError(t, sink.WriteFrame(f))
	require.NoError(t, sink.Close())

	source, err := OpenSource(path, time.Second)
	require.NoError(t, err)
	defer source.Close()
	got, err := source.ReadFrame()
	require.NoError(t, err)
	assert.Equal(t, f.Pix, got.Pix)
}

func TestEndpoints_Errors(t *testing.T) {
	_, err := OpenSink("0", 16, 8, 30)
	assert.Error(t, err)

	source, err := OpenSource(filepath.Join(t.TempDir(), "missing.fmr"), time.Second)
	assert.Error(t, err)
	assert.Nil(t, source)

	_, err = OpenSink("udp://127.0.0.1:5004", 16, 8, 0)
	assert.Error(t, err)
}
