package video

import (
	"fmt"
	"image"
	"io"

	vidio "github.com/AlexEidt/Vidio"
	"github.com/opd-ai/framemodem/frame"
	"github.com/sirupsen/logrus"
)

// rgbaReader is the part of vidio.Video and vidio.Camera a source needs.
type rgbaReader interface {
	Width() int
	Height() int
	SetFrameBuffer(buffer []byte) error
	Read() bool
	Close()
}

// reader decodes RGBA frames from a Vidio reader into HSV frames.
type reader struct {
	src    rgbaReader
	img    *image.RGBA
	frames int
}

func newReader(src rgbaReader) (*reader, error) {
	img := image.NewRGBA(image.Rect(0, 0, src.Width(), src.Height()))
	if err := src.SetFrameBuffer(img.Pix); err != nil {
		src.Close()
		return nil, fmt.Errorf("set frame buffer: %w", err)
	}
	return &reader{src: src, img: img}, nil
}

// ReadFrame returns the next decoded frame, or io.EOF at end of input.
func (r *reader) ReadFrame() (*frame.Frame, error) {
	if !r.src.Read() {
		return nil, io.EOF
	}
	r.frames++
	return frame.FromImage(r.img), nil
}

// Width returns the decoded frame width.
func (r *reader) Width() int { return r.src.Width() }

// Height returns the decoded frame height.
func (r *reader) Height() int { return r.src.Height() }

// Frames returns the number of frames read so far.
func (r *reader) Frames() int { return r.frames }

// Close stops the underlying ffmpeg process.
func (r *reader) Close() error {
	r.src.Close()
	return nil
}

// FileSource reads frames from a video file.
type FileSource struct {
	*reader
	video *vidio.Video
}

// Open starts decoding the video at path.
func Open(path string) (*FileSource, error) {
	v, err := vidio.NewVideo(path)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "video.Open",
			"path":     path,
			"error":    err.Error(),
		}).Error("Failed to open video")
		return nil, fmt.Errorf("open video %s: %w", path, err)
	}
	r, err := newReader(v)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"function": "video.Open",
		"path":     path,
		"width":    v.Width(),
		"height":   v.Height(),
		"fps":      v.FPS(),
		"frames":   v.Frames(),
		"codec":    v.Codec(),
	}).Info("Video opened")

	return &FileSource{reader: r, video: v}, nil
}

// FPS returns the file's frame rate.
func (s *FileSource) FPS() float64 { return s.video.FPS() }

// CameraSource reads frames from a capture device.
type CameraSource struct {
	*reader
}

// OpenCamera opens the capture device with the given index.
func OpenCamera(index int) (*CameraSource, error) {
	c, err := vidio.NewCamera(index)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "video.OpenCamera",
			"index":    index,
			"error":    err.Error(),
		}).Error("Failed to open camera")
		return nil, fmt.Errorf("open camera %d: %w", index, err)
	}
	r, err := newReader(c)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"function": "video.OpenCamera",
		"index":    index,
		"width":    c.Width(),
		"height":   c.Height(),
		"fps":      c.FPS(),
	}).Info("Camera opened")

	return &CameraSource{reader: r}, nil
}
