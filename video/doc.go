// Package video connects frame streams to real video files and cameras
// through Vidio, which drives ffmpeg. Frames cross the boundary as RGBA and
// are converted to and from the HSV raster with frame.ToRGBA and
// frame.FromImage.
//
// Lossy codecs blur cell edges and shift colors slightly; the quantizer's
// guard bands and the demodulator's cell averaging absorb that as long as
// blocks stay several pixels wide.
package video
