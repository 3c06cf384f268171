// Package record stores frame sequences losslessly on disk.
//
// A recording starts with a fixed header:
//
//	"FMRC" | version (1 byte) | width (uint16 BE) | height (uint16 BE)
//
// followed by one record per frame:
//
//	length (uint32 BE) | CRC-32 IEEE of payload (uint32 BE) | zstd(HSV plane)
//
// Every frame in a recording shares the header's dimensions. Writer and
// FileSink implement stream.FrameSink; Reader and FileSource implement
// stream.FrameSource and return io.EOF after the last complete record.
package record
