// Package rtp carries frames over UDP as RTP packets.
//
// Each frame is serialized with frame.MarshalBinary (dimensions plus the
// zstd-compressed HSV plane), split into packets of at most MaxPacketSize
// bytes and sent with a shared 90 kHz timestamp. A one byte descriptor
// precedes every payload; its start bit marks the first packet of a frame
// and the RTP marker bit the last.
//
// The receiving Source reassembles frames keyed by timestamp. A frame is
// complete when its start and marker packets and every sequence number in
// between have arrived. Frames are delivered in timestamp order: a complete
// frame is held while an older one is still arriving, and packets for a
// timestamp at or before the last delivered frame are discarded. Incomplete
// assemblies are dropped after AssemblyTimeout or when more than
// MaxPendingFrames are buffered. A Source flushes its held frames and then
// reports io.EOF once no packet arrives for its idle timeout, which lets the
// stream decoder treat a silent sender as an exhausted source.
package rtp
