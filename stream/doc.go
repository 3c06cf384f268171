// Package stream moves byte payloads through the frame modem.
//
// The Encoder chunks a payload into per-frame symbol batches, composes one
// frame per batch and writes it Redundancy times to a FrameSink. The Decoder
// reads a FrameSource, skips PhaseSkip frames to land inside a redundancy
// group, then samples one frame per group until it has the requested number
// of bytes:
//
//	cfg := stream.DefaultConfig()
//	enc, err := stream.NewEncoder(cfg)
//	ch := stream.NewChannel()
//	stats, err := enc.EncodeStream(ctx, payload, ch)
//
//	dec, err := stream.NewDecoder(cfg)
//	data, err := dec.DecodeStream(ctx, ch, len(payload))
//
// # Synchronization
//
// Encoder and decoder share no clock. The default phase skip of
// Redundancy/2 is a heuristic that moves the first sample toward the middle
// of a group so it is less likely to straddle a transcoding boundary. It is
// not a proven synchronization protocol; Config.PhaseSkip tunes it.
//
// # Error Detection
//
// There is none in the optical channel. A corrupted cell yields a wrong
// symbol silently; frame repetition is the only defence. Callers that need
// integrity must carry their own checksum inside the payload.
package stream
