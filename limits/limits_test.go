package limits

import (
	"errors"
	"testing"
)

// TestMaxFramePixelsFitsRecord verifies that an uncompressed frame of the
// largest allowed area fits in a single record.
func TestMaxFramePixelsFitsRecord(t *testing.T) {
	if MaxFramePixels*BytesPerPixel > MaxRecordSize {
		t.Errorf("MaxFramePixels*BytesPerPixel = %d, exceeds MaxRecordSize %d",
			MaxFramePixels*BytesPerPixel, MaxRecordSize)
	}
}

// TestValidateCanvas tests the canvas validation function
func TestValidateCanvas(t *testing.T) {
	tests := []struct {
		name    string
		width   int
		height  int
		wantErr error
	}{
		{"1080p", 1920, 1080, nil},
		{"single pixel", 1, 1, nil},
		{"max side", MaxCanvasDimension, 1, nil},
		{"zero width", 0, 10, ErrDimensionZero},
		{"negative height", 10, -1, ErrDimensionZero},
		{"wide", MaxCanvasDimension + 1, 10, ErrDimensionTooLarge},
		{"area", MaxCanvasDimension, MaxCanvasDimension, ErrDimensionTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCanvas(tt.width, tt.height)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateCanvas(%d, %d) = %v, want nil", tt.width, tt.height, err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateCanvas(%d, %d) = %v, want %v", tt.width, tt.height, err, tt.wantErr)
			}
		})
	}
}

// TestValidateRecordSize tests the record size validation function
func TestValidateRecordSize(t *testing.T) {
	if err := ValidateRecordSize(0); err != nil {
		t.Errorf("ValidateRecordSize(0) = %v, want nil", err)
	}
	if err := ValidateRecordSize(MaxRecordSize); err != nil {
		t.Errorf("ValidateRecordSize(max) = %v, want nil", err)
	}
	if err := ValidateRecordSize(MaxRecordSize + 1); !errors.Is(err, ErrRecordTooLarge) {
		t.Errorf("ValidateRecordSize(max+1) = %v, want ErrRecordTooLarge", err)
	}
	if err := ValidateRecordSize(-1); !errors.Is(err, ErrNegativeLength) {
		t.Errorf("ValidateRecordSize(-1) = %v, want ErrNegativeLength", err)
	}
}

// TestValidatePayloadLength tests the payload length validation function
func TestValidatePayloadLength(t *testing.T) {
	tests := []struct {
		length  int
		wantErr error
	}{
		{0, nil},
		{5, nil},
		{MaxPayloadLength, nil},
		{MaxPayloadLength + 1, ErrPayloadTooLarge},
		{-3, ErrNegativeLength},
	}

	for _, tt := range tests {
		err := ValidatePayloadLength(tt.length)
		if tt.wantErr == nil && err != nil {
			t.Errorf("ValidatePayloadLength(%d) = %v, want nil", tt.length, err)
		}
		if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
			t.Errorf("ValidatePayloadLength(%d) = %v, want %v", tt.length, err, tt.wantErr)
		}
	}
}
