package main

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// maskTestImage is 10x2: row 0 opaque at x=0, 3 and 9, row 1 fully opaque
// except a half transparent pixel at x=8.
func maskTestImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 10, 2))
	for _, x := range []int{0, 3, 9} {
		img.Set(x, 0, color.NRGBA{R: 255, A: 255})
	}
	for x := 0; x < 10; x++ {
		img.Set(x, 1, color.NRGBA{G: 255, A: 255})
	}
	img.Set(8, 1, color.NRGBA{G: 255, A: 0x7f})
	return img
}

func TestPackMask(t *testing.T) {
	tests := []struct {
		name     string
		pad      int
		msbFirst bool
		want     []byte
	}{
		{
			name: "pad 32 lsb first",
			pad:  32,
			want: []byte{
				0x09, 0x02, 0x00, 0x00,
				0xff, 0x02, 0x00, 0x00,
			},
		},
		{
			name:     "pad 8 msb first",
			pad:      8,
			msbFirst: true,
			want: []byte{
				0x90, 0x40,
				0xff, 0x40,
			},
		},
		{
			name: "pad 16 lsb first",
			pad:  16,
			want: []byte{
				0x09, 0x02,
				0xff, 0x02,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, packMask(maskTestImage(), tt.pad, tt.msbFirst))
		})
	}
}

func TestPackMaskSubImage(t *testing.T) {
	sub := maskTestImage().SubImage(image.Rect(3, 0, 5, 1))
	assert.Equal(t, []byte{0x01}, packMask(sub, 8, false))
}

func TestDecodeImageFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "button.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, maskTestImage()))
	require.NoError(t, f.Close())

	img, err := decodeImageFile(path)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 10, 2), img.Bounds())
}

func TestDecodeImageFileErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := decodeImageFile(filepath.Join(dir, "missing.png"))
	assert.Error(t, err)

	garbage := filepath.Join(dir, "garbage.png")
	require.NoError(t, os.WriteFile(garbage, []byte("not an image"), 0644))
	_, err = decodeImageFile(garbage)
	assert.ErrorIs(t, err, image.ErrFormat)
}

func TestTranslateEvent(t *testing.T) {
	assert.Equal(t, event{kind: eventEnter, time: 5}, translateEvent(xproto.EnterNotifyEvent{Time: 5}))
	assert.Equal(t, event{kind: eventLeave, time: 6}, translateEvent(xproto.LeaveNotifyEvent{Time: 6}))
	assert.Equal(t, event{kind: eventButtonPress, button: 3, time: 7},
		translateEvent(xproto.ButtonPressEvent{Detail: 3, Time: 7}))
	assert.Equal(t,
		event{kind: eventConfigure, geometry: Geometry{X: -5, Y: 10, Width: 64, Height: 48}},
		translateEvent(xproto.ConfigureNotifyEvent{X: -5, Y: 10, Width: 64, Height: 48}))
	assert.Equal(t, event{kind: eventOther}, translateEvent(xproto.MapNotifyEvent{}))
}

func TestDecodeImageFileRejectsXPM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "button.xpm")
	xpm := "/* XPM */\nstatic char *button[] = {\n\"1 1 1 1\",\n\"a c #000000\",\n\"a\"\n};\n"
	require.NoError(t, os.WriteFile(path, []byte(xpm), 0644))

	_, err := decodeImageFile(path)
	assert.ErrorIs(t, err, image.ErrFormat)
	assert.Contains(t, err.Error(), "XPM is not supported")
}

func TestMaskScanlinePad(t *testing.T) {
	setup := &xproto.SetupInfo{
		BitmapFormatScanlinePad: 32,
		PixmapFormats: []xproto.Format{
			{Depth: 24, BitsPerPixel: 32, ScanlinePad: 32},
			{Depth: 1, BitsPerPixel: 1, ScanlinePad: 8},
		},
	}
	assert.Equal(t, 8, maskScanlinePad(setup))

	setup.PixmapFormats = setup.PixmapFormats[:1]
	assert.Equal(t, 32, maskScanlinePad(setup))
}
