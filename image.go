package main

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/xgraphics"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// pixels with less alpha than this are cut out of the window shape
const opaqueThreshold = 0x8000

const supportedFormats = "PNG, GIF, JPEG, BMP, TIFF or WebP; XPM is not supported"

func decodeImageFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if errors.Is(err, image.ErrFormat) {
		return nil, fmt.Errorf("%s: %w (use %s)", path, err, supportedFormats)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.Printf("Decoded %s image %s (%dx%d)\n", format, path, img.Bounds().Dx(), img.Bounds().Dy())
	return img, nil
}

// maskScanlinePad is the scanline pad in bits the server expects for
// depth 1 ZPixmap images.
func maskScanlinePad(setup *xproto.SetupInfo) int {
	for _, f := range setup.PixmapFormats {
		if f.Depth == 1 {
			return int(f.ScanlinePad)
		}
	}
	return int(setup.BitmapFormatScanlinePad)
}

// packMask turns the alpha channel of img into an X bitmap. pad is the
// scanline pad in bits, msbFirst the server's bitmap bit order.
func packMask(img image.Image, pad int, msbFirst bool) []byte {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	stride := ((w + pad - 1) / pad) * pad / 8
	data := make([]byte, stride*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			_, _, _, a := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			if a < opaqueThreshold {
				continue
			}
			bit := uint(x % 8)
			if msbFirst {
				bit = 7 - bit
			}
			data[y*stride+x/8] |= 1 << bit
		}
	}
	return data
}

// loadImage decodes path and uploads it and its shape mask to the server.
func (s *xsurface) loadImage(path string) (*buttonImage, error) {
	img, err := decodeImageFile(path)
	if err != nil {
		return nil, err
	}
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if w <= 0 || h <= 0 || w > 0xffff || h > 0xffff {
		return nil, fmt.Errorf("%s: bad image size %dx%d", path, w, h)
	}

	ximg := xgraphics.NewConvert(s.xu, img)
	if err := ximg.XSurfaceSet(s.win); err != nil {
		return nil, fmt.Errorf("%s: create pixmap: %w", path, err)
	}
	ximg.XDraw()

	mask, err := s.uploadMask(img)
	if err != nil {
		return nil, fmt.Errorf("%s: create mask: %w", path, err)
	}

	return &buttonImage{
		pixmap: ximg.Pixmap,
		mask:   mask,
		width:  w,
		height: h,
	}, nil
}

func (s *xsurface) uploadMask(img image.Image) (xproto.Pixmap, error) {
	conn := s.conn
	w, h := uint16(img.Bounds().Dx()), uint16(img.Bounds().Dy())

	setup := xproto.Setup(conn)
	data := packMask(img, maskScanlinePad(setup),
		setup.BitmapFormatBitOrder == xproto.ImageOrderMSBFirst)

	mask, err := xproto.NewPixmapId(conn)
	if err != nil {
		return 0, err
	}
	err = xproto.CreatePixmapChecked(conn, 1, mask, xproto.Drawable(s.win), w, h).Check()
	if err != nil {
		return 0, err
	}

	gc, err := xproto.NewGcontextId(conn)
	if err != nil {
		return 0, err
	}
	err = xproto.CreateGCChecked(conn, gc, xproto.Drawable(mask), 0, nil).Check()
	if err != nil {
		return 0, err
	}
	defer xproto.FreeGC(conn, gc)

	err = xproto.PutImageChecked(conn, xproto.ImageFormatZPixmap, xproto.Drawable(mask), gc,
		w, h, 0, 0, 0, 1, data).Check()
	if err != nil {
		return 0, err
	}
	return mask, nil
}
