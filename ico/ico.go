// Package ico encodes Windows icon files holding PNG compressed images.
package ico

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/png"
	"io"
	"sort"

	"golang.org/x/image/draw"
)

// Sizes are the edge lengths written when none are requested.
var Sizes = []int{256, 128, 64, 48, 32, 16}

// header is the ICONDIR structure.
type header struct {
	Reserved uint16
	Type     uint16
	Count    uint16
}

// entry is the ICONDIRENTRY structure.
type entry struct {
	Width      uint8
	Height     uint8
	Colors     uint8
	Reserved   uint8
	Planes     uint16
	BitCount   uint16
	BytesInRes uint32
	Offset     uint32
}

const (
	headerSize = 6
	entrySize  = 16
)

// Encode scales src to each size and writes an ico holding one PNG per size,
// largest first. Sizes above 256 are not representable and are rejected.
func Encode(dst io.Writer, src image.Image, sizes ...int) error {
	if len(sizes) == 0 {
		sizes = Sizes
	}
	sizes = append([]int(nil), sizes...)
	sort.Sort(sort.Reverse(sort.IntSlice(sizes)))
	var (
		entries = make([]entry, 0, len(sizes))
		images  = make([][]byte, 0, len(sizes))
		offset  = uint32(headerSize + entrySize*len(sizes))
	)
	for _, size := range sizes {
		if size <= 0 || size > 256 {
			return fmt.Errorf("ico: unsupported size %d", size)
		}
		var (
			rect = image.Rect(0, 0, size, size)
			raw  = image.NewNRGBA(rect)
			buf  = bytes.NewBuffer(nil)
		)
		draw.CatmullRom.Scale(raw, rect, src, src.Bounds(), draw.Src, nil)
		if err := png.Encode(buf, raw); err != nil {
			return fmt.Errorf("encoding %dx%d png: %w", size, size, err)
		}
		// 256 is stored as 0.
		edge := uint8(size % 256)
		entries = append(entries, entry{
			Width:      edge,
			Height:     edge,
			Planes:     1,
			BitCount:   32,
			BytesInRes: uint32(buf.Len()),
			Offset:     offset,
		})
		images = append(images, buf.Bytes())
		offset += uint32(buf.Len())
	}
	if err := binary.Write(dst, binary.LittleEndian, header{
		Type:  1,
		Count: uint16(len(entries)),
	}); err != nil {
		return fmt.Errorf("writing ico header: %w", err)
	}
	if err := binary.Write(dst, binary.LittleEndian, entries); err != nil {
		return fmt.Errorf("writing icon entries: %w", err)
	}
	for _, data := range images {
		if _, err := dst.Write(data); err != nil {
			return fmt.Errorf("writing icon data: %w", err)
		}
	}
	return nil
}
