// Package rsrc compiles ico files into a .syso object the Go linker picks up,
// giving a Windows executable its icon.
package rsrc

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/akavel/rsrc/binutil"
	"github.com/akavel/rsrc/coff"
	"github.com/akavel/rsrc/ico"
)

// Arch is a GOARCH value the COFF object is produced for.
type Arch string

const (
	I386  Arch = "386"
	AMD64 Arch = "amd64"
	ARM   Arch = "arm"
	ARM64 Arch = "arm64"
)

// Embed writes icons, each an .ico file, into output as a resource object.
// Every ico becomes one icon group.
func Embed(output string, arch Arch, icons ...string) error {
	if len(icons) == 0 {
		return fmt.Errorf("no icons to embed")
	}
	var (
		nextID = idGenerator()
		res    = coff.NewRSRC()
	)
	if err := res.Arch(string(arch)); err != nil {
		return fmt.Errorf("setting architecture %q: %w", arch, err)
	}
	for _, icon := range icons {
		f, err := os.Open(icon)
		if err != nil {
			return fmt.Errorf("opening icon: %w", err)
		}
		// The section readers handed to the object read from f until it is
		// written out below.
		defer f.Close()
		if err := addIcon(res, f, nextID); err != nil {
			return fmt.Errorf("adding icon %s: %w", icon, err)
		}
	}
	res.Freeze()
	out, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	if err := write(res, out); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// on storing icons, see: http://blogs.msdn.com/b/oldnewthing/archive/2012/07/20/10331787.aspx
type iconGroup struct {
	ico.ICONDIR
	Entries []iconEntry
}

func (group iconGroup) Size() int64 {
	return int64(binary.Size(group.ICONDIR) + len(group.Entries)*binary.Size(group.Entries[0]))
}

type iconEntry struct {
	ico.IconDirEntryCommon
	Id uint16
}

func addIcon(out *coff.Coff, f *os.File, newID func() uint16) error {
	icons, err := ico.DecodeHeaders(f)
	if err != nil {
		return fmt.Errorf("decoding header: %w", err)
	}
	if len(icons) == 0 {
		return fmt.Errorf("icon holds no images")
	}
	group := iconGroup{ICONDIR: ico.ICONDIR{
		Reserved: 0,
		Type:     1,
		Count:    uint16(len(icons)),
	}}
	for _, icon := range icons {
		id := newID()
		out.AddResource(coff.RT_ICON, id, io.NewSectionReader(f, int64(icon.ImageOffset), int64(icon.BytesInRes)))
		group.Entries = append(group.Entries, iconEntry{icon.IconDirEntryCommon, id})
	}
	out.AddResource(coff.RT_GROUP_ICON, newID(), group)
	return nil
}

func write(res *coff.Coff, out io.Writer) error {
	w := binutil.Writer{W: out}
	if err := binutil.Walk(res, func(v reflect.Value, path string) error {
		if binutil.Plain(v.Kind()) {
			w.WriteLE(v.Interface())
			return nil
		}
		vv, ok := v.Interface().(binutil.SizedReader)
		if ok {
			w.WriteFromSized(vv)
			return binutil.WALK_SKIP
		}
		return nil
	}); err != nil {
		return fmt.Errorf("walking coff: %w", err)
	}
	if w.Err != nil {
		return fmt.Errorf("writing output: %w", w.Err)
	}
	return nil
}

func idGenerator() func() uint16 {
	id := uint16(0)
	return func() uint16 {
		id++
		return id
	}
}
