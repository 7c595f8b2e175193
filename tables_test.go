package picosynth

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestTablesFromRAM(t *testing.T) {
	if _, err := TablesFromRAM(make([]byte, SFXBase)); err == nil {
		t.Fatalf("short ram should fail")
	}
	ram := make([]byte, 0x8000)
	ram[MusicBase] = 0x11
	ram[SFXBase] = 0x22
	ram[SFXBase+SFXSize-1] = 0x33
	tbl, err := TablesFromRAM(ram)
	if err != nil {
		t.Fatalf("tables: %v", err)
	}
	if len(tbl.Music) != MusicSize || len(tbl.SFX) != SFXSize {
		t.Fatalf("sizes %d/%d", len(tbl.Music), len(tbl.SFX))
	}
	if tbl.Music[0] != 0x11 || tbl.SFX[0] != 0x22 || tbl.SFX[SFXSize-1] != 0x33 {
		t.Fatalf("tables sliced from the wrong offsets")
	}
}

func TestImageRoundTrip(t *testing.T) {
	src := testTables()
	img := src.Image()
	if len(img) != ImageSize || ImageSize != 0x1200 {
		t.Fatalf("image size %d", len(img))
	}
	path := filepath.Join(t.TempDir(), "tables.bin")
	if err := os.WriteFile(path, img, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := LoadTables(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !bytes.Equal(got.Music, src.Music) || !bytes.HasPrefix(got.SFX, src.SFX) {
		t.Fatalf("tables changed across the image round trip")
	}

	big := filepath.Join(t.TempDir(), "big.bin")
	if err := os.WriteFile(big, make([]byte, ImageSize+1), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadTables(big); err == nil {
		t.Fatalf("oversized image should fail")
	}
	if _, err := LoadTables(filepath.Join(t.TempDir(), "missing.bin")); err == nil {
		t.Fatalf("missing file should fail")
	}
}

func TestTablesFromShortImage(t *testing.T) {
	tbl := TablesFromImage([]byte{1, 2, 3})
	if len(tbl.Music) != 3 || tbl.SFX != nil {
		t.Fatalf("short image: %+v", tbl)
	}
}
