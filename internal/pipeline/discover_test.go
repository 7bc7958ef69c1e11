package pipeline

import (
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
		t.Fatalf("touch %s: %v", name, err)
	}
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "warehouse_spreadsheet0.csv")
	touch(t, dir, "Sheet1_items.xlsx")
	touch(t, dir, "SHEET2_routes.CSV")
	touch(t, dir, "readme.txt")
	touch(t, dir, "sheet2_notes.md")

	src, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	if want := filepath.Join(dir, "warehouse_spreadsheet0.csv"); src.Direct != want {
		t.Errorf("Direct = %q, want %q", src.Direct, want)
	}
	if want := filepath.Join(dir, "Sheet1_items.xlsx"); src.Quantity != want {
		t.Errorf("Quantity = %q, want %q", src.Quantity, want)
	}
	if want := filepath.Join(dir, "SHEET2_routes.CSV"); src.Routing != want {
		t.Errorf("Routing = %q, want %q", src.Routing, want)
	}
}

func TestDiscover_IgnoresUnsupportedExtensions(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "sheet0.txt")
	touch(t, dir, "sheet1.json")

	src, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if !src.Empty() {
		t.Errorf("Sources = %+v, want empty", src)
	}
}

func TestDiscover_FirstMatchWins(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a_sheet0.csv")
	touch(t, dir, "b_sheet0.csv")

	src, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if want := filepath.Join(dir, "a_sheet0.csv"); src.Direct != want {
		t.Errorf("Direct = %q, want %q (first in directory order)", src.Direct, want)
	}
}

func TestDiscover_PartialSources(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "sheet1.csv")

	src, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if src.Direct != "" || src.Routing != "" {
		t.Errorf("Sources = %+v, want only Quantity set", src)
	}
	if src.Quantity == "" {
		t.Error("Quantity not discovered")
	}
	if src.Empty() {
		t.Error("Empty() = true with one source present")
	}
}

func TestDiscover_MissingDirectory(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "nope"))
	if err == nil {
		t.Fatal("Discover() expected error for missing directory")
	}
}

func TestDiscover_SkipsSubdirectories(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "sheet0.csv"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	src, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if src.Direct != "" {
		t.Errorf("Direct = %q, want empty (directories are not sources)", src.Direct)
	}
}
