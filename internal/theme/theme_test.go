package theme

import (
	"bytes"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	input := `
# comment
Name: Custom
stroke: #112233
Selected: #11223344
Draft: orange
FillOpacity: 0.5
Unknown: whatever
`
	th, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if th.Name != "Custom" {
		t.Errorf("Name = %q", th.Name)
	}
	if th.Stroke != (color.RGBA{0x11, 0x22, 0x33, 0xFF}) {
		t.Errorf("Stroke = %+v", th.Stroke)
	}
	if th.Selected != (color.RGBA{0x11, 0x22, 0x33, 0x44}) {
		t.Errorf("Selected = %+v", th.Selected)
	}
	if th.Draft != (color.RGBA{0xFF, 0xA5, 0x00, 0xFF}) {
		t.Errorf("Draft = %+v", th.Draft)
	}
	if th.FillOpacity != 0.5 {
		t.Errorf("FillOpacity = %v", th.FillOpacity)
	}
	if th.Handle != Default().Handle {
		t.Errorf("missing keys should keep defaults")
	}
}

func TestParseErrors(t *testing.T) {
	for _, in := range []string{"Stroke: #12", "Stroke: notacolour", "StrokeWidth: wide"} {
		if _, err := Parse(strings.NewReader(in)); err == nil {
			t.Errorf("Parse(%q) expected error", in)
		}
	}
}

func TestWriteRoundTrip(t *testing.T) {
	th := Default()
	th.Name = "Round"
	th.LabelBackground = color.RGBA{1, 2, 3, 4}
	th.StrokeWidth = 2.5
	var buf bytes.Buffer
	if err := Write(&buf, th); err != nil {
		t.Fatal(err)
	}
	got, err := Parse(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if *got != *th {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, th)
	}
}

func TestEmbeddedThemes(t *testing.T) {
	names := Names()
	if len(names) < 2 {
		t.Fatalf("embedded themes = %v", names)
	}
	l := &Loader{}
	for _, n := range names {
		if _, err := l.Load(n); err != nil {
			t.Errorf("Load(%q): %v", n, err)
		}
	}
	dark, err := l.Load("dark")
	if err != nil {
		t.Fatal(err)
	}
	if dark.Name != "Dark" {
		t.Errorf("dark Name = %q", dark.Name)
	}
}

func TestLoaderOrder(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mine.theme")
	if err := os.WriteFile(path, []byte("Name: FromFile\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	custom := Default()
	custom.Name = "FromConfig"
	l := &Loader{ConfigDir: dir, Custom: map[string]*Theme{"dark": custom}}

	if th, err := l.Load("dark"); err != nil || th.Name != "FromConfig" {
		t.Fatalf("custom theme not preferred: %v %v", th, err)
	}
	if th, err := l.Load(path); err != nil || th.Name != "FromFile" {
		t.Fatalf("path load: %v %v", th, err)
	}
	if th, err := l.Load("mine"); err != nil || th.Name != "FromFile" {
		t.Fatalf("config dir load: %v %v", th, err)
	}
	if th, err := l.Load(""); err != nil || th.Name != "Default" {
		t.Fatalf("empty name: %v %v", th, err)
	}
	if _, err := l.Load("nope"); err == nil {
		t.Fatal("expected error for missing theme")
	}
}
