package labels

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Catalogue
	}{
		{
			name:  "empty file",
			input: "",
			want:  Catalogue{Blank},
		},
		{
			name:  "token counts",
			input: "0\n1 person\n3 traffic light\n4 fire hydrant extra\n",
			want:  Catalogue{Blank, Blank, "person", "traffic light", "fire hydrant"},
		},
		{
			name:  "stops at blank line",
			input: "1 person\n2 bicycle\n\n3 car\n",
			want:  Catalogue{Blank, "person", "bicycle"},
		},
		{
			name:  "whitespace runs",
			input: "1\t  person  \n",
			want:  Catalogue{Blank, "person"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Parse(strings.NewReader(tc.input))
			if len(got) != len(tc.want) {
				t.Fatalf("Parse: got %d entries %q, want %d %q", len(got), got, len(tc.want), tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("entry %d: got %q, want %q", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestCatalogue_Name(t *testing.T) {
	cat := Default()

	if got := cat.Name(1); got != "Person" {
		t.Errorf("Name(1) = %q, want Person", got)
	}
	if got := cat.Name(42); got != "class 42" {
		t.Errorf("Name(42) = %q, want class 42", got)
	}
	if got := cat.Name(-1); got != "class -1" {
		t.Errorf("Name(-1) = %q, want class -1", got)
	}
}

func TestForGraph(t *testing.T) {
	dir := t.TempDir()
	labelPath := filepath.Join(dir, "labels.txt")
	if err := os.WriteFile(labelPath, []byte("1 person\n2 bicycle\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cat, err := ForGraph("mobilenet-ssd.xml", labelPath)
	if err != nil {
		t.Fatalf("ForGraph default: %v", err)
	}
	if cat.Name(1) != "Person" {
		t.Errorf("mobilenet-ssd should use the default catalogue, got %q", cat)
	}

	cat, err = ForGraph("/models/ssdlite_mobilenet_v2.xml", labelPath)
	if err != nil {
		t.Fatalf("ForGraph ssdlite: %v", err)
	}
	if cat.Name(2) != "bicycle" {
		t.Errorf("ssdlite should read the label file, got %q", cat)
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.txt"))
	if err == nil {
		t.Fatal("expected error for missing label file")
	}

	var fe *FileError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FileError, got %T", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected fs.ErrNotExist in chain, got %v", err)
	}
}
