// Package labels maps detector class ids to human-readable names.
package labels

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Blank is the name used for unnamed classes and for index 0 of label files.
const Blank = " "

// DefaultLabelFile is the label file looked up for graphs that need one.
const DefaultLabelFile = "labels.txt"

// Catalogue is an ordered class-name table indexed by label id.
type Catalogue []string

// Default returns the class names of the stock MobileNet-SSD graph.
func Default() Catalogue {
	return Catalogue{"Background", "Person", "Car", "Bus", "Bicycle", "Motorcycle"}
}

// Name returns the name for id, or "class <id>" when id is out of range.
func (c Catalogue) Name(id int) string {
	if id < 0 || id >= len(c) {
		return fmt.Sprintf("class %d", id)
	}
	return c[id]
}

// Parse reads a label file. Entry 0 is always Blank; every following line
// adds one entry:
//
//	1 token  -> Blank
//	2 tokens -> second token
//	3 tokens -> second and third token joined by a space
//
// Parsing stops at the first blank line or read failure.
func Parse(r io.Reader) Catalogue {
	cat := Catalogue{Blank}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		switch len(fields) {
		case 0:
			return cat
		case 1:
			cat = append(cat, Blank)
		case 2:
			cat = append(cat, fields[1])
		default:
			cat = append(cat, fields[1]+" "+fields[2])
		}
	}
	return cat
}

// Load parses the label file at path.
func Load(path string) (Catalogue, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &FileError{Path: path, Err: err}
	}
	defer f.Close()

	return Parse(f), nil
}

// ForGraph picks the catalogue matching a detector graph. SSDLite graphs
// ship their own label file; everything else uses Default.
func ForGraph(graphPath, labelPath string) (Catalogue, error) {
	base := strings.TrimSuffix(filepath.Base(graphPath), filepath.Ext(graphPath))
	if base != "ssdlite_mobilenet_v2" {
		return Default(), nil
	}
	if labelPath == "" {
		labelPath = DefaultLabelFile
	}
	return Load(labelPath)
}

// FileError is returned when a label file cannot be opened.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("labels: open %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *FileError) Unwrap() error {
	return e.Err
}
