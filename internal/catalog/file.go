package catalog

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"

	"lorehub/internal/filter"
	"lorehub/pkg/models"
)

// FileSource reads one data file on every Load; nothing is cached.
type FileSource struct {
	Path string
	Kind models.Kind
}

// FileSources builds one source per file name under dir.
func FileSources(dir string, kind models.Kind, files []string) []Source {
	out := make([]Source, 0, len(files))
	for _, f := range files {
		out = append(out, FileSource{Path: filepath.Join(dir, f), Kind: kind})
	}
	return out
}

func (s FileSource) Name() string { return filepath.Base(s.Path) }

// Check reports whether the file can be stat'ed.
func (s FileSource) Check(context.Context) error {
	_, err := os.Stat(s.Path)
	return err
}

func (s FileSource) Load(ctx context.Context, kind models.Kind) ([]filter.Record, error) {
	if kind != s.Kind {
		return nil, nil
	}
	b, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.Path, err)
	}
	return Decode(b, kind)
}

// Decode extracts the record array from a data file. The array is taken
// from the kind's wrapper key, or from the document itself when it is a
// bare array. Each record keeps its original bytes.
func Decode(b []byte, kind models.Kind) ([]filter.Record, error) {
	if !gjson.ValidBytes(b) {
		return nil, fmt.Errorf("decode %s data: invalid json", kind)
	}
	doc := gjson.ParseBytes(b)
	list := doc
	if !doc.IsArray() {
		list = doc.Get(kind.WrapperKey())
	}
	if !list.IsArray() {
		return nil, fmt.Errorf("decode %s data: %q is not an array", kind, kind.WrapperKey())
	}

	out := []filter.Record{}
	list.ForEach(func(_, v gjson.Result) bool {
		out = append(out, filter.Record(v.Raw))
		return true
	})
	return out, nil
}

// Encode writes recs back in the data file shape Decode reads, under the
// kind's wrapper key. Record bytes are copied unchanged.
func Encode(kind models.Kind, recs []filter.Record) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "{%q:[", kind.WrapperKey())
	for i, r := range recs {
		if i > 0 {
			buf.WriteString(",\n")
		} else {
			buf.WriteString("\n")
		}
		buf.Write(r)
	}
	buf.WriteString("\n]}\n")
	return buf.Bytes()
}
