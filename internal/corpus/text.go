package corpus

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/ulikunitz/xz"

	cerrors "github.com/FocuswithJustin/bibletranslit/core/errors"
)

// readText returns one segment per line. Line terminators are removed; a
// final line without a terminator is kept.
func readText(path string) ([]Segment, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, cerrors.NewNotFound("input", path)
		}
		return nil, cerrors.NewIO("open", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(strings.ToLower(path), xzExt) {
		xr, err := xz.NewReader(f)
		if err != nil {
			return nil, cerrors.NewIO("decompress", path, err)
		}
		r = xr
	}

	segs, err := ReadLines(r)
	if err != nil {
		return nil, cerrors.NewIO("read", path, err)
	}
	return segs, nil
}

// ReadLines splits r into line segments.
func ReadLines(r io.Reader) ([]Segment, error) {
	br := bufio.NewReader(r)
	var segs []Segment
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			line = strings.TrimSuffix(line, "\n")
			line = strings.TrimSuffix(line, "\r")
			segs = append(segs, Segment{Text: line})
		}
		if err == io.EOF {
			return segs, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// WriteLines writes the text of each segment followed by a newline.
func WriteLines(w io.Writer, segs []Segment) error {
	bw := bufio.NewWriter(w)
	for _, s := range segs {
		if _, err := bw.WriteString(s.Text); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteKeyed writes "ref<TAB>text" lines. Tabs and newlines inside text are
// replaced by spaces so each segment stays on one line.
func WriteKeyed(w io.Writer, segs []Segment) error {
	bw := bufio.NewWriter(w)
	clean := strings.NewReplacer("\t", " ", "\r\n", " ", "\n", " ", "\r", " ")
	for _, s := range segs {
		if _, err := bw.WriteString(s.Ref); err != nil {
			return err
		}
		if err := bw.WriteByte('\t'); err != nil {
			return err
		}
		if _, err := bw.WriteString(clean.Replace(s.Text)); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Write renders doc's segments in the layout its format calls for.
func Write(w io.Writer, doc *Document) error {
	if doc.Keyed() {
		return WriteKeyed(w, doc.Segments)
	}
	return WriteLines(w, doc.Segments)
}
