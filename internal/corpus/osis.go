package corpus

import (
	"os"
	"strings"

	cerrors "github.com/FocuswithJustin/bibletranslit/core/errors"
	"github.com/FocuswithJustin/bibletranslit/core/xml"
	"github.com/FocuswithJustin/bibletranslit/internal/logging"
)

// osisSkip lists elements whose text is not part of the verse.
var osisSkip = []string{"note", "title"}

// readOSIS reads <verse> elements. Both container verses and sID/eID
// milestone pairs are understood.
func readOSIS(path string) ([]Segment, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, cerrors.NewNotFound("input", path)
		}
		return nil, cerrors.NewIO("open", path, err)
	}
	defer f.Close()

	doc, err := xml.ParseReader(f)
	if err != nil {
		return nil, cerrors.NewParse("OSIS", path, err.Error())
	}

	if root := doc.Root(); root == nil || root.Name() != "osis" {
		return nil, cerrors.NewParse("OSIS", path, "document element is not <osis>")
	}

	verses, err := doc.XPath("//verse[@osisID]")
	if err != nil {
		return nil, cerrors.NewParse("OSIS", path, err.Error())
	}

	segs := make([]Segment, 0, len(verses))
	for _, v := range verses {
		ref, err := normalizeRef(v.Attr("osisID"))
		if err != nil {
			logging.Warn("unparsed osisID", "path", path, "osisID", ref, "error", err)
		}

		var text string
		if sid := v.Attr("sID"); sid != "" {
			text = v.TextUntil(func(n *xml.Node) bool {
				return n.Name() == "verse" && (n.Attr("eID") == sid || n.Attr("sID") != "")
			}, osisSkip...)
		} else {
			text = v.TextExcluding(osisSkip...)
		}
		segs = append(segs, Segment{Ref: ref, Text: strings.TrimSpace(text)})
	}
	return segs, nil
}
