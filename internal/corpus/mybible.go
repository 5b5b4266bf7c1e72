package corpus

import (
	"context"
	"database/sql"
	"fmt"

	cerrors "github.com/FocuswithJustin/bibletranslit/core/errors"
	"github.com/FocuswithJustin/bibletranslit/core/sqlite"
)

// MyBible numbers books in steps of ten, with gaps for the
// deuterocanonical books.
var myBibleBooks = map[int]string{
	10: "Gen", 20: "Exod", 30: "Lev", 40: "Num", 50: "Deut",
	60: "Josh", 70: "Judg", 80: "Ruth", 90: "1Sam", 100: "2Sam",
	110: "1Kgs", 120: "2Kgs", 130: "1Chr", 140: "2Chr", 150: "Ezra",
	160: "Neh", 190: "Esth", 220: "Job", 230: "Ps", 240: "Prov",
	250: "Eccl", 260: "Song", 290: "Isa", 300: "Jer", 310: "Lam",
	330: "Ezek", 340: "Dan", 350: "Hos", 360: "Joel", 370: "Amos",
	380: "Obad", 390: "Jonah", 400: "Mic", 410: "Nah", 420: "Hab",
	430: "Zeph", 440: "Hag", 450: "Zech", 460: "Mal",
	470: "Matt", 480: "Mark", 490: "Luke", 500: "John", 510: "Acts",
	520: "Rom", 530: "1Cor", 540: "2Cor", 550: "Gal", 560: "Eph",
	570: "Phil", 580: "Col", 590: "1Thess", 600: "2Thess",
	610: "1Tim", 620: "2Tim", 630: "Titus", 640: "Phlm", 650: "Heb",
	660: "Jas", 670: "1Pet", 680: "2Pet", 690: "1John", 700: "2John",
	710: "3John", 720: "Jude", 730: "Rev",
}

// myBibleBook converts a MyBible book number to an OSIS book ID.
func myBibleBook(n int) string {
	if osis, ok := myBibleBooks[n]; ok {
		return osis
	}
	return fmt.Sprintf("Book%d", n)
}

// readMyBible reads the verses table of a MyBible module. Verse text is
// returned with its markup, which is ASCII and passes through unchanged.
func readMyBible(ctx context.Context, path string) ([]Segment, error) {
	db, err := sqlite.OpenReadOnly(path)
	if err != nil {
		return nil, cerrors.NewIO("open", path, err)
	}
	defer db.Close()

	ok, err := sqlite.TableExists(ctx, db, "verses")
	if err != nil {
		return nil, cerrors.NewIO("query", path, err)
	}
	if !ok {
		return nil, cerrors.NewParse("MyBible", path, "no verses table")
	}

	rows, err := db.QueryContext(ctx,
		"SELECT book_number, chapter, verse, text FROM verses ORDER BY book_number, chapter, verse")
	if err != nil {
		return nil, cerrors.NewIO("query", path, err)
	}
	defer rows.Close()

	var segs []Segment
	for rows.Next() {
		var (
			book, chapter, verse int
			text                 sql.NullString
		)
		if err := rows.Scan(&book, &chapter, &verse, &text); err != nil {
			return nil, cerrors.NewParse("MyBible", path, err.Error())
		}
		ref := Ref{Book: myBibleBook(book), Chapter: chapter, Verse: verse}
		segs = append(segs, Segment{Ref: ref.String(), Text: text.String})
	}
	if err := rows.Err(); err != nil {
		return nil, cerrors.NewIO("read", path, err)
	}
	return segs, nil
}
