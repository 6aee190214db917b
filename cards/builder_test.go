package cards

import (
	"bytes"
	"image"
	"image/png"
	"reflect"
	"strings"
	"testing"

	"github.com/tsawler/chartula/mhtdoc"
	"github.com/tsawler/chartula/tables"
)

// extractTables parses a document and fails the test on parse errors.
func extractTables(t *testing.T, doc string) []*tables.Table {
	t.Helper()

	tbls, err := tables.Extract(doc)
	if err != nil {
		t.Fatal(err)
	}
	return tbls
}

func imagePart(location string, data []byte) *mhtdoc.Part {
	return &mhtdoc.Part{
		ContentType:     "image/png",
		MediaType:       "image/png",
		ContentLocation: location,
		Body:            data,
	}
}

// encodePNG produces a real PNG payload with the given dimensions.
func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()

	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestBuildTextTable(t *testing.T) {
	tbls := extractTables(t, `<table>
<tr><td>q1</td><td>a1</td></tr>
<tr><td>q2</td><td>a2</td></tr>
<tr><td>q3</td><td>a3</td></tr>
</table>`)

	builder := NewBuilder(mhtdoc.NewRegistry(nil, ""), DefaultConfig())
	deck := builder.Build(tbls)

	if len(deck.Cards) != 3 {
		t.Fatalf("cards = %d, want 3", len(deck.Cards))
	}
	if len(builder.Warnings()) != 0 {
		t.Errorf("warnings = %v, want none", builder.Warnings())
	}
	if deck.SkippedRows != 0 {
		t.Errorf("SkippedRows = %d, want 0", deck.SkippedRows)
	}

	first := deck.Cards[0]
	if first.Front != "q1" || first.Back != "a1" {
		t.Errorf("card 0 = %q / %q, want q1 / a1", first.Front, first.Back)
	}
	if first.TableIndex != 0 || first.RowIndex != 0 {
		t.Errorf("card 0 position = (%d, %d), want (0, 0)", first.TableIndex, first.RowIndex)
	}
	if len(deck.Media) != 0 {
		t.Errorf("media = %d, want none for a text-only table", len(deck.Media))
	}
}

func TestBuildTwoTablesOrdered(t *testing.T) {
	tbls := extractTables(t, `
<table><tr><td>t0 q</td><td>t0 a</td></tr><tr><td>t0 q2</td><td>t0 a2</td></tr></table>
<table><tr><td>t1 q</td><td>t1 a</td></tr></table>`)

	deck := NewBuilder(mhtdoc.NewRegistry(nil, ""), DefaultConfig()).Build(tbls)

	want := [][2]int{{0, 0}, {0, 1}, {1, 0}}
	if len(deck.Cards) != len(want) {
		t.Fatalf("cards = %d, want %d", len(deck.Cards), len(want))
	}
	for i, card := range deck.Cards {
		if card.TableIndex != want[i][0] || card.RowIndex != want[i][1] {
			t.Errorf("card %d position = (%d, %d), want (%d, %d)",
				i, card.TableIndex, card.RowIndex, want[i][0], want[i][1])
		}
	}
}

func TestBuildImageCard(t *testing.T) {
	reg := mhtdoc.NewRegistry([]*mhtdoc.Part{
		imagePart("http://example.com/img.png", []byte("PNGDATA")),
	}, "http://example.com/page.html")
	tbls := extractTables(t, `<table><tr>
<td><img src="http://example.com/img.png"></td><td>answer</td>
</tr></table>`)

	builder := NewBuilder(reg, DefaultConfig())
	deck := builder.Build(tbls)

	if len(deck.Cards) != 1 {
		t.Fatalf("cards = %d, want 1", len(deck.Cards))
	}
	if len(builder.Warnings()) != 0 {
		t.Fatalf("warnings = %v, want none", builder.Warnings())
	}
	if !strings.Contains(deck.Cards[0].Front, `src="img.png"`) {
		t.Errorf("front = %q, want src rewritten to the media filename", deck.Cards[0].Front)
	}
	if len(deck.Media) != 1 {
		t.Fatalf("media = %d, want 1", len(deck.Media))
	}
	if deck.Media[0].Filename != "img.png" {
		t.Errorf("media filename = %q, want img.png", deck.Media[0].Filename)
	}
	if !bytes.Equal(deck.Media[0].Data, []byte("PNGDATA")) {
		t.Error("media data should be the part body")
	}
}

func TestBuildCIDImage(t *testing.T) {
	reg := mhtdoc.NewRegistry([]*mhtdoc.Part{
		imagePart("cid:img1", []byte("GIFDATA")),
	}, "")
	tbls := extractTables(t, `<table><tr><td><img src="cid:img1"></td><td>back</td></tr></table>`)

	builder := NewBuilder(reg, DefaultConfig())
	deck := builder.Build(tbls)

	if len(deck.Cards) != 1 || len(deck.Media) != 1 {
		t.Fatalf("cards = %d, media = %d, want 1 and 1", len(deck.Cards), len(deck.Media))
	}
	if len(builder.Warnings()) != 0 {
		t.Errorf("warnings = %v, want none", builder.Warnings())
	}
	if deck.Media[0].Filename != "img1.png" {
		t.Errorf("media filename = %q, want img1.png", deck.Media[0].Filename)
	}
	if !strings.Contains(deck.Cards[0].Front, `src="img1.png"`) {
		t.Errorf("front = %q, want the cid reference rewritten", deck.Cards[0].Front)
	}
}

func TestBuildAudioSource(t *testing.T) {
	reg := mhtdoc.NewRegistry([]*mhtdoc.Part{
		{
			ContentType:     "audio/mpeg",
			MediaType:       "audio/mpeg",
			ContentLocation: "cid:clip1",
			Body:            []byte("MP3DATA"),
		},
	}, "")
	tbls := extractTables(t, `<table><tr>
<td><audio><source src="cid:clip1"></audio></td><td>listen</td>
</tr></table>`)

	builder := NewBuilder(reg, DefaultConfig())
	deck := builder.Build(tbls)

	if len(builder.Warnings()) != 0 {
		t.Fatalf("warnings = %v, want none", builder.Warnings())
	}
	if len(deck.Media) != 1 || deck.Media[0].Filename != "clip1.mp3" {
		t.Fatalf("media = %v, want one clip1.mp3", deck.Media)
	}
	if !strings.Contains(deck.Cards[0].Front, `src="clip1.mp3"`) {
		t.Errorf("front = %q, want the source rewritten", deck.Cards[0].Front)
	}
}

func TestBuildArchiveLink(t *testing.T) {
	reg := mhtdoc.NewRegistry([]*mhtdoc.Part{
		imagePart("cid:diagram", []byte("DATA")),
	}, "")
	tbls := extractTables(t, `<table><tr>
<td><a href="cid:diagram">diagram</a></td><td>back</td>
</tr></table>`)

	builder := NewBuilder(reg, DefaultConfig())
	deck := builder.Build(tbls)

	if len(builder.Warnings()) != 0 {
		t.Fatalf("warnings = %v, want none", builder.Warnings())
	}
	if !strings.Contains(deck.Cards[0].Front, `href="diagram.png"`) {
		t.Errorf("front = %q, want the link rewritten", deck.Cards[0].Front)
	}
	if len(deck.Media) != 1 {
		t.Errorf("media = %d, want 1", len(deck.Media))
	}
}

func TestBuildWebLinkUntouched(t *testing.T) {
	tbls := extractTables(t, `<table><tr>
<td><a href="https://example.com/page">reference</a></td><td>back</td>
</tr></table>`)

	builder := NewBuilder(mhtdoc.NewRegistry(nil, ""), DefaultConfig())
	deck := builder.Build(tbls)

	if len(builder.Warnings()) != 0 {
		t.Errorf("warnings = %v, want none for an ordinary hyperlink", builder.Warnings())
	}
	if !strings.Contains(deck.Cards[0].Front, `href="https://example.com/page"`) {
		t.Errorf("front = %q, want the link untouched", deck.Cards[0].Front)
	}
	if len(deck.Media) != 0 {
		t.Errorf("media = %d, want none", len(deck.Media))
	}
}

func TestBuildUnresolvedReference(t *testing.T) {
	tbls := extractTables(t, `<table><tr>
<td><img src="http://example.com/missing.png"></td><td>back</td>
</tr></table>`)

	builder := NewBuilder(mhtdoc.NewRegistry(nil, ""), DefaultConfig())
	deck := builder.Build(tbls)

	// The card is still emitted with the reference left alone.
	if len(deck.Cards) != 1 {
		t.Fatalf("cards = %d, want 1", len(deck.Cards))
	}
	if !strings.Contains(deck.Cards[0].Front, `src="http://example.com/missing.png"`) {
		t.Errorf("front = %q, want the original reference preserved", deck.Cards[0].Front)
	}
	if len(deck.Media) != 0 {
		t.Errorf("media = %d, want none", len(deck.Media))
	}

	warnings := builder.Warnings()
	if len(warnings) != 1 {
		t.Fatalf("warnings = %v, want exactly one", warnings)
	}
	if warnings[0].Kind != WarningUnresolvedReference {
		t.Errorf("warning kind = %v, want unresolved reference", warnings[0].Kind)
	}
}

func TestBuildUnconvertibleRow(t *testing.T) {
	tbls := extractTables(t, `<table>
<tr><td>q1</td><td>a1</td></tr>
<tr><td>lonely</td></tr>
<tr><td>q3</td><td>a3</td></tr>
</table>`)

	builder := NewBuilder(mhtdoc.NewRegistry(nil, ""), DefaultConfig())
	deck := builder.Build(tbls)

	if len(deck.Cards) != 2 {
		t.Fatalf("cards = %d, want 2", len(deck.Cards))
	}
	if deck.SkippedRows != 1 {
		t.Errorf("SkippedRows = %d, want 1", deck.SkippedRows)
	}
	// Row indexes reflect the source, including the gap.
	if deck.Cards[0].RowIndex != 0 || deck.Cards[1].RowIndex != 2 {
		t.Errorf("row indexes = %d, %d, want 0, 2", deck.Cards[0].RowIndex, deck.Cards[1].RowIndex)
	}

	warnings := builder.Warnings()
	if len(warnings) != 1 || warnings[0].Kind != WarningUnconvertibleRow {
		t.Fatalf("warnings = %v, want one unconvertible row", warnings)
	}
	if warnings[0].RowIndex != 1 {
		t.Errorf("warning row = %d, want 1", warnings[0].RowIndex)
	}
}

func TestBuildExtraCellsIgnored(t *testing.T) {
	tbls := extractTables(t, `<table><tr><td>front</td><td>back</td><td>notes</td><td>more</td></tr></table>`)

	deck := NewBuilder(mhtdoc.NewRegistry(nil, ""), DefaultConfig()).Build(tbls)

	if len(deck.Cards) != 1 {
		t.Fatalf("cards = %d, want 1", len(deck.Cards))
	}
	if deck.Cards[0].Front != "front" || deck.Cards[0].Back != "back" {
		t.Errorf("card = %q / %q, want only the first two cells", deck.Cards[0].Front, deck.Cards[0].Back)
	}
}

func TestBuildMaxTables(t *testing.T) {
	tbls := extractTables(t, `
<table><tr><td>keep q</td><td>keep a</td></tr></table>
<table><tr><td>drop q</td><td>drop a</td></tr></table>`)

	cfg := DefaultConfig()
	cfg.MaxTables = 1
	deck := NewBuilder(mhtdoc.NewRegistry(nil, ""), cfg).Build(tbls)

	if len(deck.Cards) != 1 {
		t.Fatalf("cards = %d, want 1", len(deck.Cards))
	}
	if deck.Cards[0].Front != "keep q" {
		t.Errorf("front = %q, want the first table only", deck.Cards[0].Front)
	}
}

func TestBuildSkipEmptyCells(t *testing.T) {
	doc := `<table><tr><td></td><td>answer</td></tr><tr><td>q</td><td>a</td></tr></table>`

	// Default: blank sides are allowed.
	deck := NewBuilder(mhtdoc.NewRegistry(nil, ""), DefaultConfig()).Build(extractTables(t, doc))
	if len(deck.Cards) != 2 {
		t.Fatalf("cards = %d, want 2 with the default config", len(deck.Cards))
	}
	if deck.Cards[0].Front != "" {
		t.Errorf("front = %q, want empty", deck.Cards[0].Front)
	}

	// Opting in drops the row and counts it, with no warning noise.
	cfg := DefaultConfig()
	cfg.SkipEmptyCells = true
	builder := NewBuilder(mhtdoc.NewRegistry(nil, ""), cfg)
	deck = builder.Build(extractTables(t, doc))

	if len(deck.Cards) != 1 {
		t.Fatalf("cards = %d, want 1 with SkipEmptyCells", len(deck.Cards))
	}
	if deck.SkippedRows != 1 {
		t.Errorf("SkippedRows = %d, want 1", deck.SkippedRows)
	}
	if len(builder.Warnings()) != 0 {
		t.Errorf("warnings = %v, want none for a requested skip", builder.Warnings())
	}
}

func TestBuildMediaDedupe(t *testing.T) {
	reg := mhtdoc.NewRegistry([]*mhtdoc.Part{
		imagePart("http://example.com/shared.png", []byte("DATA")),
	}, "")
	tbls := extractTables(t, `<table>
<tr><td><img src="http://example.com/shared.png"></td><td>a1</td></tr>
<tr><td><img src="http://example.com/shared.png"></td><td>a2</td></tr>
</table>`)

	deck := NewBuilder(reg, DefaultConfig()).Build(tbls)

	if len(deck.Cards) != 2 {
		t.Fatalf("cards = %d, want 2", len(deck.Cards))
	}
	if len(deck.Media) != 1 {
		t.Fatalf("media = %d, want the shared image exported once", len(deck.Media))
	}
	for i, card := range deck.Cards {
		if !strings.Contains(card.Front, `src="shared.png"`) {
			t.Errorf("card %d front = %q, want the shared filename", i, card.Front)
		}
	}
}

func TestBuildNameCollision(t *testing.T) {
	parts := []*mhtdoc.Part{
		imagePart("http://example.com/a/img.png", []byte("A")),
		imagePart("http://example.com/b/img.png", []byte("B")),
	}
	doc := `<table><tr>
<td><img src="http://example.com/a/img.png"></td>
<td><img src="http://example.com/b/img.png"></td>
</tr></table>`

	build := func() *Deck {
		return NewBuilder(mhtdoc.NewRegistry(parts, ""), DefaultConfig()).Build(extractTables(t, doc))
	}

	deck := build()
	if len(deck.Media) != 2 {
		t.Fatalf("media = %d, want 2", len(deck.Media))
	}
	if deck.Media[0].Filename != "img.png" || deck.Media[1].Filename != "img-1.png" {
		t.Errorf("filenames = %q, %q, want img.png, img-1.png",
			deck.Media[0].Filename, deck.Media[1].Filename)
	}

	// Same input, same names: collisions resolve deterministically.
	again := build()
	if again.Media[0].Filename != deck.Media[0].Filename || again.Media[1].Filename != deck.Media[1].Filename {
		t.Error("collision suffixes should not vary between runs")
	}
}

func TestBuildScaleImages(t *testing.T) {
	reg := mhtdoc.NewRegistry([]*mhtdoc.Part{
		imagePart("http://example.com/photo.png", encodePNG(t, 3, 2)),
	}, "")
	tbls := extractTables(t, `<table><tr><td><img src="http://example.com/photo.png"></td><td>back</td></tr></table>`)

	cfg := DefaultConfig()
	cfg.ScaleImages = true
	deck := NewBuilder(reg, cfg).Build(tbls)

	if len(deck.Media) != 1 {
		t.Fatalf("media = %d, want 1", len(deck.Media))
	}
	if deck.Media[0].Width != 3 || deck.Media[0].Height != 2 {
		t.Errorf("dimensions = %dx%d, want 3x2", deck.Media[0].Width, deck.Media[0].Height)
	}
	front := deck.Cards[0].Front
	if !strings.Contains(front, `width="3"`) || !strings.Contains(front, `height="2"`) {
		t.Errorf("front = %q, want width and height attributes", front)
	}
}

type fixedAltText struct {
	text string
}

func (f fixedAltText) AltText(data []byte) (string, error) {
	return f.text, nil
}

func TestBuildAltText(t *testing.T) {
	reg := mhtdoc.NewRegistry([]*mhtdoc.Part{
		imagePart("http://example.com/img.png", []byte("DATA")),
	}, "")
	tbls := extractTables(t, `<table>
<tr><td><img src="http://example.com/img.png"></td><td>a1</td></tr>
<tr><td><img src="http://example.com/img.png" alt="existing"></td><td>a2</td></tr>
</table>`)

	cfg := DefaultConfig()
	cfg.AltText = fixedAltText{text: "recognized text"}
	deck := NewBuilder(reg, cfg).Build(tbls)

	if !strings.Contains(deck.Cards[0].Front, `alt="recognized text"`) {
		t.Errorf("front = %q, want generated alt text", deck.Cards[0].Front)
	}
	if !strings.Contains(deck.Cards[1].Front, `alt="existing"`) {
		t.Errorf("front = %q, want the existing alt text kept", deck.Cards[1].Front)
	}
}

func TestBuildIdempotent(t *testing.T) {
	parts := []*mhtdoc.Part{
		imagePart("http://example.com/img.png", []byte("DATA")),
	}
	doc := `<table>
<tr><td><img src="http://example.com/img.png"></td><td>a1</td></tr>
<tr><td>q2</td><td>a2</td></tr>
</table>`

	first := NewBuilder(mhtdoc.NewRegistry(parts, ""), DefaultConfig()).Build(extractTables(t, doc))
	second := NewBuilder(mhtdoc.NewRegistry(parts, ""), DefaultConfig()).Build(extractTables(t, doc))

	if !reflect.DeepEqual(first.Cards, second.Cards) {
		t.Error("repeated builds should produce identical cards")
	}
	if !reflect.DeepEqual(first.Media, second.Media) {
		t.Error("repeated builds should produce identical media")
	}
}

func TestCardHash(t *testing.T) {
	a := &Card{Front: "question", Back: "answer"}
	b := &Card{Front: "question", Back: "answer", TableIndex: 3, RowIndex: 7}
	if a.Hash() != b.Hash() {
		t.Error("hash should depend on content, not position")
	}

	c := &Card{Front: "question", Back: "different"}
	if a.Hash() == c.Hash() {
		t.Error("different content should hash differently")
	}

	// The sides are hashed separately, not concatenated.
	d := &Card{Front: "questiona", Back: "nswer"}
	if a.Hash() == d.Hash() {
		t.Error("moving the boundary between sides should change the hash")
	}
}
