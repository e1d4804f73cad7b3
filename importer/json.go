package importer

import (
	"bytes"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"sheetc/common"
	"sheetc/markup"
	"sheetc/sheet"
)

// jsonItem is lenient form of a block accepted in JSON block arrays.
type jsonItem struct {
	Type       string  `json:"type"`
	Content    string  `json:"content"`
	Label      string  `json:"label"`
	Bordered   bool    `json:"bordered"`
	BgGray     bool    `json:"bgGray"`
	FontFamily string  `json:"fontFamily"`
	FontSizePt float64 `json:"fontSizePt"`
	Height     float64 `json:"height"`
	Variant    string  `json:"variant"`
	Style      *struct {
		TextAlign string `json:"textAlign"`
	} `json:"style"`
}

func malformed(err error) error {
	return fmt.Errorf("unable to import document: %w (%v)", ErrMalformedJSON, err)
}

// ImportJSON accepts either a persisted document object {meta, blocks,
// settings} or an array of {type, content} objects.
func ImportJSON(data []byte, opts Options) (*sheet.Document, *sheet.Settings, error) {
	log := opts.logger()

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil, malformed(fmt.Errorf("empty input"))
	}
	switch trimmed[0] {
	case '{':
		doc, settings, err := sheet.Decode(bytes.NewReader(trimmed))
		if err != nil {
			return nil, nil, malformed(err)
		}
		return doc, settings, nil
	case '[':
	default:
		return nil, nil, malformed(fmt.Errorf("unexpected character %q", trimmed[0]))
	}

	var items []jsonItem
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, nil, malformed(err)
	}
	doc := &sheet.Document{Meta: sheet.Meta{Zoom: 1}}
	for i, it := range items {
		doc.Blocks = append(doc.Blocks, itemBlock(i, &it, log))
	}
	if len(doc.Blocks) == 0 {
		doc.Blocks = append(doc.Blocks, sheet.NewBlock(common.BlockTypeExample, ""))
	}
	doc.Blocks = opts.chunk(doc.Blocks)
	doc.TOC = doc.BuildTOC()
	log.Debug("JSON imported", zap.Int("blocks", len(doc.Blocks)))
	return doc, nil, nil
}

func itemBlock(i int, it *jsonItem, log *zap.Logger) *sheet.Block {
	typ, err := common.ParseBlockType(it.Type)
	if err != nil {
		if it.Type != "" {
			log.Debug("Unknown block type, using example", zap.Int("item", i), zap.String("type", it.Type))
		}
		typ = common.BlockTypeExample
	}
	b := sheet.NewBlock(typ, "")
	if !typ.Rich() {
		if typ == common.BlockTypeSpacer {
			b.Height = it.Height
			if b.Height <= 0 {
				b.Height = DefaultSpacerHeight
			}
		}
		return b
	}
	b.Label = it.Label
	b.Bordered = it.Bordered
	b.BgGray = it.BgGray
	b.FontFamily = it.FontFamily
	b.FontSizePt = it.FontSizePt
	if v, err := common.ParseVariant(it.Variant); err == nil {
		b.Variant = v
	} else if it.Variant != "" {
		log.Debug("Ignoring unknown variant", zap.Int("item", i), zap.String("variant", it.Variant))
	}
	if it.Style != nil {
		if a, err := common.ParseTextAlign(it.Style.TextAlign); err == nil {
			b.Style = &sheet.Style{TextAlign: a}
		}
	}
	b.Content = markup.Serialize(markup.Parse(normalizeText(it.Content), markup.Options{
		RectBoxes: typ == common.BlockTypeConcept,
		Log:       log,
	}))
	return b
}
