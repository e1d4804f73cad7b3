package importer

import (
	"sheetc/common"
	"sheetc/sheet"
)

// DefaultSpacerHeight is used for spacer blocks when no height is set.
const DefaultSpacerHeight = 24

// Chunk inserts break or spacer blocks after every limit counting blocks.
// Counting blocks are rich blocks which are neither answers nor gray
// background blocks. An explicit break or spacer restarts the count, nothing
// is inserted after the last block.
func Chunk(blocks []*sheet.Block, limit int, mode common.ChunkMode, spacerHeight float64) []*sheet.Block {
	if limit <= 0 || mode == common.ChunkModeNone || len(blocks) == 0 {
		return blocks
	}
	if mode == "" {
		mode = common.ChunkModeBreak
	}
	if spacerHeight <= 0 {
		spacerHeight = DefaultSpacerHeight
	}

	res := make([]*sheet.Block, 0, len(blocks)+len(blocks)/limit)
	count := 0
	for i, b := range blocks {
		res = append(res, b)
		if !b.Type.Rich() {
			count = 0
			continue
		}
		if !b.Counting() {
			continue
		}
		count++
		if count < limit || i == len(blocks)-1 {
			continue
		}
		if next := blocks[i+1]; !next.Type.Rich() {
			continue
		}
		count = 0
		if mode == common.ChunkModeSpacer {
			sp := sheet.NewBlock(common.BlockTypeSpacer, "")
			sp.Height = spacerHeight
			res = append(res, sp)
		} else {
			res = append(res, sheet.NewBlock(common.BlockTypeBreak, ""))
		}
	}
	return res
}
