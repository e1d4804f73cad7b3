package state

import (
	"time"

	"sheetc/common"
)

// newLocalEnv creates a new LocalEnv instance with default values
func newLocalEnv() *LocalEnv {
	return &LocalEnv{
		start: time.Now(),
		From:  common.SourceFmtAuto,
		To:    common.OutputFmtJson,
	}
}
