package view

import (
	"io"
	"log"
	"os"
)

// debugLog receives per-frame telemetry (partition sizes, light counts,
// scale). It writes to stderr only when VISTA_DEBUG is set; otherwise every
// print is a cheap no-op against io.Discard.
var debugLog = log.New(io.Discard, "", 0)

func init() {
	if os.Getenv("VISTA_DEBUG") != "" {
		debugLog = log.New(os.Stderr, "[view] ", log.Lmsgprefix)
	}
}
