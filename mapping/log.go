package mapping

import (
	"io"
	"log"
)

var logger = log.New(io.Discard, "mapping: ", log.LstdFlags)

// SetLogger directs the package diagnostics, nil silences them. Not safe to
// call while mappings are evaluated.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard, "", 0)
	}
	logger = l
}
