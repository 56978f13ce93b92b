// Package logging holds the root logger shared by every scenequery package.
package logging

import (
	"io"
	"log"
	"os"
	"strconv"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
)

const verboseEnv = "SCENEQUERY_VERBOSE"

var (
	root   logr.Logger
	writer io.Writer = os.Stderr
)

// Log returns the root logger.
func Log() logr.Logger { return root }

// Writer returns the destination of the root logger, for libraries that want an io.Writer.
func Writer() io.Writer { return writer }

func init() { // Env verbosity applies until Init overrides it.
	root = stdr.New(log.New(writer, "scenequery ", log.Ltime))
	if n, err := strconv.Atoi(os.Getenv(verboseEnv)); err == nil {
		stdr.SetVerbosity(n)
	}
}

// Init sets the verbosity of the root logger. Zero keeps the env setting.
func Init(verbosity int) {
	if verbosity != 0 {
		stdr.SetVerbosity(verbosity)
	}
}
