// Package utils
package utils

import (
	"io"
	"log"
	"os"
	"sync"
)

var (
	logger *log.Logger
	once   sync.Once
)

// GetLogger returns the process-wide logger. It writes to stderr and, when
// OFFERBOT_LOG_FILE is set, to that file as well.
func GetLogger() *log.Logger {
	once.Do(func() {
		var w io.Writer = os.Stderr
		if path := os.Getenv("OFFERBOT_LOG_FILE"); path != "" {
			file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
			if err != nil {
				log.Fatal(err)
			}
			w = io.MultiWriter(os.Stderr, file)
		}
		logger = log.New(w, "Offerbot: ", log.LstdFlags)
	})
	return logger
}
