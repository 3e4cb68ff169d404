// Package main is the fitmix admin command line tool.
package main

import (
	"os"

	log "github.com/sirupsen/logrus"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Debugf("fitmixctl: %s", err)
		os.Exit(1)
	}
}
