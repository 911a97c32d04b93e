// Package logsetup configures the standard logger. Commands import it for
// side effects.
package logsetup

import (
	"log"
	"os"
)

func init() {
	// journald adds its own timestamps
	if os.Getenv("INVOCATION_ID") != "" {
		log.SetFlags(0)
		return
	}
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
}
