package state

import (
	"time"

	"qstools/config"
)

// newLocalEnv creates environment with built-in configuration, so actions
// could be invoked before (or without) configuration file processing.
func newLocalEnv() *LocalEnv {
	env := &LocalEnv{start: time.Now()}
	if cfg, err := config.LoadConfiguration(""); err == nil {
		env.Cfg = cfg
	}
	return env
}
