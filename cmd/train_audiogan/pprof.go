package main

import "context"
import "os"
import "runtime/pprof"

import "go.uber.org/fx"

// profileFile collects the CPU profile used for profile guided optimization
const profileFile = "default.pgo"

// registerProfile records a CPU profile for the lifetime of the app when -pgo is set
func registerProfile(lc fx.Lifecycle, f flags) {
	if !f.pgo {
		return
	}
	var file *os.File
	lc.Append(fx.Hook{
		OnStart: func(context.Context) (err error) {
			file, err = os.Create(profileFile)
			if err != nil {
				return err
			}
			return pprof.StartCPUProfile(file)
		},
		OnStop: func(context.Context) error {
			pprof.StopCPUProfile()
			return file.Close()
		},
	})
}
