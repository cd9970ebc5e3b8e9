package middleware

import (
	"github.com/grafana/pyroscope-go"

	"github.com/duynhne/customer-service/config"
)

var profiler *pyroscope.Profiler

// InitProfiling initializes Pyroscope continuous profiling with
// automatic service detection.
func InitProfiling(cfg *config.Config) error {
	serviceName, namespace := detectServiceInfo()
	if serviceName == unknownService && cfg.Profiling.ServiceName != "" {
		serviceName = cfg.Profiling.ServiceName
	}

	profilerCfg := pyroscope.Config{
		ApplicationName: serviceName,
		ServerAddress:   cfg.Profiling.Endpoint,
		Tags: map[string]string{
			"service":   serviceName,
			"namespace": namespace,
		},
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocObjects,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseObjects,
			pyroscope.ProfileInuseSpace,
			pyroscope.ProfileGoroutines,
		},
		Logger: pyroscope.StandardLogger,
	}

	var err error
	profiler, err = pyroscope.Start(profilerCfg)
	return err
}

// StopProfiling stops Pyroscope profiling
func StopProfiling() {
	if profiler != nil {
		_ = profiler.Stop()
	}
}
