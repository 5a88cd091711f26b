package config

import (
	"github.com/fitpulse/showcase/internal/domain/entities"
	"github.com/fitpulse/showcase/internal/domain/ports"
)

// Merger implements the ConfigMerger interface
type Merger struct{}

// NewMerger creates a new configuration merger
func NewMerger() *Merger {
	return &Merger{}
}

// Merge merges multiple configurations with later configs taking precedence
func (m *Merger) Merge(configs ...*entities.Config) *entities.Config {
	if len(configs) == 0 {
		return GetDefaultConfig()
	}

	result := deepCopy(configs[0])

	for i := 1; i < len(configs); i++ {
		if configs[i] != nil {
			m.mergeInto(result, configs[i])
		}
	}

	return result
}

// ApplyFlags applies CLI flag overrides to a configuration
func (m *Merger) ApplyFlags(config *entities.Config, flags map[string]interface{}) *entities.Config {
	result := deepCopy(config)

	if port, ok := flags["port"].(int); ok && port > 0 {
		result.Server.Port = port
	}

	if host, ok := flags["host"].(string); ok && host != "" {
		result.Server.Host = host
	}

	if noBrowser, ok := flags["no-browser"].(bool); ok && noBrowser {
		result.Browser.AutoOpen = false
	}

	if contentFile, ok := flags["content"].(string); ok && contentFile != "" {
		result.Content.File = contentFile
	}

	if assetsDir, ok := flags["assets"].(string); ok && assetsDir != "" {
		result.Assets.Dir = assetsDir
	}

	if capacity, ok := flags["cache-capacity"].(int); ok && capacity > 0 {
		result.Assets.CacheCapacity = capacity
	}

	if verbose, ok := flags["verbose"].(bool); ok && verbose {
		result.Logging.Verbose = true
	}

	return result
}

// mergeInto merges src into dst, with src taking precedence for set fields.
func (m *Merger) mergeInto(dst, src *entities.Config) {
	if src.Server.Host != "" {
		dst.Server.Host = src.Server.Host
	}
	if src.Server.Port != 0 {
		dst.Server.Port = src.Server.Port
	}
	if src.Server.ReadTimeout != 0 {
		dst.Server.ReadTimeout = src.Server.ReadTimeout
	}
	if src.Server.WriteTimeout != 0 {
		dst.Server.WriteTimeout = src.Server.WriteTimeout
	}
	if src.Server.ShutdownTimeout != 0 {
		dst.Server.ShutdownTimeout = src.Server.ShutdownTimeout
	}
	if src.Server.Environment != "" {
		dst.Server.Environment = src.Server.Environment
	}
	if len(src.Server.CORSOrigins) > 0 {
		dst.Server.CORSOrigins = append([]string(nil), src.Server.CORSOrigins...)
	}

	if src.Assets.Dir != "" {
		dst.Assets.Dir = src.Assets.Dir
	}
	if src.Assets.CacheCapacity != 0 {
		dst.Assets.CacheCapacity = src.Assets.CacheCapacity
	}
	if src.Assets.GraphPath != "" {
		dst.Assets.GraphPath = src.Assets.GraphPath
	}
	if src.Assets.GoalpostPath != "" {
		dst.Assets.GoalpostPath = src.Assets.GoalpostPath
	}
	if src.Assets.TrophyPath != "" {
		dst.Assets.TrophyPath = src.Assets.TrophyPath
	}

	if src.Content.File != "" {
		dst.Content.File = src.Content.File
	}

	if src.Watcher.IntervalMs != 0 {
		dst.Watcher.IntervalMs = src.Watcher.IntervalMs
	}
	if src.Watcher.DebounceMs != 0 {
		dst.Watcher.DebounceMs = src.Watcher.DebounceMs
	}

	if src.Browser.Browser != "" {
		dst.Browser.Browser = src.Browser.Browser
	}
	dst.Browser.AutoOpen = src.Browser.AutoOpen

	if src.Logging.Level != "" {
		dst.Logging.Level = src.Logging.Level
	}
	if src.Logging.Verbose {
		dst.Logging.Verbose = true
	}
}

// deepCopy copies a configuration, including its slices.
func deepCopy(src *entities.Config) *entities.Config {
	if src == nil {
		return GetDefaultConfig()
	}

	dst := *src
	dst.Server.CORSOrigins = append([]string(nil), src.Server.CORSOrigins...)
	return &dst
}

// Ensure Merger implements ConfigMerger
var _ ports.ConfigMerger = (*Merger)(nil)
