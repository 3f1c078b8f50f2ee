package mcp

import (
	"github.com/halentin/FMI-Viewer/internal/mcp/tools"
	"github.com/sirupsen/logrus"
)

// Tool and resource names exposed by the server
const (
	ToolInspect      = "fmi.inspect"
	ToolVariables    = "fmi.variables"
	ToolPlatforms    = "fmi.platforms"
	ResourceCacheURI = "fmi://cache/stats"
)

// NewFMIHandler builds a handler with the FMU tools registered. Archive paths
// are resolved against root. stats may be nil when the cache is disabled.
func NewFMIHandler(inspector tools.Inspector, stats tools.StatsSource, root, version string, logger *logrus.Logger) *Handler {
	h := NewHandler(version, logger)
	h.RegisterTool(ToolInspect, tools.NewInspectTool(inspector, root))
	h.RegisterTool(ToolVariables, tools.NewVariablesTool(inspector, root))
	h.RegisterTool(ToolPlatforms, tools.NewPlatformsTool(inspector, root))
	if stats != nil {
		h.RegisterResource(ResourceCacheURI, tools.NewCacheStatsResource(stats))
	}
	return h
}
