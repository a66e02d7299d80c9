// Package ports defines the interfaces the host boundary depends on.
// Infrastructure adapters implement these to reach external collaborators
// such as the hive training orchestrator.
package ports
