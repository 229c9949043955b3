package search

import (
	"github.com/skillsenselab/searchkit/status"
)

// HealthSnapshot is the result of one cluster health poll.
// It is produced fresh on each call and never mutated afterwards.
type HealthSnapshot struct {
	// TimedOut is true when the cluster gave up waiting for the requested
	// status. For a health request scoped to a single index this means the
	// index does not exist yet.
	TimedOut bool `json:"timed_out"`

	// Status is the cluster status for the requested scope. Empty when the
	// cluster is still assembling routing state.
	Status status.Status `json:"status"`

	ClusterName         string `json:"cluster_name"`
	NumberOfNodes       int    `json:"number_of_nodes"`
	ActivePrimaryShards int    `json:"active_primary_shards"`
	RelocatingShards    int    `json:"relocating_shards"`
	InitializingShards  int    `json:"initializing_shards"`
	UnassignedShards    int    `json:"unassigned_shards"`
}

// NodeInfo describes the node answering on the configured address.
type NodeInfo struct {
	Name        string `json:"name"`
	ClusterName string `json:"cluster_name"`
	Version     struct {
		Number string `json:"number"`
	} `json:"version"`
}

// IndexSettings carries the shard layout for index creation.
type IndexSettings struct {
	Shards   int `yaml:"shards" mapstructure:"shards"`
	Replicas int `yaml:"replicas" mapstructure:"replicas"`
}

// body renders the settings as the index-creation request payload.
// Zero values are omitted so the cluster applies its own defaults.
func (s IndexSettings) body() map[string]any {
	settings := map[string]any{}
	if s.Shards > 0 {
		settings["number_of_shards"] = s.Shards
	}
	if s.Replicas > 0 {
		settings["number_of_replicas"] = s.Replicas
	}
	if len(settings) == 0 {
		return nil
	}
	return map[string]any{"settings": settings}
}
