package catalog

import (
	"github.com/taskorch/taskorch/internal/application/orchestrator"
)

// Register installs the built-in agent set into the registry. It is
// called once from main during bootstrap; agents are never registered
// dynamically after startup.
//
// The handlers are placeholders that report what the agent would do;
// the orchestrator treats them as opaque work units either way.
func Register(registry *orchestrator.Registry) {
	registry.Register("orchestration_core", func() (any, error) {
		return map[string]any{
			"task":    "orchestration",
			"status":  "completed",
			"actions": []string{"workflow_orchestrated", "agents_prioritized", "resources_allocated"},
		}, nil
	}, nil)

	registry.Register("onpage_audit", func() (any, error) {
		return map[string]any{
			"task":    "onpage_audit",
			"status":  "completed",
			"actions": []string{"meta_tags_optimized", "headers_checked", "content_analyzed"},
		}, nil
	}, nil)

	registry.Register("offpage_audit", func() (any, error) {
		return map[string]any{
			"task":    "offpage_audit",
			"status":  "completed",
			"actions": []string{"backlinks_analyzed", "social_signals_checked"},
		}, nil
	}, []string{"onpage_audit"})

	registry.Register("technical_audit", func() (any, error) {
		return map[string]any{
			"task":    "technical_audit",
			"status":  "completed",
			"actions": []string{"site_speed_analyzed", "mobile_friendliness_checked"},
		}, nil
	}, nil)

	registry.Register("local_audit", func() (any, error) {
		return map[string]any{
			"task":    "local_audit",
			"status":  "completed",
			"actions": []string{"business_profile_optimized", "local_citations_updated"},
		}, nil
	}, []string{"technical_audit"})
}

// Phases returns the fixed phase table: each phase names the agents it
// executes, in order. Members missing from the registry are skipped at
// execution time.
func Phases() map[string][]string {
	return map[string][]string{
		"foundation": {"orchestration_core", "technical_audit"},
		"audit":      {"onpage_audit", "offpage_audit"},
		"outreach":   {"local_audit"},
	}
}
