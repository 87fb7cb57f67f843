// Package config provides configuration management for the canon CLI.
//
// The configuration file is YAML and is searched for as config.yaml in the
// current directory and then in <ConfigHome>/canon (CANON_CONFIG_DIR
// overrides the latter):
//
//	version: 1
//	store:
//	  path: ~/.local/share/canon/canon.db
//	batch:
//	  workers: 8
//	  metrics_path: /var/lib/node_exporter/canon.prom
//	evaluator:
//	  provider: gemini        # heuristic | gemini
//	  model: gemini-2.5-flash
//	  timeout: 10s
//	  min_content_length: 200
//	  cache_size: 1024
//
// Every key can be set from the environment with the CANON_ prefix and dots
// replaced by underscores, e.g. CANON_EVALUATOR_API_KEY. The API key is never
// read from or written to the YAML file.
//
// Loaded configurations are validated; [Load] returns the first failure.
// [Validate] returns all of them.
package config
