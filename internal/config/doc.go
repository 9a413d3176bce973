// Package config provides configuration management for tmsync.
//
// Configuration is loaded from YAML files and merged in a fixed order, with
// later sources overriding earlier ones:
//
//  1. Default configuration (compiled in)
//  2. User configuration (~/.config/tmsync/config.yaml)
//  3. Project configuration (./.tmsync/config.yaml)
//  4. An explicit file passed with --config
//  5. TMSYNC_URL, TMSYNC_USER and TMSYNC_API_KEY environment variables
//
// # Configuration Structure
//
//	testrail:
//	  url: "https://example.testrail.io/"
//	  user: "qa-bot@example.com"
//	  apiKey: "${TESTRAIL_API_KEY}"
//	  timeout: 60s
//	  templateId: 2
//	project:
//	  id: "7"
//	mapping:
//	  path: "~/.tmsync/mapping.yaml"
//	sync:
//	  persistIncrementally: false
//	  sectionName: ""
//
// # Environment Variable Expansion
//
// String values support environment variable expansion:
//
//	apiKey: "${MY_API_KEY}"
//	url: "${TESTRAIL_URL:-https://localhost/}"
//
// Missing remote credentials are reported as a ConfigurationError by
// Config.Validate.
package config
