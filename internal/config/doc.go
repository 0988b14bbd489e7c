// Package config manages the formdrop user configuration file.
//
// Configuration is stored as YAML in the platform config directory
// (Linux: $XDG_CONFIG_HOME/formdrop, macOS: ~/.config/formdrop,
// Windows: %LOCALAPPDATA%\formdrop). The file holds upload profiles and
// application preferences:
//
//	version: 1
//	profiles:
//	  default:
//	    endpoint: http://nas.local:8640/upload
//	    number_of_files: 3
//	    progressive: true
//	    auto_submit: false
//	    input_name: file
//	    hidden_fields:
//	      - key: album
//	        value: holiday
//	preferences:
//	  auto_discover: true
//	  discover_timeout: 10
//	  default_profile: default
//
// A Profile converts directly into the form controller's configuration
// via Profile.WidgetConfig.
//
// Saves are atomic (write-to-temp then rename) and serialized behind a
// package mutex; LoadRegistry returns a lazily-loaded shared instance.
package config
