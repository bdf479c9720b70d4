// Package config holds the plugin configuration consumed by the engine, the
// runtime settings of the command line tool and the loader for plugins
// declared in JSON or YAML documents.
package config
