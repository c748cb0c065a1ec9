// Package config loads runtime settings for the waffle CLI.
//
// Values are layered, lowest precedence first: built-in defaults, an
// optional YAML file (waffle.yaml in the working directory, or the file
// named by --config), WAFFLE_* environment variables, then command-line
// flags. Nested keys map to environment variables with dots replaced by
// underscores, so run.workers is WAFFLE_RUN_WORKERS.
package config
