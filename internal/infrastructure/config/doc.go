// Package config provides configuration loading for volumed.
//
// Configuration comes from three layers, later layers overriding earlier:
//
//  1. Built-in defaults (Default)
//  2. A YAML file (Load)
//  3. VOLUMED_* environment variables
//
// volumed is designed to run with no config file at all — every setting has
// a working default, matching a single-machine deployment where the service
// is pointed at the default audio output and bound to 0.0.0.0:8080.
package config
