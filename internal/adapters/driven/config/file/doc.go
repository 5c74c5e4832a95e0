// Package file keeps the delight settings in ~/.delight/config.toml.
//
// ConfigStore reads and writes the file. Watch reloads it when it is
// edited by hand while the app is running.
package file
