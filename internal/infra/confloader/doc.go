// Package confloader loads layered configuration with koanf.
//
// Sources, lowest to highest priority:
//
//  1. defaults already present in the target struct
//  2. a YAML file
//  3. DESKSHARE_ environment variables (DESKSHARE_STREAM__SEND_QUEUE)
//  4. overrides, usually from CLI flags
//
// Watcher reports edits to the config file through fsnotify so that
// reloadable settings can be applied without a restart.
package confloader
