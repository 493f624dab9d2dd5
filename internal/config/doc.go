// Package config provides user preferences for envmatch.
//
// Preferences are stored in a YAML file in the platform configuration
// directory:
//   - Linux: $XDG_CONFIG_HOME/envmatch/config.yaml or $HOME/.config/envmatch/config.yaml
//   - macOS: $HOME/.config/envmatch/config.yaml
//   - Windows: %LOCALAPPDATA%\envmatch\config.yaml
//
// A missing file is not an error; defaults are used. Keys absent from the
// file keep their defaults and out-of-range values are reset.
//
//	prefs, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	ttl := prefs.StatusTTL()
//
// Variable values are never written here.
package config
