// Package loader turns sources into path/value pairs.
//
// A Loader handles one or more declared formats and owns the lexer used to
// tokenize the paths it produces. The Registry resolves a loader by format:
//
//	registry := loader.Default()
//	ld, err := registry.Resolve(src.Format())
//	if err != nil {
//	    // errors.Is(err, loader.ErrNoLoader)
//	}
//	pairs, err := ld.Load(ctx, src)
//
// Built-in formats: yaml/yml (goccy/go-yaml), json (tidwall/gjson),
// toml (pelletier/go-toml), properties (magiconair/properties), envvars and map.
package loader
