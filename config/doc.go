// Package config loads layered configuration and serves typed lookups.
//
// A Config reads its sources in order, builds one tree per source, merges the
// trees per tag set (later sources win) and runs post-processing such as
// ${...} substitution over the merged result:
//
//	cfg := config.New(
//	    config.WithSources(
//	        source.NewFile("defaults.yaml"),
//	        source.NewFile("prod.yaml", source.WithTags(tag.MustOf("env", "prod"))),
//	        source.NewEnv([]source.EnvOption{source.WithPrefix("APP", true)}),
//	    ),
//	)
//	if err := cfg.Load(ctx); err != nil {
//	    return err
//	}
//
// # Lookups
//
// Paths use dots for nesting and [N] for array elements, for example
// "db.hosts[0].user". Values are decoded with mapstructure using weak typing
// and the `config` struct tag:
//
//	port, err := config.Get[int](cfg, "http.port")
//	hosts, ok, err := config.GetOptional[[]string](cfg, "db.hosts")
//	timeout := config.GetDefault(cfg, "http.timeout", 5*time.Second)
//
// With config.WithLookupTags a lookup prefers trees registered under the
// most specific matching tag set and falls back to less specific ones.
//
// # Fx
//
// Module supplies a loaded *Config to an Fx application and Provider turns a
// section into a typed, defaulted and validated dependency.
package config
