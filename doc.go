// Package hjarta bootstraps an Fx application around a layered configuration:
// a slog logger, the config module loading every source, and optional HTTP
// inspection listeners.
//
//	app := hjarta.NewApp(
//		hjarta.WithConfig(config.WithSources(source.NewFile("config.yaml"))),
//		hjarta.WithInspection("inspect", listener.WithAddress(":8081")),
//	)
//	app.Run()
package hjarta
