package config

import (
	"context"
	"fmt"
	"log/slog"

	"go.uber.org/fx"

	"github.com/0xalexb/hjarta-config/reload"
	"github.com/0xalexb/hjarta-config/source"
)

type moduleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Logger    *slog.Logger `optional:"true"`
}

// Module creates an Fx module supplying a loaded *Config. The configuration
// is loaded while the graph is built so that constructors created with
// Provider can depend on it. With WithWatch, file sources are watched between
// OnStart and OnStop and reloaded on change.
//
//nolint:ireturn // fx.Option is the standard return type for Fx modules
func Module(opts ...Option) fx.Option {
	return fx.Module("config",
		fx.Provide(func(params moduleParams) (*Config, error) {
			options := opts
			if params.Logger != nil {
				options = append([]Option{WithLogger(params.Logger)}, opts...)
			}

			cfg := New(options...)

			err := cfg.Load(context.Background())
			if err != nil {
				return nil, err
			}

			if cfg.watch {
				var watcher *reload.FileWatcher

				params.Lifecycle.Append(fx.Hook{
					OnStart: func(ctx context.Context) error {
						started, startErr := cfg.WatchFiles(context.WithoutCancel(ctx))
						if startErr != nil {
							return startErr
						}

						watcher = started

						return nil
					},
					OnStop: func(context.Context) error {
						if watcher == nil {
							return nil
						}

						return watcher.Close()
					},
				})
			}

			return cfg, nil
		}),
	)
}

// WatchFiles starts a FileWatcher reloading every file source of c when its
// file changes. The caller closes the returned watcher.
func (c *Config) WatchFiles(ctx context.Context) (*reload.FileWatcher, error) {
	watcher, err := reload.NewFileWatcher(c.Reload, reload.WithWatcherLogger(c.logger))
	if err != nil {
		return nil, fmt.Errorf("watching configuration files: %w", err)
	}

	for _, src := range c.sources {
		file, ok := src.(*source.File)
		if !ok {
			continue
		}

		err = watcher.Watch(file.Path(), file.ID())
		if err != nil {
			_ = watcher.Close()

			return nil, fmt.Errorf("watching configuration files: %w", err)
		}
	}

	watcher.Start(ctx)

	c.logger.Info("watching configuration files")

	return watcher, nil
}
