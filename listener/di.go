package listener

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/0xalexb/hjarta-config/config"
)

// SectionPrefix is the configuration section holding listener settings.
// A listener named "inspect" reads "listener.inspect".
const SectionPrefix = "listener"

type moduleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Config     *config.Config
	Logger     *slog.Logger `optional:"true"`
}

// NewModule creates an Fx module serving the inspection handler of the
// *config.Config in the graph. If any options are passed, they configure the
// listener. Otherwise the settings are read from the "listener.<name>"
// section, falling back to defaults when the section is absent.
//
//nolint:ireturn // fx.Option is the standard return type for Fx modules
func NewModule(name string, opts ...Option) fx.Option {
	if name == "" {
		return fx.Error(ErrEmptyName)
	}

	return fx.Module(name, fx.Invoke(func(params moduleParams) error {
		logger := params.Logger
		if logger == nil {
			logger = slog.Default()
		}

		listenerCfg, err := resolveConfig(params.Config, name, opts)
		if err != nil {
			return err
		}

		listenerCfg.SetDefaults()

		handler := NewHandler(params.Config, logger, listenerCfg.RequestTimeout)

		srv, err := NewServer(name, handler, listenerCfg, logger, func() {
			shutdownErr := params.Shutdowner.Shutdown()
			if shutdownErr != nil {
				logger.Error("failed to trigger shutdown", slog.String("name", name), slog.String("error", shutdownErr.Error()))
			}
		})
		if err != nil {
			return err
		}

		params.Lifecycle.Append(fx.Hook{
			OnStart: srv.Start,
			OnStop:  srv.Stop,
		})

		return nil
	}))
}

func resolveConfig(cfg *config.Config, name string, opts []Option) (Config, error) {
	var listenerCfg Config

	if len(opts) > 0 {
		for _, apply := range opts {
			apply(&listenerCfg)
		}

		return listenerCfg, nil
	}

	fromSection, _, err := config.GetOptional[Config](cfg, SectionPrefix+"."+name)
	if err != nil {
		return Config{}, err
	}

	return fromSection, nil
}
