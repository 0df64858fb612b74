package hjarta_test

import (
	"errors"
	"fmt"
	"time"

	hjarta "github.com/0xalexb/hjarta-config"
	"github.com/0xalexb/hjarta-config/config"
	"github.com/0xalexb/hjarta-config/source"
	"github.com/0xalexb/hjarta-config/tag"

	"go.uber.org/fx"
)

// ServerConfig represents application server configuration.
// It implements both Defaulter and Validator interfaces from the config package.
type ServerConfig struct {
	Host    string        `config:"host"`
	Port    int           `config:"port"`
	Timeout time.Duration `config:"timeout"`
}

// SetDefaults sets default values for the configuration.
func (c *ServerConfig) SetDefaults() bool {
	changed := false

	if c.Host == "" {
		c.Host = "localhost"
		changed = true
	}

	if c.Port == 0 {
		c.Port = 8080
		changed = true
	}

	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
		changed = true
	}

	return changed
}

// Validate validates the configuration.
func (c *ServerConfig) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return errors.New("port must be between 1 and 65535")
	}

	if c.Timeout <= 0 {
		return errors.New("timeout must be positive")
	}

	return nil
}

// ServerService is a service that depends on config.
type ServerService struct {
	Config *ServerConfig
}

// Address returns the server address from config.
func (s *ServerService) Address() string {
	return fmt.Sprintf("%s:%d", s.Config.Host, s.Config.Port)
}

// Example_appWithConfigIntegration demonstrates how to use App, Options, and Config together.
// A base document is overlaid by a production document, and the "server"
// section is decoded into ServerConfig for the production tags.
func Example_appWithConfigIntegration() {
	prod := tag.MustOf("env", "prod")

	base := source.NewStatic("base", "yaml", []byte("server:\n  host: localhost\n  port: 8080\n"))
	overlay := source.NewStatic("prod", "yaml", []byte("server:\n  host: api.example.com\n  port: 9000\n"),
		source.WithTags(prod))

	serviceModule := fx.Module("service",
		fx.Provide(config.Provider(new(ServerConfig), "server", config.WithLookupTags(prod))),
		fx.Provide(func(cfg *ServerConfig) *ServerService {
			return &ServerService{
				Config: cfg,
			}
		}),
	)

	var service *ServerService

	app := hjarta.NewApp(
		hjarta.WithLogLevel("error"),
		hjarta.WithConfig(config.WithSources(base, overlay)),
		hjarta.WithModules(serviceModule, fx.Invoke(func(s *ServerService) {
			service = s
		})),
	)

	err := app.Start()
	if err != nil {
		fmt.Printf("Error starting app: %v\n", err)

		return
	}

	defer func() { _ = app.Stop() }()

	fmt.Printf("Server address: %s\n", service.Address())
	fmt.Printf("Timeout: %s\n", service.Config.Timeout)
	// Output:
	// Server address: api.example.com:9000
	// Timeout: 30s
}
