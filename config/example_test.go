package config_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/0xalexb/hjarta-config/config"
	"github.com/0xalexb/hjarta-config/source"
	"github.com/0xalexb/hjarta-config/tag"
)

// AppConfig represents application configuration.
type AppConfig struct {
	Host string `config:"host"`
	Port int    `config:"port"`
}

// SetDefaults sets default values for the configuration.
func (c *AppConfig) SetDefaults() bool {
	changed := false

	if c.Host == "" {
		c.Host = "localhost"
		changed = true
	}

	if c.Port == 0 {
		c.Port = 8080
		changed = true
	}

	return changed
}

// Validate validates the configuration.
func (c *AppConfig) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return errors.New("port must be between 1 and 65535")
	}

	return nil
}

func ExampleProvider() {
	cfg := config.New(config.WithSources(
		source.NewStatic("defaults", "yaml", []byte("app:\n  host: example.com\n")),
	))

	err := cfg.Load(context.Background())
	if err != nil {
		fmt.Printf("Error: %v\n", err)

		return
	}

	// For file-based configuration, use source.NewFile(path) instead.
	result, err := config.Provider(&AppConfig{}, "app")(cfg)
	if err != nil {
		fmt.Printf("Error: %v\n", err)

		return
	}

	fmt.Printf("Host: %s, Port: %d\n", result.Host, result.Port)
	// Output: Host: example.com, Port: 8080
}

func ExampleGet() {
	prod := tag.MustOf("env", "prod")

	cfg := config.New(config.WithSources(
		source.NewStatic("source1", "yaml", []byte("a: a\nb: b\n")),
		source.NewStatic("source2", "yaml", []byte("b: b changed\nc: c\n")),
		source.NewMap("prod", map[string]string{"c": "c prod"}, source.WithTags(prod)),
	))

	err := cfg.Load(context.Background())
	if err != nil {
		fmt.Println(err)

		return
	}

	for _, path := range []string{"a", "b", "c"} {
		value, _ := config.Get[string](cfg, path)
		fmt.Printf("%s=%s\n", path, value)
	}

	value, _ := config.Get[string](cfg, "c", config.WithLookupTags(prod))
	fmt.Printf("c (prod)=%s\n", value)

	// Output:
	// a=a
	// b=b changed
	// c=c
	// c (prod)=c prod
}

func ExampleLoadError() {
	cfg := config.New(config.WithSources(
		source.NewMap("broken", map[string]string{"a": "leaf", "a.b": "nested"}),
	))

	err := cfg.Load(context.Background())
	fmt.Println(errors.Is(err, config.ErrLoadFailed))
	fmt.Println(err)

	// Output:
	// true
	// configuration load failed:
	//  - level: ERROR, message: path "a" is used both as a leaf and as a container, entry "a.b" ignored (source: broken)
}
