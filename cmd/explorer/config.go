package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/mishannn/explore-go/internal/cluster"
	"github.com/mishannn/explore-go/internal/geo"
	"github.com/mishannn/explore-go/internal/location"
)

type Config struct {
	Directory struct {
		ListingsURL   string            `yaml:"listings_url"`
		CategoriesURL string            `yaml:"categories_url"`
		Headers       map[string]string `yaml:"headers"`
		Timeout       time.Duration     `yaml:"timeout"`
	} `yaml:"directory"`
	Language struct {
		Default string   `yaml:"default"`
		Tags    []string `yaml:"tags"`
	} `yaml:"language"`
	Cluster  cluster.Options `yaml:"cluster"`
	Viewport struct {
		LatitudeDelta  float64 `yaml:"latitude_delta"`
		LongitudeDelta float64 `yaml:"longitude_delta"`
	} `yaml:"viewport"`
	Device struct {
		Granted bool             `yaml:"granted"`
		Fix     *geo.Coordinates `yaml:"fix"`
	} `yaml:"device"`
}

func newConfig(configPath string) (*Config, error) {
	config := &Config{}
	config.Cluster = cluster.DefaultOptions()

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("can't open config file: %w", err)
	}
	defer file.Close()

	d := yaml.NewDecoder(file)

	if err := d.Decode(config); err != nil {
		return nil, fmt.Errorf("can't parse config file: %w", err)
	}

	if err := config.applyDefaults(); err != nil {
		return nil, fmt.Errorf("can't validate config: %w", err)
	}

	return config, nil
}

func (c *Config) applyDefaults() error {
	if c.Directory.ListingsURL == "" || c.Directory.CategoriesURL == "" {
		return fmt.Errorf("directory.listings_url and directory.categories_url are required")
	}
	if c.Directory.Timeout <= 0 {
		c.Directory.Timeout = 15 * time.Second
	}

	if c.Language.Default == "" {
		c.Language.Default = "en"
	}
	if len(c.Language.Tags) == 0 {
		c.Language.Tags = []string{"en", "fr", "ar"}
	}

	if c.Viewport.LatitudeDelta <= 0 {
		c.Viewport.LatitudeDelta = location.DefaultLatitudeDelta
	}
	if c.Viewport.LongitudeDelta <= 0 {
		c.Viewport.LongitudeDelta = location.DefaultLongitudeDelta
	}

	if c.Device.Fix != nil && !c.Device.Fix.Valid() {
		return fmt.Errorf("device.fix is out of range: %s", c.Device.Fix)
	}

	return nil
}
