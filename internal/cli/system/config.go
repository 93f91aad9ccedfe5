package system

import (
	"fmt"

	"github.com/julianstephens/rindful/internal/cli"
	"github.com/julianstephens/rindful/internal/config"
)

type ConfigInitCmd struct {
	Force bool `help:"Overwrite an existing config file."`
}

func (c *ConfigInitCmd) Run(app *cli.Context) error {
	if err := config.Init(app.ConfigPath, app.Config, c.Force); err != nil {
		return err
	}
	app.Printf("✓ Wrote configuration to %s\n", app.ConfigPath)
	return nil
}

type ConfigShowCmd struct{}

func (c *ConfigShowCmd) Run(app *cli.Context) error {
	app.Printf("# %s\n", app.ConfigPath)
	m := &config.Manager{}
	if err := m.Write(app.Out, app.Config); err != nil {
		return fmt.Errorf("failed to show config: %w", err)
	}
	return nil
}
