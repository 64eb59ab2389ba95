package main

import (
	"flag"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/ovcarj/appeer/internal/config"
)

func runConfig(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("config: expected a subcommand (print|init)")
	}
	switch args[0] {
	case "print":
		return runConfigPrint(args[1:])
	case "init":
		return runConfigInit(args[1:])
	default:
		return fmt.Errorf("config: unknown subcommand %q", args[0])
	}
}

func runConfigPrint(args []string) error {
	fs := flag.NewFlagSet("config print", flag.ExitOnError)
	g := &globalFlags{}
	bindGlobalFlags(fs, g)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := g.load()
	if err != nil {
		return err
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	fmt.Print(string(data))
	return nil
}

func runConfigInit(args []string) error {
	fs := flag.NewFlagSet("config init", flag.ExitOnError)
	path := fs.String("path", "", "config file path (defaults to the platform config dir)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	target := *path
	if target == "" {
		target = config.DefaultConfigPath()
	}
	if err := config.WriteDefault(target); err != nil {
		return err
	}
	fmt.Printf("wrote default configuration to %s\n", target)
	return nil
}
