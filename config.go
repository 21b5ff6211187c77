// This file is part of the program "wmlaunchbutton".
// Please see the LICENSE file for copyright information.

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type config struct {
	Shell     string
	Class     string
	Name      string
	Withdrawn bool
}

const configFile = "config.toml"

func defaultConfig() config {
	return config{
		Shell:     "sh",
		Class:     "WMLaunchButton",
		Name:      "wmlaunchbutton",
		Withdrawn: true,
	}
}

// readConfig reads the settings file. With an empty path the file in the
// config directory is used if there is one; an explicitly named file must
// exist. The file is never written.
func readConfig(path string) (*config, error) {
	conf := defaultConfig()

	explicit := path != ""
	if !explicit {
		path = filepath.Join(configDir(), configFile)
	}
	if _, err := os.Stat(path); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("couldn't open config file: %w", err)
		}
		log.Printf("No config file at %s, using defaults\n", path)
		return &conf, nil
	}

	md, err := toml.DecodeFile(path, &conf)
	if err != nil {
		return nil, fmt.Errorf("couldn't read config file: %w", err)
	}
	for _, key := range md.Undecoded() {
		log.Printf("Ignoring unknown config key '%s' in %s\n", key, path)
	}
	log.Printf("Read config from %s: %+v\n", path, conf)
	return &conf, nil
}

// configDir is $XDG_CONFIG_HOME/wmlaunchbutton, or ~/.config/wmlaunchbutton
// when that variable is unset or names no directory.
func configDir() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if fi, err := os.Stat(base); base == "" || err != nil || !fi.IsDir() {
		log.Printf("$XDG_CONFIG_HOME unusable ('%s'), using ~/.config\n", base)
		base = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(base, appName)
}
