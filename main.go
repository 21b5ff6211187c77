// This file is part of the program "wmlaunchbutton".
// Please see the LICENSE file for copyright information.

package main

import (
	"fmt"
	"io"
	"log"
	"os"
)

var appName = "wmlaunchbutton"

var version = "unknown" // will be changed by build

func main() {
	opt, err := parseCLIOpts(os.Args[1:], io.Discard)
	if err != nil {
		fatalf("%v", err)
	}

	if opt.doLog {
		log.SetOutput(os.Stdout)
	} else {
		log.SetOutput(io.Discard)
	}
	log.Printf("Application starting. Version: %s\n", version)

	conf, err := readConfig(opt.configPath)
	if err != nil {
		fatalf("%v", err)
	}
	if opt.shell != "" {
		conf.Shell = opt.shell
	}

	xs, err := openDisplay()
	if err != nil {
		log.Printf("Couldn't connect to X server: %v\n", err)
		fatalf("could not connect to X server")
	}

	imgs := make([]*buttonImage, 0, len(opt.images))
	for _, file := range opt.images {
		img, err := xs.loadImage(file)
		if err != nil {
			fatalf("could not load image: %v", err)
		}
		imgs = append(imgs, img)
	}

	b, err := newButton(xs, &launcher{shell: conf.Shell, command: opt.command}, imgs...)
	if err != nil {
		fatalf("%v", err)
	}
	if err := xs.setup(b.geometry, conf, os.Args); err != nil {
		fatalf("couldn't set up window: %v", err)
	}

	err = b.run()
	fatalf("%v", err)
}

// fatalf prints a one line diagnostic to stderr and exits with status 1.
func fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	log.Println(msg)
	fmt.Fprintf(os.Stderr, "%s: %s\n", appName, msg)
	os.Exit(1)
}
