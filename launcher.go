// This file is part of the program "wmlaunchbutton".
// Please see the LICENSE file for copyright information.

package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
)

// geometryEnv is the variable the launched command reads the button position from.
const geometryEnv = "BUTTON_GEOMETRY"

var errSpawn = errors.New("couldn't spawn command")

// Geometry is the position and size of the button window on screen.
type Geometry struct {
	X, Y          int
	Width, Height int
}

// String formats g in X geometry notation, e.g. 64x64+100+50 or 64x64-5+10.
func (g Geometry) String() string {
	return fmt.Sprintf("%dx%d%+d%+d", g.Width, g.Height, g.X, g.Y)
}

type commandLauncher interface {
	launch(g Geometry) error
}

type launcher struct {
	shell   string
	command string
}

// launch runs the command through the shell and waits for it to exit.
// The exit status of the command is discarded. A returned error wrapping
// errSpawn means nothing was started; any other error means the child
// could not be waited for.
func (l *launcher) launch(g Geometry) error {
	cmd := exec.Command(l.shell, "-c", l.command)
	cmd.Env = append(os.Environ(), geometryEnv+"="+g.String())
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	log.Printf("Calling: %s (%s=%s)\n", cmd.String(), geometryEnv, g)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: %s: %v", errSpawn, l.command, err)
	}

	// os.Process.Wait retries on EINTR, so an error here is a real failure
	err := cmd.Wait()
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return fmt.Errorf("waitpid: %w", err)
	}
	log.Printf("Command finished: %s\n", cmd.ProcessState)
	return nil
}
