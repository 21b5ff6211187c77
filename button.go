// This file is part of the program "wmlaunchbutton".
// Please see the LICENSE file for copyright information.

package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/BurntSushi/xgb/xproto"
)

type buttonState int

const (
	stateInactive buttonState = iota
	stateHovered
	stateActive
	numStates
)

func (s buttonState) String() string {
	switch s {
	case stateInactive:
		return "inactive"
	case stateHovered:
		return "hovered"
	case stateActive:
		return "active"
	}
	return fmt.Sprintf("buttonState(%d)", int(s))
}

// primaryButton is X11's Button1.
const primaryButton = 1

var errSizeMismatch = errors.New("images with different sizes")

// buttonImage is an uploaded image and its shape mask. It is never modified
// after loading, so several states may point at the same one.
type buttonImage struct {
	pixmap xproto.Pixmap
	mask   xproto.Pixmap
	width  int
	height int
}

type buttonImages [numStates]*buttonImage

// newButtonImages assigns images to states in the order inactive, hovered,
// active. A state without its own image reuses the one of the state before.
func newButtonImages(imgs ...*buttonImage) (buttonImages, error) {
	var set buttonImages
	if len(imgs) < 1 || len(imgs) > int(numStates) {
		return set, fmt.Errorf("need 1 to %d images, got %d", numStates, len(imgs))
	}
	for s := stateInactive; s < numStates; s++ {
		if int(s) >= len(imgs) {
			set[s] = set[s-1]
			continue
		}
		img := imgs[s]
		if s > stateInactive && (img.width != set[s-1].width || img.height != set[s-1].height) {
			return set, fmt.Errorf("%w: %s is %dx%d, %s is %dx%d", errSizeMismatch,
				s, img.width, img.height, s-1, set[s-1].width, set[s-1].height)
		}
		set[s] = img
	}
	return set, nil
}

type eventKind int

const (
	eventOther eventKind = iota
	eventEnter
	eventLeave
	eventButtonPress
	eventConfigure
)

type event struct {
	kind     eventKind
	button   byte
	time     uint32
	geometry Geometry // only for eventConfigure
}

// surface is the window the button lives in.
type surface interface {
	nextEvent() (event, error)
	// drainEvents discards every event that is already queued.
	drainEvents() error
	render(img *buttonImage) error
	ungrabPointer(t uint32) error
	show() error
}

type button struct {
	surface  surface
	launcher commandLauncher
	images   buttonImages
	state    buttonState
	geometry Geometry
}

func newButton(s surface, l commandLauncher, imgs ...*buttonImage) (*button, error) {
	images, err := newButtonImages(imgs...)
	if err != nil {
		return nil, err
	}
	return &button{
		surface:  s,
		launcher: l,
		images:   images,
		state:    stateInactive,
		geometry: Geometry{
			Width:  images[stateInactive].width,
			Height: images[stateInactive].height,
		},
	}, nil
}

// run shows the button and processes events until the surface fails.
// It never returns nil: the button runs until the process is killed.
func (b *button) run() error {
	if err := b.setState(stateInactive); err != nil {
		return err
	}
	if err := b.surface.show(); err != nil {
		return fmt.Errorf("map window: %w", err)
	}
	for {
		ev, err := b.surface.nextEvent()
		if err != nil {
			return err
		}
		if err := b.handle(ev); err != nil {
			return err
		}
	}
}

func (b *button) handle(ev event) error {
	switch ev.kind {
	case eventEnter:
		return b.setState(stateHovered)
	case eventLeave:
		return b.setState(stateInactive)
	case eventButtonPress:
		if ev.button != primaryButton {
			return nil
		}
		return b.click(ev.time)
	case eventConfigure:
		b.geometry = ev.geometry
		log.Printf("Geometry changed: %s\n", b.geometry)
	}
	return nil
}

func (b *button) click(t uint32) error {
	if err := b.surface.ungrabPointer(t); err != nil {
		return fmt.Errorf("ungrab pointer: %w", err)
	}
	if err := b.setState(stateActive); err != nil {
		return err
	}
	if err := b.launcher.launch(b.geometry); err != nil {
		if !errors.Is(err, errSpawn) {
			return err
		}
		log.Printf("Launch failed: %v\n", err)
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
	}
	if err := b.setState(stateInactive); err != nil {
		return err
	}
	// pointer motion while the command ran must not flicker the button
	if err := b.surface.drainEvents(); err != nil {
		return fmt.Errorf("drain events: %w", err)
	}
	return nil
}

func (b *button) setState(s buttonState) error {
	if err := b.surface.render(b.images[s]); err != nil {
		return fmt.Errorf("render %s: %w", s, err)
	}
	b.state = s
	return nil
}
