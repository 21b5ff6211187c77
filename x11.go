// This file is part of the program "wmlaunchbutton".
// Please see the LICENSE file for copyright information.

package main

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/shape"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xprop"
)

var errConnectionClosed = errors.New("connection to X server closed")

// xsurface is the button window on an X display.
type xsurface struct {
	xu   *xgbutil.XUtil
	conn *xgb.Conn
	win  xproto.Window

	// events taken off the connection while waiting for a round trip
	queue []xgb.Event
}

func openDisplay() (*xsurface, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, err
	}
	conn := xu.Conn()
	if err := shape.Init(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("SHAPE extension: %w", err)
	}

	win, err := xproto.NewWindowId(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	screen := xu.Screen()
	err = xproto.CreateWindowChecked(conn,
		screen.RootDepth, win, xu.RootWin(),
		0, 0, 1, 1, 0,
		xproto.WindowClassCopyFromParent, screen.RootVisual,
		xproto.CwEventMask,
		[]uint32{xproto.EventMaskEnterWindow | xproto.EventMaskLeaveWindow |
			xproto.EventMaskStructureNotify | xproto.EventMaskButtonPress},
	).Check()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("create window: %w", err)
	}
	log.Printf("Created window 0x%x\n", win)

	return &xsurface{xu: xu, conn: conn, win: win}, nil
}

// setup sizes the window to the button and sets the properties a dock
// needs to swallow it.
func (s *xsurface) setup(size Geometry, conf *config, argv []string) error {
	xproto.ConfigureWindow(s.conn, s.win,
		xproto.ConfigWindowWidth|xproto.ConfigWindowHeight,
		[]uint32{uint32(size.Width), uint32(size.Height)})
	if err := s.sync(); err != nil {
		return fmt.Errorf("resize window: %w", err)
	}

	p := newWMProperties(size, conf, s.win, argv)
	if err := icccm.WmNameSet(s.xu, s.win, p.title); err != nil {
		return err
	}
	if err := icccm.WmIconNameSet(s.xu, s.win, p.title); err != nil {
		return err
	}
	if err := ewmh.WmNameSet(s.xu, s.win, p.title); err != nil {
		return err
	}
	if err := icccm.WmClassSet(s.xu, s.win, &p.class); err != nil {
		return err
	}
	if err := xprop.ChangeProp(s.xu, s.win, 8, "WM_COMMAND", "STRING", p.command); err != nil {
		return err
	}
	if err := icccm.WmNormalHintsSet(s.xu, s.win, &p.normalHints); err != nil {
		return err
	}
	return icccm.WmHintsSet(s.xu, s.win, &p.hints)
}

type wmProperties struct {
	title       string
	class       icccm.WmClass
	command     []byte
	normalHints icccm.NormalHints
	hints       icccm.Hints
}

func newWMProperties(size Geometry, conf *config, win xproto.Window, argv []string) wmProperties {
	w, h := uint(size.Width), uint(size.Height)
	p := wmProperties{
		// window and icon title are the class name
		title: conf.Class,
		class: icccm.WmClass{Instance: conf.Name, Class: conf.Class},
		// WM_COMMAND is a list of NUL terminated strings
		command: []byte(strings.Join(argv, "\x00") + "\x00"),
		normalHints: icccm.NormalHints{
			Flags:     icccm.SizeHintPMinSize | icccm.SizeHintPMaxSize,
			MinWidth:  w,
			MinHeight: h,
			MaxWidth:  w,
			MaxHeight: h,
		},
		hints: icccm.Hints{
			Flags:        icccm.HintState | icccm.HintWindowGroup,
			InitialState: icccm.StateNormal,
			WindowGroup:  win,
		},
	}
	if conf.Withdrawn {
		p.hints.Flags |= icccm.HintIconWindow
		p.hints.InitialState = icccm.StateWithdrawn
		p.hints.IconWindow = win
	}
	return p
}

func (s *xsurface) nextEvent() (event, error) {
	if len(s.queue) > 0 {
		ev := s.queue[0]
		s.queue = s.queue[1:]
		return translateEvent(ev), nil
	}
	ev, xerr := s.conn.WaitForEvent()
	if xerr != nil {
		return event{}, fmt.Errorf("X error: %v", xerr)
	}
	if ev == nil {
		return event{}, errConnectionClosed
	}
	return translateEvent(ev), nil
}

func translateEvent(ev xgb.Event) event {
	switch e := ev.(type) {
	case xproto.EnterNotifyEvent:
		return event{kind: eventEnter, time: uint32(e.Time)}
	case xproto.LeaveNotifyEvent:
		return event{kind: eventLeave, time: uint32(e.Time)}
	case xproto.ButtonPressEvent:
		return event{kind: eventButtonPress, button: byte(e.Detail), time: uint32(e.Time)}
	case xproto.ConfigureNotifyEvent:
		return event{kind: eventConfigure, geometry: Geometry{
			X:      int(e.X),
			Y:      int(e.Y),
			Width:  int(e.Width),
			Height: int(e.Height),
		}}
	}
	return event{kind: eventOther}
}

func (s *xsurface) drainEvents() error {
	if err := s.sync(); err != nil {
		return err
	}
	log.Printf("Discarded %d queued events\n", len(s.queue))
	s.queue = nil
	return nil
}

func (s *xsurface) render(img *buttonImage) error {
	shape.Mask(s.conn, shape.SoSet, shape.SkClip, s.win, 0, 0, img.mask)
	shape.Mask(s.conn, shape.SoSet, shape.SkBounding, s.win, 0, 0, img.mask)
	xproto.ChangeWindowAttributes(s.conn, s.win, xproto.CwBackPixmap, []uint32{uint32(img.pixmap)})
	xproto.ClearArea(s.conn, false, s.win, 0, 0, 0, 0)
	return s.sync()
}

func (s *xsurface) ungrabPointer(t uint32) error {
	xproto.UngrabPointer(s.conn, xproto.Timestamp(t))
	return s.sync()
}

func (s *xsurface) show() error {
	xproto.MapWindow(s.conn, s.win)
	return s.sync()
}

// sync waits until the server has processed every request sent so far.
// Errors of those requests are reported here. xgb stops reading from the
// socket once its event buffer is full, so events are moved to s.queue
// while waiting; otherwise a burst of pointer crossings during a long
// launch would keep the reply from ever being read.
func (s *xsurface) sync() error {
	cookie := xproto.GetInputFocus(s.conn)
	done := make(chan error, 1)
	go func() {
		_, err := cookie.Reply()
		done <- err
	}()

	tick := time.NewTicker(time.Millisecond)
	defer tick.Stop()
	for {
		if err := s.queuePending(); err != nil {
			return err
		}
		select {
		case err := <-done:
			if err != nil {
				return err
			}
			// xgb queues events in order, so everything sent before the
			// reply is in its buffer by now
			return s.queuePending()
		case <-tick.C:
		}
	}
}

func (s *xsurface) queuePending() error {
	for {
		ev, xerr := s.conn.PollForEvent()
		if xerr != nil {
			return fmt.Errorf("X error: %v", xerr)
		}
		if ev == nil {
			return nil
		}
		s.queue = append(s.queue, ev)
	}
}
