// Command polarchain runs the polarity chain choreography in a terminal
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	billy "gopkg.in/src-d/go-billy.v4"
	"gopkg.in/src-d/go-billy.v4/osfs"

	"github.com/lixenwraith/polarchain/asset"
	"github.com/lixenwraith/polarchain/audio"
	"github.com/lixenwraith/polarchain/core"
	"github.com/lixenwraith/polarchain/engine"
	"github.com/lixenwraith/polarchain/render"
	"github.com/lixenwraith/polarchain/status"
)

const (
	logDir      = "logs"
	logFileName = "polarchain.log"
)

var (
	configFlag = flag.String("config", "", "Path to a TOML scene config")
	shapesFlag = flag.String("shapes", "", "Directory holding shape files (default: built-in shapes)")
	scriptFlag = flag.String("script", "", "Path to a choreography TOML (default: built-in script)")
	debugFlag  = flag.Bool("debug", false, "Write logs to "+filepath.Join(logDir, logFileName))
	soundFlag  = flag.Bool("sound", false, "Play phase cue tones")
	fpsFlag    = flag.Int("fps", 0, "Simulation and render rate (default from config)")
)

// setupLogging routes the standard logger to a file in debug mode, otherwise discards it
// The terminal owns stdout, so logs never go there
func setupLogging(debug bool) *os.File {
	if !debug {
		log.SetOutput(io.Discard)
		return nil
	}
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.SetOutput(io.Discard)
		return nil
	}
	f, err := os.OpenFile(filepath.Join(logDir, logFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.SetOutput(io.Discard)
		return nil
	}
	log.SetOutput(f)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	return f
}

// loadConfig resolves the config file and applies flag overrides
func loadConfig() (*Config, error) {
	conf := DefaultConfig()
	if *configFlag != "" {
		var err error
		if conf, err = ParseConfig(*configFlag); err != nil {
			return nil, err
		}
	}
	if *shapesFlag != "" {
		conf.Shapes = *shapesFlag
	}
	if *scriptFlag != "" {
		conf.Script = *scriptFlag
	}
	if *soundFlag {
		conf.Sound = true
	}
	if *fpsFlag > 0 {
		conf.FPS = *fpsFlag
	}
	return conf, conf.Validate()
}

func shapeFS(conf *Config) (billy.Filesystem, error) {
	if conf.Shapes == "" {
		return asset.ShapeFS()
	}
	if _, err := os.Stat(conf.Shapes); err != nil {
		return nil, fmt.Errorf("shape directory: %w", err)
	}
	return osfs.New(conf.Shapes), nil
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "polarchain: %v\n", err)
	os.Exit(1)
}

// statusLine summarizes phases, gravity and chain activity for the status bar
func statusLine(reg *status.Registry) string {
	parts := []string{reg.Line("fsm."), reg.Line("field."), reg.Line("chain."), "| s:side f:follow q:quit"}
	return " " + strings.Join(parts, " ")
}

func main() {
	flag.Parse()

	if logFile := setupLogging(*debugFlag); logFile != nil {
		defer logFile.Close()
	}

	conf, err := loadConfig()
	if err != nil {
		fatal(err)
	}

	// Resources load before anything starts; any failure aborts here
	fs, err := shapeFS(conf)
	if err != nil {
		fatal(err)
	}
	reg := status.NewRegistry()
	ctx, err := buildScene(conf, fs, reg)
	if err != nil {
		fatal(err)
	}

	if conf.Sound {
		player := audio.NewPlayer()
		player.SetVolume(conf.Volume)
		if err := player.Initialize(); err != nil {
			log.Printf("Audio initialization failed: %v (continuing without audio)", err)
		} else {
			ctx.Cue = player
			defer player.Close()
		}
	}

	interval := time.Second / time.Duration(conf.FPS)
	sched := engine.NewScheduler(ctx, interval, nil)
	if err := sched.LoadScript(conf.Script, asset.DefaultChoreography); err != nil {
		fatal(err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fatal(fmt.Errorf("failed to create screen: %w", err))
	}
	if err := screen.Init(); err != nil {
		fatal(fmt.Errorf("failed to initialize terminal: %w", err))
	}
	// Panic recovery: every goroutine restores the terminal before printing the crash
	core.SetCrashCleanup(screen.Fini)
	defer func() {
		core.HandleCrash(recover())
	}()
	defer screen.Fini()
	screen.EnableMouse()
	screen.HideCursor()

	renderer := render.NewRenderer(screen, render.NewViewport(conf.FPS, conf.World.Width, conf.World.Height))
	input := render.NewInput(renderer.Viewport())

	frameReady := make(chan struct{}, 1)
	sched.SetFrameHandler(func() {
		select {
		case frameReady <- struct{}{}:
		default:
		}
	})
	sched.Start()
	defer sched.Stop()

	eventChan := make(chan tcell.Event, 256)
	core.Go(func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				close(eventChan)
				return
			}
			eventChan <- ev
		}
	})

	var frame render.Frame
	for {
		select {
		case ev, ok := <-eventChan:
			if !ok {
				return
			}
			cmd, simEv, forward := input.Translate(ev)
			switch cmd {
			case render.CommandQuit:
				return
			case render.CommandResize:
				screen.Sync()
				renderer.Resize()
			case render.CommandFollow:
				renderer.Viewport().ToggleFollow()
			}
			if forward {
				sched.Dispatch(simEv)
			}

		case <-frameReady:
			sched.RunSafe(func() {
				frame.Capture(ctx.World, statusLine(reg))
			})
			renderer.Draw(&frame)
		}
	}
}
