// clubsim runs the club lighting show headless: the automated director
// cycles phases, fixtures animate, and frames stream to any connected
// preview or control clients. MIDI and SPI surfaces attach when
// configured.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"github.com/my-pwa-apps/vrclub/internal/audio"
	"github.com/my-pwa-apps/vrclub/internal/club"
	"github.com/my-pwa-apps/vrclub/internal/config"
	"github.com/my-pwa-apps/vrclub/internal/console"
	"github.com/my-pwa-apps/vrclub/internal/led"
	"github.com/my-pwa-apps/vrclub/internal/server"
)

func main() {
	var (
		cfgPath = flag.String("config", "", "yaml config path (defaults apply when empty)")
		addr    = flag.String("addr", "", "listen address for the control/preview server (overrides config)")
		midi    = flag.String("midi", "", "MIDI input port substring (overrides config)")
		quiet   = flag.Bool("quiet", false, "log warnings and errors only")
		silent  = flag.Bool("no-audio", false, "disable the synthetic beat clock")
	)
	flag.Parse()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if *quiet {
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}

	cfg := config.Default()
	if *cfgPath != "" {
		c, err := config.Load(*cfgPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", *cfgPath).Msg("load config")
		}
		cfg = c
	}
	if *addr != "" {
		cfg.ListenAddr = *addr
	}
	if *midi != "" {
		cfg.MIDIPort = *midi
	}

	bus := console.NewBus()

	var src audio.Source = audio.NewBeatClock(cfg.BPM)
	if *silent {
		src = audio.Silence{}
	}

	c := club.New(cfg, bus, src, log.Logger)

	var srv *server.Server
	if cfg.ListenAddr != "" {
		srv = server.New(bus, log.Logger)
		go func() {
			if err := srv.Run(cfg.ListenAddr); err != nil {
				log.Error().Err(err).Msg("control server stopped")
			}
		}()
	}

	if cfg.MIDIPort != "" {
		mc, err := console.OpenMIDI(cfg.MIDIPort, bus, log.Logger)
		if err != nil {
			log.Warn().Err(err).Msg("MIDI console unavailable")
		} else {
			defer mc.Close()
		}
	}

	var bridge *led.Bridge
	if cfg.SPI.Dev != "" {
		b, err := led.Open(cfg.SPI.Dev, cfg.LEDWall.Rows, cfg.LEDWall.Cols)
		if err != nil {
			log.Warn().Err(err).Msg("LED bridge unavailable")
		} else {
			bridge = b
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		s := <-sig
		log.Info().Str("signal", s.String()).Msg("shutting down")
		cancel()
	}()

	c.Run(ctx, func(fs club.FrameState) {
		if srv != nil {
			srv.Broadcast(fs)
		}
		if bridge != nil {
			if err := bridge.Draw(c.Wall); err != nil {
				log.Debug().Err(err).Msg("LED bridge write")
			}
		}
	})
}
