package main

import (
	"context"
	"io"

	"github.com/rs/zerolog"

	"github.com/TwIStOy/external-widget.nvim/internal/config"
	"github.com/TwIStOy/external-widget.nvim/internal/errmsg"
	"github.com/TwIStOy/external-widget.nvim/internal/image"
	"github.com/TwIStOy/external-widget.nvim/internal/logging"
	"github.com/TwIStOy/external-widget.nvim/internal/session"
	"github.com/TwIStOy/external-widget.nvim/internal/term"
)

// globalFlags override the matching configuration keys.
type globalFlags struct {
	tty         string
	multiplexer string
	logLevel    string
}

func (f globalFlags) apply(cfg *config.Config) {
	if f.tty != "" {
		cfg.Terminal.TTY = f.tty
	}
	if f.multiplexer != "" {
		cfg.Terminal.Multiplexer = f.multiplexer
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
}

// app is everything a command needs to draw: configuration, the log, the
// terminal and the session on top of it.
type app struct {
	cfg  *config.Config
	log  zerolog.Logger
	w    *term.Writer
	sess *session.Session

	logFile io.Closer
}

// loadConfig loads the configuration and opens the log.
func loadConfig(flags globalFlags) (*config.Config, zerolog.Logger, io.Closer, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), nil, errmsg.Error(errmsg.OpConfigLoad, err)
	}
	flags.apply(cfg)

	log, closer, err := logging.New(cfg.LogLevel(), cfg.LogFile())
	if err != nil {
		return nil, zerolog.Nop(), nil, errmsg.Error(errmsg.OpLogOpen, err)
	}
	return cfg, log, closer, nil
}

func openApp(ctx context.Context, flags globalFlags) (*app, error) {
	cfg, log, logFile, err := loadConfig(flags)
	if err != nil {
		return nil, err
	}

	mux, err := term.ParseMultiplexer(cfg.Multiplexer())
	if err != nil {
		logFile.Close()
		return nil, errmsg.Error(errmsg.OpConfigLoad, err)
	}

	w, err := term.Open(ctx, term.Options{
		TTY:         cfg.Terminal.TTY,
		Multiplexer: mux,
		Logger:      log,
	})
	if err != nil {
		log.Error().Err(err).Msg("open terminal")
		logFile.Close()
		return nil, errmsg.Error(errmsg.OpTerminalOpen, err)
	}

	images := image.NewManager(
		image.WithSettleDelay(cfg.SettleDelay()),
		image.WithChunkSize(cfg.ChunkSize()),
		image.WithLogger(log),
	)

	return &app{
		cfg:     cfg,
		log:     log,
		w:       w,
		sess:    session.New(w, images, log),
		logFile: logFile,
	}, nil
}

// viewport returns the pixel size of the terminal area starting at the
// 1-based cell (row, col), leaving reserved rows free at the bottom.
func (a *app) viewport(row, col, reserved int) (width, height int, err error) {
	size, err := a.w.Size()
	if err != nil && size.Cols == 0 {
		return 0, 0, errmsg.Error(errmsg.OpTerminalSize, err)
	}
	if err != nil {
		a.log.Warn().Err(err).Msg("assuming default cell size")
	}
	cols := size.Cols - max(col, 1) + 1
	rows := size.Rows - max(row, 1) + 1 - reserved
	width, height = size.CellsToPixels(max(cols, 1), max(rows, 1))
	return width, height, nil
}

func (a *app) Close() error {
	err := a.w.Close()
	a.logFile.Close()
	return err
}
