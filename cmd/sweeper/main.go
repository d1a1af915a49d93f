package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"runtime/debug"

	"github.com/gdamore/tcell/v2"

	"termsweeper/console"
	"termsweeper/internal/config"
	"termsweeper/internal/logger"
	"termsweeper/session"
	"termsweeper/sound"
	"termsweeper/tui"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "termsweeper:", err)
		os.Exit(1)
	}
}

// loadConfig は 既定値 < YAML < 環境変数 (.env) < フラグ の順に設定を決めます
func loadConfig(args []string) (config.Config, error) {
	cfg := config.Default()

	fset := flag.NewFlagSet("termsweeper", flag.ContinueOnError)
	configPath := fset.String("config", "", "YAML config file")
	envPath := fset.String("env", ".env", "dotenv file with SWEEPER_* variables")
	rows := fset.Int("rows", 0, "The number of rows in the grid. (default 9)")
	columns := fset.Int("columns", 0, "The number of columns in the grid. (default 9)")
	mines := fset.Int("mines", -1, "The number of mines in the grid. (default 10)")
	fset.IntVar(rows, "r", 0, "shorthand for -rows")
	fset.IntVar(columns, "c", 0, "shorthand for -columns")
	fset.IntVar(mines, "m", -1, "shorthand for -mines")
	seed := fset.Uint64("seed", 0, "random seed (0 = time based)")
	ui := fset.String("ui", "", "user interface: console or tui (default tui)")
	withSound := fset.Bool("sound", false, "play sound effects (tui only)")
	debugLog := fset.Bool("debug", false, "write debug logs to -log")
	logFile := fset.String("log", "", "log file path (default "+logger.DefaultPath+")")
	if err := fset.Parse(args); err != nil {
		return cfg, err
	}

	if *configPath != "" {
		if err := config.LoadFile(&cfg, *configPath); err != nil {
			return cfg, err
		}
	}
	if err := config.LoadEnv(*envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("load %s: %w", *envPath, err)
	}
	if err := config.ApplyEnv(&cfg); err != nil {
		return cfg, err
	}

	// 明示的に指定されたフラグだけで上書きする
	fset.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "rows", "r":
			cfg.Rows = *rows
		case "columns", "c":
			cfg.Columns = *columns
		case "mines", "m":
			cfg.Mines = *mines
		case "seed":
			cfg.Seed = *seed
		case "ui":
			cfg.UI = *ui
		case "sound":
			cfg.Sound = *withSound
		case "debug":
			cfg.Debug = *debugLog
		case "log":
			cfg.LogFile = *logFile
		}
	})

	return cfg, cfg.Validate()
}

func run(args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	closer, err := logger.Setup(cfg.Debug, cfg.LogFile)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}
	log := logger.Get()

	sess, err := session.New(session.Options{
		Rows:    cfg.Rows,
		Columns: cfg.Columns,
		Mines:   cfg.Mines,
		Seed:    cfg.Seed,
	})
	if err != nil {
		return err
	}

	if cfg.UI == config.UIConsole {
		state := console.New(os.Stdin, os.Stdout, os.Stderr).Play(sess)
		log.WithField("state", state.String()).Info("console game finished")
		return nil
	}
	return runTUI(cfg, sess)
}

func runTUI(cfg config.Config, sess *session.Session) error {
	log := logger.Get()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}

	// パニック時も端末を元に戻す
	defer func() {
		if r := recover(); r != nil {
			screen.Fini()
			log.WithField("panic", r).Error("crashed")
			fmt.Fprintf(os.Stderr, "termsweeper crashed: %v\n%s\n", r, debug.Stack())
			os.Exit(1)
		}
		screen.Fini()
	}()

	var player sound.Player = sound.Nop{}
	if cfg.Sound {
		// 音が出せなくてもゲームは続ける
		if sp, err := sound.NewSpeaker(); err != nil {
			log.WithError(err).Warn("audio initialization failed")
		} else {
			player = sp
		}
	}
	defer player.Close()

	tui.New(screen, sess, player).Run()
	log.WithField("state", sess.State().String()).Info("tui game finished")
	return nil
}
