package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var ErrInvalid = errors.New("invalid config")

const (
	UIConsole = "console"
	UITUI     = "tui"
)

// 環境変数名
const (
	envRows    = "SWEEPER_ROWS"
	envColumns = "SWEEPER_COLUMNS"
	envMines   = "SWEEPER_MINES"
	envSeed    = "SWEEPER_SEED"
	envUI      = "SWEEPER_UI"
	envSound   = "SWEEPER_SOUND"
	envDebug   = "SWEEPER_DEBUG"
	envLogFile = "SWEEPER_LOG_FILE"
)

type Config struct {
	Rows    int    `yaml:"rows"`
	Columns int    `yaml:"columns"`
	Mines   int    `yaml:"mines"`
	Seed    uint64 `yaml:"seed"`
	UI      string `yaml:"ui"`
	Sound   bool   `yaml:"sound"`
	Debug   bool   `yaml:"debug"`
	LogFile string `yaml:"log_file"`
}

// Default は初級 (9x9, 地雷10個) の設定を返します
func Default() Config {
	return Config{
		Rows:    9,
		Columns: 9,
		Mines:   10,
		UI:      UITUI,
	}
}

// LoadFile は YAML ファイルを読み込み、書かれていない項目は cfg の値を残します
func LoadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// LoadEnv は .env ファイルを読み込みます (既にある環境変数は上書きしません)
func LoadEnv(path string) error {
	return godotenv.Load(path)
}

// ApplyEnv は SWEEPER_* 環境変数で設定を上書きします
func ApplyEnv(cfg *Config) error {
	ints := []struct {
		name string
		dst  *int
	}{
		{envRows, &cfg.Rows},
		{envColumns, &cfg.Columns},
		{envMines, &cfg.Mines},
	}
	for _, e := range ints {
		v, ok := os.LookupEnv(e.name)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s=%q: %w", e.name, v, ErrInvalid)
		}
		*e.dst = n
	}

	if v, ok := os.LookupEnv(envSeed); ok {
		n, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return fmt.Errorf("%s=%q: %w", envSeed, v, ErrInvalid)
		}
		cfg.Seed = n
	}

	bools := []struct {
		name string
		dst  *bool
	}{
		{envSound, &cfg.Sound},
		{envDebug, &cfg.Debug},
	}
	for _, e := range bools {
		v, ok := os.LookupEnv(e.name)
		if !ok {
			continue
		}
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s=%q: %w", e.name, v, ErrInvalid)
		}
		*e.dst = b
	}

	if v, ok := os.LookupEnv(envUI); ok {
		cfg.UI = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := os.LookupEnv(envLogFile); ok {
		cfg.LogFile = v
	}
	return nil
}

// Validate は盤面を作る前に設定をチェックします
func (c Config) Validate() error {
	if c.Rows <= 0 || c.Columns <= 0 {
		return fmt.Errorf("rows and columns must be positive (got %dx%d): %w", c.Rows, c.Columns, ErrInvalid)
	}
	if c.Mines < 0 {
		return fmt.Errorf("mines must not be negative (got %d): %w", c.Mines, ErrInvalid)
	}
	if c.Mines > c.Rows*c.Columns {
		return fmt.Errorf("number of mines must be less than the total number of tiles (%d > %d): %w",
			c.Mines, c.Rows*c.Columns, ErrInvalid)
	}
	switch c.UI {
	case UIConsole, UITUI:
	default:
		return fmt.Errorf("unknown ui %q: %w", c.UI, ErrInvalid)
	}
	return nil
}
