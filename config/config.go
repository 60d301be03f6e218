package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/kakkky/lispsole/errs"
)

// Config はREPLの設定。config.yamlから読み込み、コマンドライン引数で上書きされる
type Config struct {
	Prompt             string  `yaml:"prompt"`
	ContinuationPrompt string  `yaml:"continuation_prompt"`
	Style              string  `yaml:"style"`
	Color              bool    `yaml:"color"`
	KeybindMode        string  `yaml:"keybind_mode"`
	MaxSuggestions     uint16  `yaml:"max_suggestions"`
	History            History `yaml:"history"`
	CheckUpdate        bool    `yaml:"check_update"`
	LogFile            string  `yaml:"log_file"`
}

type History struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
	Size    int    `yaml:"size"`
}

const (
	KeybindModeEmacs  = "emacs"
	KeybindModeCommon = "common"
)

// Default は設定ファイルがない場合の設定を返す
func Default() Config {
	return Config{
		Prompt:             "λ: ",
		ContinuationPrompt: "... ",
		Style:              "monokai",
		Color:              true,
		KeybindMode:        KeybindModeEmacs,
		MaxSuggestions:     6,
		History: History{
			Backend: "file",
			Size:    1000,
		},
	}
}

// DefaultPath は<UserConfigDir>/lispsole/config.yamlを返す
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errs.NewInternalError("failed to get user config dir").Wrap(err)
	}
	return filepath.Join(dir, "lispsole", "config.yaml"), nil
}

// Load はpathの設定ファイルを既定値の上に読み込む。ファイルがなければ既定値を返す
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, errs.NewInternalError("failed to read config file").Wrap(err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), errs.NewInternalError("failed to parse config file").Wrap(err)
	}
	if err := cfg.validate(); err != nil {
		return Default(), err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.KeybindMode {
	case KeybindModeEmacs, KeybindModeCommon:
	default:
		return errs.Newf(errs.INTERNAL_ERROR, "unknown keybind_mode %q", c.KeybindMode)
	}
	switch c.History.Backend {
	case "file", "bolt":
	default:
		return errs.Newf(errs.INTERNAL_ERROR, "unknown history backend %q", c.History.Backend)
	}
	if c.History.Size < 0 {
		return errs.Newf(errs.INTERNAL_ERROR, "history size must not be negative: %d", c.History.Size)
	}
	return nil
}
