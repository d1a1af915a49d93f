package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

const (
	DefaultPath = "logs/termsweeper.log"
	maxLogSize  = 10 * 1024 * 1024 // 10MB を超えたら .1 に回す
)

var log = newDiscard()

func newDiscard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Get はアプリケーション共通のロガーを返します
func Get() *logrus.Logger {
	return log
}

// Setup はロガーの出力先を決めます
// 端末は画面描画に使うので、debug が false の場合はログを捨てます
// 戻り値の io.Closer は呼び出し側で閉じてください (debug が false なら nil)
func Setup(debug bool, path string) (io.Closer, error) {
	if !debug {
		log.SetOutput(io.Discard)
		log.SetLevel(logrus.InfoLevel)
		return nil, nil
	}
	if path == "" {
		path = DefaultPath
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	if err := rotate(path); err != nil {
		return nil, err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	log.SetOutput(f)
	log.SetLevel(logrus.DebugLevel)
	log.SetFormatter(&logrus.TextFormatter{
		DisableColors: true,
		FullTimestamp: true,
	})
	return f, nil
}

// rotate はログファイルが大きすぎる場合に古いものを .1 に移します
func rotate(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("stat log file: %w", err)
	}
	if info.Size() <= maxLogSize {
		return nil
	}
	if err := os.Rename(path, path+".1"); err != nil {
		return fmt.Errorf("rotate log file: %w", err)
	}
	return nil
}
