package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileLoggerConfig holds configuration for file logging
type FileLoggerConfig struct {
	// Path is the log file path
	Path string
	// Format is the output format (json or text)
	Format Format
	// Level is the minimum log level
	Level Level
	// MaxSize is the maximum size in bytes before rotation (0 = no rotation)
	MaxSize int64
	// MaxBackups is the maximum number of backup files to keep
	MaxBackups int
}

// FileLogger appends log entries to a file, rotating it once it grows past
// MaxSize.
type FileLogger struct {
	*WriterLogger
	file *rotatingFile
}

// NewFileLogger creates a new file logger
func NewFileLogger(config FileLoggerConfig) (*FileLogger, error) {
	if config.Path == "" {
		return nil, fmt.Errorf("log file path is empty")
	}

	if err := os.MkdirAll(filepath.Dir(config.Path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	rf := &rotatingFile{
		path:       config.Path,
		maxSize:    config.MaxSize,
		maxBackups: config.MaxBackups,
	}
	if err := rf.open(); err != nil {
		return nil, err
	}

	return &FileLogger{
		WriterLogger: NewWriterLogger(rf, config.Format, config.Level),
		file:         rf,
	}, nil
}

// Close closes the log file
func (l *FileLogger) Close() error {
	return l.file.Close()
}

// rotatingFile is an append-only file that renames itself to path.1 when full
type rotatingFile struct {
	path       string
	maxSize    int64
	maxBackups int

	mu   sync.Mutex
	file *os.File
	size int64
}

func (f *rotatingFile) open() error {
	file, err := os.OpenFile(f.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return fmt.Errorf("failed to stat log file: %w", err)
	}

	f.file = file
	f.size = info.Size()
	return nil
}

func (f *rotatingFile) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.file == nil {
		return 0, os.ErrClosed
	}

	if f.maxSize > 0 && f.size > 0 && f.size+int64(len(p)) > f.maxSize {
		if err := f.rotate(); err != nil {
			return 0, err
		}
	}

	n, err := f.file.Write(p)
	f.size += int64(n)
	return n, err
}

func (f *rotatingFile) rotate() error {
	f.file.Close()
	f.file = nil

	if f.maxBackups > 0 {
		os.Remove(fmt.Sprintf("%s.%d", f.path, f.maxBackups))
		for i := f.maxBackups - 1; i >= 1; i-- {
			os.Rename(fmt.Sprintf("%s.%d", f.path, i), fmt.Sprintf("%s.%d", f.path, i+1))
		}
		os.Rename(f.path, f.path+".1")
	} else {
		os.Remove(f.path)
	}

	return f.open()
}

func (f *rotatingFile) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.file == nil {
		return nil
	}
	err := f.file.Close()
	f.file = nil
	return err
}
