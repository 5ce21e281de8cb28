package watcher

import (
	"path/filepath"
	"strings"
	"time"
)

// Options configures the drop-folder watcher behavior.
type Options struct {
	// Extensions lists the file extensions to report, lowercase with the
	// leading dot. Defaults to CSV only.
	Extensions []string

	// SettleDelay is how long a file must stay unchanged before it is
	// considered fully written.
	SettleDelay time.Duration
}

// setDefaults applies default values to unset options.
func (o *Options) setDefaults() {
	if o.SettleDelay == 0 {
		o.SettleDelay = 500 * time.Millisecond
	}
	if o.Extensions == nil {
		o.Extensions = []string{".csv"}
	}
}

// shouldIgnore checks if a path is hidden, temporary, or has the wrong extension.
func (o *Options) shouldIgnore(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return true
	}
	for _, pattern := range []string{"*.tmp", "*.temp", "*.part", "*.crdownload"} {
		if matched, err := filepath.Match(pattern, base); err == nil && matched {
			return true
		}
	}

	ext := strings.ToLower(filepath.Ext(base))
	for _, want := range o.Extensions {
		if ext == want {
			return false
		}
	}
	return true
}
