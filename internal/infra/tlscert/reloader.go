package tlscert

import (
	"crypto/tls"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/yndnr/deskshare-go/internal/infra/confloader"
)

// DefaultDebounce coalesces the burst of events a certificate renewal
// produces (cert and key are usually rewritten back to back).
const DefaultDebounce = 500 * time.Millisecond

// Reloader holds the current key pair and swaps it when the files change.
type Reloader struct {
	certFile string
	keyFile  string
	logger   *slog.Logger
	debounce time.Duration

	mu      sync.RWMutex
	cert    *tls.Certificate
	watcher *confloader.Watcher
}

// Option configures a Reloader.
type Option func(*Reloader)

// WithLogger sets the logger for the reloader.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reloader) {
		r.logger = logger
	}
}

// WithDebounce sets the debounce duration.
func WithDebounce(d time.Duration) Option {
	return func(r *Reloader) {
		r.debounce = d
	}
}

// New loads the key pair. A pair that does not load is a startup error.
func New(certFile, keyFile string, opts ...Option) (*Reloader, error) {
	r := &Reloader{
		certFile: certFile,
		keyFile:  keyFile,
		logger:   slog.Default(),
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(r)
	}

	if err := r.reload(); err != nil {
		return nil, fmt.Errorf("tlscert: initial load: %w", err)
	}
	return r, nil
}

// TLSConfig returns a server config that always presents the current
// certificate.
func (r *Reloader) TLSConfig() *tls.Config {
	return &tls.Config{
		MinVersion:     tls.VersionTLS12,
		GetCertificate: r.GetCertificate,
	}
}

// GetCertificate implements tls.Config.GetCertificate.
func (r *Reloader) GetCertificate(*tls.ClientHelloInfo) (*tls.Certificate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cert, nil
}

// Watch starts reloading on file changes in the background.
func (r *Reloader) Watch() error {
	watcher, err := confloader.NewWatcher(
		confloader.WithWatcherLogger(r.logger),
		confloader.WithDebounce(r.debounce),
	)
	if err != nil {
		return fmt.Errorf("tlscert: create watcher: %w", err)
	}
	for _, path := range []string{r.certFile, r.keyFile} {
		if err := watcher.Watch(path); err != nil {
			_ = watcher.Stop()
			return fmt.Errorf("tlscert: watch %s: %w", path, err)
		}
	}

	// Cert and key changes within one debounce window both arrive; the
	// second reload is redundant but harmless.
	watcher.OnChange(func(string) {
		if err := r.reload(); err != nil {
			r.logger.Error("certificate reload failed, keeping previous",
				"error", err,
				"cert_file", r.certFile,
			)
		}
	})

	r.mu.Lock()
	r.watcher = watcher
	r.mu.Unlock()

	watcher.StartAsync()
	return nil
}

// Stop stops watching. It is safe to call more than once, and before Watch.
func (r *Reloader) Stop() error {
	r.mu.Lock()
	watcher := r.watcher
	r.watcher = nil
	r.mu.Unlock()

	if watcher == nil {
		return nil
	}
	return watcher.Stop()
}

func (r *Reloader) reload() error {
	cert, err := tls.LoadX509KeyPair(r.certFile, r.keyFile)
	if err != nil {
		return fmt.Errorf("load key pair: %w", err)
	}

	r.mu.Lock()
	r.cert = &cert
	r.mu.Unlock()

	r.logger.Info("certificate loaded", "cert_file", r.certFile)
	return nil
}
