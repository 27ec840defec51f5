package debug

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/cloudwego/eino-ext/devops"

	"dolarwatch/config"
)

// Debugger wires the eino visual debug plugin behind the config switch.
type Debugger struct {
	config *config.Config
	ctx    context.Context
}

func NewDebugger(cfg *config.Config) *Debugger {
	return &Debugger{
		config: cfg,
		ctx:    context.Background(),
	}
}

// Initialize starts the visual debug server. It is a no-op unless
// EinoDebugEnabled is set.
func (d *Debugger) Initialize() error {
	if !d.config.EinoDebugEnabled {
		return nil
	}

	if d.config.Debug {
		log.Printf("[EinoDebug] Initializing eino visual debug plugin on port %d", d.config.EinoDebugPort)
	}

	if err := devops.Init(d.ctx); err != nil {
		return fmt.Errorf("failed to initialize eino debug plugin: %w", err)
	}

	go d.serveHealth()

	if d.config.Debug {
		log.Printf("[EinoDebug] Debug server ready at %s", d.DebugURL())
		log.Printf("[EinoDebug] The analysis model calls can be inspected through the web interface")
	}

	return nil
}

func (d *Debugger) IsEnabled() bool {
	return d.config.EinoDebugEnabled
}

func (d *Debugger) DebugURL() string {
	if !d.config.EinoDebugEnabled {
		return ""
	}
	return fmt.Sprintf("http://localhost:%d", d.config.EinoDebugPort)
}

// serveHealth exposes a liveness endpoint one port above the devops UI.
func (d *Debugger) serveHealth() {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("DolarWatch debug server is running"))
	})

	healthPort := d.config.EinoDebugPort + 1
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", healthPort),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	if d.config.Debug {
		log.Printf("[EinoDebug] Health check available at http://localhost:%d/health", healthPort)
	}

	if err := server.ListenAndServe(); err != nil {
		log.Printf("[EinoDebug] health server error: %v", err)
	}
}
