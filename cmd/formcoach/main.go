package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/arvidsson/formcoach/internal/app"
	"github.com/arvidsson/formcoach/internal/config"
	"github.com/arvidsson/formcoach/internal/engine"
	"github.com/arvidsson/formcoach/internal/server"
	"github.com/arvidsson/formcoach/internal/speech"
	"github.com/arvidsson/formcoach/internal/store"
	"github.com/arvidsson/formcoach/internal/tray"
)

func main() {
	fmt.Println("FormCoach - Rehabilitation Movement Coaching")

	configPath := flag.String("config", defaultConfigPath(), "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	dbPath := cfg.Database.Path
	if dbPath == "" {
		dbPath = defaultDatabasePath()
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	st, err := store.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	var announcer speech.Announcer = speech.Nop{}
	if cfg.Speech.Enabled {
		announcer = speech.NewCommandAnnouncer(cfg.Speech.Voice)
	}

	a := app.New(app.Config{
		Store:        st,
		CameraID:     cfg.Camera.DeviceID,
		MotionThresh: cfg.Camera.MotionThreshold,
		Announcer:    announcer,
	})

	if err := a.Start(); err != nil {
		log.Printf("Failed to start coaching pipeline: %v", err)
	}
	a.SetEnabled(true)

	// Configure and start server
	srv := server.New(server.Config{
		StaticDir: cfg.Server.StaticDir,
		Store:     st,
		Camera:    a.Camera(),
		Coach:     a,
	})

	addr := cfg.Server.Addr()
	go func() {
		fmt.Printf("Starting server on %s\n", addr)
		if err := srv.ListenAndServe(addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// The tray owns the main thread; everything else runs behind it
	t := tray.New()
	t.OnToggle(func(enabled bool) {
		a.SetEnabled(enabled)
	})
	t.OnSettings(func() {
		openBrowser("http://" + addr)
	})
	t.OnQuit(func() {
		a.Stop()
	})

	a.OnStatus(func(snap engine.Snapshot) {
		session := a.Session()
		if session == nil {
			t.SetStatus("", 0, 0)
			return
		}
		t.SetStatus(session.Exercise(), snap.Reps, snap.Score)
	})

	t.Run()
}

// defaultConfigPath returns ~/.formcoach/config.yaml, or a relative path if
// the home directory cannot be determined.
func defaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(homeDir, ".formcoach", "config.yaml")
}

// defaultDatabasePath returns ~/.formcoach/formcoach.db.
func defaultDatabasePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "formcoach.db"
	}
	return filepath.Join(homeDir, ".formcoach", "formcoach.db")
}

// openBrowser opens the given URL in the default browser, best effort.
func openBrowser(url string) {
	for _, launcher := range []string{"open", "xdg-open"} {
		if path, err := exec.LookPath(launcher); err == nil {
			exec.Command(path, url).Start()
			return
		}
	}
	log.Printf("No browser launcher found, open %s manually", url)
}
