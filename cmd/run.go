package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/trilogic/internal/app"
	"github.com/abhisek/trilogic/internal/recorder"
	sessionscreen "github.com/abhisek/trilogic/internal/screens/session"
	"github.com/abhisek/trilogic/internal/session"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	bank, err := loadBank(cfg)
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	eventRepo := st.EventRepo()
	rec := recorder.New(eventRepo, cfg.RecorderBuffer)
	defer rec.Close()

	return app.Run(app.Options{
		Session: sessionscreen.Deps{
			Bank:      bank,
			Sink:      rec,
			Snapshots: st.SnapshotRepo(),
		},
		Planner: session.NewPlanner(eventRepo),
		Events:  eventRepo,
	})
}
