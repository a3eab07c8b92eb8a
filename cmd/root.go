package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/stripboard/app"
	"github.com/kilianp07/stripboard/config"
	"github.com/kilianp07/stripboard/core/sched"
	"github.com/kilianp07/stripboard/infra/logger"
)

var (
	cfgPath   string
	scenePath string
	crewPath  string
	startDate string
)

var rootCmd = &cobra.Command{
	Use:   "stripboard",
	Short: "Film production scheduling service",
	RunE:  run,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
	rootCmd.Flags().StringVar(&scenePath, "scenes", "", "scene breakdown JSON file")
	rootCmd.Flags().StringVar(&crewPath, "crew", "", "crew list JSON file")
	rootCmd.Flags().StringVar(&startDate, "start", "", "shoot start date (YYYY-MM-DD)")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func run(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if scenePath == "" {
		return fmt.Errorf("--scenes is required")
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	sceneData, err := os.ReadFile(scenePath)
	if err != nil {
		return fmt.Errorf("read scenes: %w", err)
	}
	sceneIn, err := sched.SceneInputFromJSON(sceneData)
	if err != nil {
		return fmt.Errorf("parse scenes: %w", err)
	}
	var crewIn sched.CrewInput
	if crewPath != "" {
		crewData, err := os.ReadFile(crewPath)
		if err != nil {
			return fmt.Errorf("read crew: %w", err)
		}
		crewIn, err = sched.CrewInputFromJSON(crewData)
		if err != nil {
			return fmt.Errorf("parse crew: %w", err)
		}
	}

	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()

	res, err := svc.Run(ctx, sched.Request{
		SceneData: sceneIn,
		CrewData:  crewIn,
		StartDate: startDate,
	})
	if err != nil {
		return err
	}
	fmt.Printf("run %s: %d shooting days starting %s\n", res.RunID, res.Schedule.TotalDays, res.StartDate)
	if res.SavedTo != "" {
		fmt.Printf("saved to %s\n", res.SavedTo)
	}
	return nil
}
