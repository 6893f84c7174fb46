// Dermoscopy preprocessing viewer

package main

import (
	"flag"
	"fmt"
	"os"

	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/theme"
	"github.com/sirupsen/logrus"

	"dermoscopy-preprocessing/internal/config"
	"dermoscopy-preprocessing/internal/gui"
	"dermoscopy-preprocessing/internal/logging"
)

const (
	AppName    = "Dermoscopy Preprocessing"
	AppID      = "org.dermoscopy.preprocessing"
	AppVersion = "1.0.0"
)

func main() {
	debugMode := flag.Bool("debug", false, "Enable debug mode with verbose logging")
	configPath := flag.String("config", "", "YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *debugMode {
		cfg.Log.Level = "debug"
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger.WithFields(logrus.Fields{
		"version":    AppVersion,
		"debug_mode": *debugMode,
		"config":     *configPath,
	}).Info("Starting " + AppName)

	myApp := app.NewWithID(AppID)
	myApp.SetIcon(theme.DocumentIcon())
	myApp.Settings().SetTheme(theme.DefaultTheme())

	mainApp := gui.NewApplication(myApp, logger, cfg)
	if flag.NArg() > 0 {
		if err := mainApp.LoadImageFromPath(flag.Arg(0)); err != nil {
			logger.WithError(err).WithField("filepath", flag.Arg(0)).Error("Failed to load image")
		}
	}
	mainApp.ShowAndRun()

	logger.Info("Application shutting down gracefully")
}
