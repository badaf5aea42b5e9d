package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"reactsense/internal/config"
	"reactsense/internal/model"
	"reactsense/internal/worker"
)

var workerCommand = &cobra.Command{
	Use:   "worker",
	Short: "Consume analysis jobs from NSQ",
	Run: func(cmd *cobra.Command, args []string) {
		conf, err := config.InitConfig(configFile)
		if err != nil {
			logrus.Fatal("initConfig error, ", err.Error())
		}

		db, err := model.InitDB(conf.DB)
		if err != nil {
			logrus.Fatal("failed to init database", err)
		}
		defer func() {
			sqlDB, _ := db.DB()
			sqlDB.Close()
		}()

		w, err := worker.NewWorker(conf)
		if err != nil {
			logrus.Fatalf("Failed to create worker: %v", err)
		}
		if err := w.Start(); err != nil {
			logrus.Fatalf("Failed to start worker: %v", err)
		}

		termChan := make(chan os.Signal, 1)
		signal.Notify(termChan, syscall.SIGINT, syscall.SIGTERM)

		<-termChan
		logrus.Infof("worker is shutting down...")
		w.Stop()
	},
}
