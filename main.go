package main

import (
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/plugins/migratecmd"
	"github.com/spf13/cobra"

	internalApp "github.com/MicahMunyard/easyworkshophub-sub002/internal/app"
	"github.com/MicahMunyard/easyworkshophub-sub002/pkg/app"
	"github.com/MicahMunyard/easyworkshophub-sub002/pkg/seed"

	_ "github.com/MicahMunyard/easyworkshophub-sub002/migrations"
)

func main() {
	pb := pocketbase.New()

	// 1. Migrations
	migratecmd.MustRegister(pb, pb.RootCmd, migratecmd.Config{
		Automigrate: true,
	})

	// 2. Dependency container
	container := internalApp.NewContainer(pb)

	// 3. Routes
	app.RegisterRoutes(pb, container)

	// 4. Extra CLI commands
	pb.RootCmd.AddCommand(&cobra.Command{
		Use:   "seed-demo",
		Short: "Insert demo bookings, technicians and inventory",
		Run: func(cmd *cobra.Command, args []string) {
			if err := pb.Bootstrap(); err != nil {
				log.Fatal(err)
			}
			if err := seed.Demo(pb); err != nil {
				log.Fatal(err)
			}
		},
	})

	if err := pb.Start(); err != nil {
		log.Fatal(err)
	}
}
