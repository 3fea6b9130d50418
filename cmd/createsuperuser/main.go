package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/LoayAhmed23/recipe-app-api/internal/model"
	"github.com/LoayAhmed23/recipe-app-api/pkg/config"
	"github.com/LoayAhmed23/recipe-app-api/pkg/database"
)

// Creates a staff/superuser account, for bootstrapping a deployment.
func main() {
	email := flag.String("email", "", "email address for the superuser")
	password := flag.String("password", "", "password for the superuser")
	flag.Parse()

	if *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "usage: createsuperuser -email <email> -password <password>")
		os.Exit(2)
	}

	appConfig, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := database.InitDB(appConfig); err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect to database: %v\n", err)
		os.Exit(1)
	}

	user, err := model.CreateSuperuser(database.GetDB(), *email, *password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create superuser: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("superuser created: %s (id=%d)\n", user.Email, user.ID)
}
