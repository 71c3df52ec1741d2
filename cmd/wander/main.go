package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/wanderstay/wander-chat/internal/app"
	"github.com/wanderstay/wander-chat/internal/config"
	"github.com/wanderstay/wander-chat/internal/profile"
	"go.uber.org/fx"
)

func main() {
	profileFlag := flag.String("profile", "", "profile name (overrides config default)")
	apiFlag := flag.String("api-url", "", "backend URL (overrides config)")
	flag.Parse()

	profileName := profile.Resolve(*profileFlag)
	if err := profile.ValidateName(profileName); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	apiURL := *apiFlag
	if apiURL == "" {
		cfg, _ := config.Load(profile.ConfigPath())
		apiURL = cfg.ResolveAPIURL()
	}

	fx.New(
		app.Module(app.Params{ProfileName: profileName, APIURL: apiURL}),
		fx.NopLogger,
	).Run()
}
