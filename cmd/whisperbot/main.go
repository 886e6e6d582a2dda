package main

import (
	"fmt"
	"log"

	corecmd "github.com/m3rciful/whisperbot/core/cmd"
	"github.com/m3rciful/whisperbot/internal/app"
	"github.com/m3rciful/whisperbot/internal/config"
)

func main() {
	err := corecmd.Run(corecmd.Options{
		DefaultConfigPath: "config.yaml",
		LoadConfig: func(path string) (corecmd.ConfigCarrier, error) {
			return config.Load(path)
		},
		Bootstrap: func(carrier corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
			cfg, ok := carrier.(*config.Config)
			if !ok {
				return nil, fmt.Errorf("unexpected config type %T", carrier)
			}
			return app.New(cfg)
		},
	})
	if err != nil {
		log.Fatalf("whisperbot: %v", err)
	}
}
