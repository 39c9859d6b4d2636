package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kilianp07/iexsim/app"
	"github.com/kilianp07/iexsim/infra/logger"
)

func newServeCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the simulation API, metrics and MQTT responder",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
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
			return svc.Run(cmd.Context())
		},
	}
}
