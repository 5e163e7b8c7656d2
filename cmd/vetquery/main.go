package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var overrides flagOverrides
	cmd := &cobra.Command{
		Use:           "vetquery",
		Short:         "consultas paginadas y datos sin conexión del servicio de la clínica",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&overrides.host, "host", "", "URL base del servicio (VETQUERY_API_HOST)")
	cmd.PersistentFlags().StringVar(&overrides.token, "token", "", "token de sesión (VETQUERY_TOKEN)")
	cmd.PersistentFlags().StringVar(&overrides.backend, "backend", "", "almacén de instantáneas (SNAPSHOT_BACKEND)")

	cmd.AddCommand(
		entitiesCmd(),
		queryCmd(&overrides),
		snapshotCmd(&overrides),
		watchCmd(&overrides),
	)
	return cmd
}
