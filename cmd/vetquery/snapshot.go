package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/davicafu/vetquery/internal/catalog"
	sharedDomain "github.com/davicafu/vetquery/internal/shared/domain"
	"github.com/davicafu/vetquery/internal/shared/infra/relayer"
)

func snapshotCmd(overrides *flagOverrides) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "gestiona las instantáneas sin conexión",
	}
	cmd.AddCommand(
		snapshotDownloadCmd(overrides),
		snapshotShowCmd(overrides),
		snapshotDeleteCmd(overrides),
		snapshotRefreshCmd(overrides),
	)
	return cmd
}

func snapshotDownloadCmd(overrides *flagOverrides) *cobra.Command {
	var where []string
	cmd := &cobra.Command{
		Use:   "download <entity>",
		Short: "descarga todas las páginas de una entidad y reemplaza su instantánea",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entity, err := catalog.Lookup(args[0])
			if err != nil {
				return err
			}
			filter, err := catalog.ParseFilter(entity, where)
			if err != nil {
				return err
			}

			a, err := newApp(cmd.Context(), *overrides)
			if err != nil {
				return err
			}
			defer a.Close()

			n, err := a.snapshotService().Download(cmd.Context(), entity, filter)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d registros guardados en %q (%s)\n", entity.Name, n, entity.SnapshotName, a.cfg.SnapshotBackend)
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&where, "where", "w", nil, "filtro campo=valor aplicado a la descarga")
	return cmd
}

func snapshotShowCmd(overrides *flagOverrides) *cobra.Command {
	var items bool
	cmd := &cobra.Command{
		Use:   "show <entity>",
		Short: "muestra la fecha y el tamaño de la instantánea guardada",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entity, err := catalog.Lookup(args[0])
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), *overrides)
			if err != nil {
				return err
			}
			defer a.Close()

			snap, err := a.snapshotService().LoadSnapshot(cmd.Context(), entity.SnapshotName)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d registros, guardada %s\n", snap.Name, len(snap.Items), snap.SavedAt.Local().Format("2006-01-02 15:04:05"))
			if !items {
				return nil
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(snap.Items)
		},
	}
	cmd.Flags().BoolVar(&items, "items", false, "imprime también los registros")
	return cmd
}

func snapshotDeleteCmd(overrides *flagOverrides) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <entity>",
		Short: "borra la instantánea de una entidad",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entity, err := catalog.Lookup(args[0])
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), *overrides)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.snapshotService().DeleteSnapshot(cmd.Context(), entity.SnapshotName); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: instantánea %q borrada\n", entity.Name, entity.SnapshotName)
			return nil
		},
	}
}

func snapshotRefreshCmd(overrides *flagOverrides) *cobra.Command {
	var every time.Duration
	cmd := &cobra.Command{
		Use:   "refresh [entity...]",
		Short: "mantiene las instantáneas al día descargándolas periódicamente (todas si no se indica ninguna)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if every <= 0 {
				return fmt.Errorf("--every must be positive, got %s", every)
			}
			names := args
			if len(names) == 0 {
				names = catalog.Names()
			}
			entities := make([]sharedDomain.Entity, 0, len(names))
			for _, name := range names {
				entity, err := catalog.Lookup(name)
				if err != nil {
					return err
				}
				entities = append(entities, entity)
			}

			a, err := newApp(cmd.Context(), *overrides)
			if err != nil {
				return err
			}
			defer a.Close()

			relayer.NewRefreshWorker(a.snapshotService(), entities, every, a.log).Start(cmd.Context())
			return nil
		},
	}
	cmd.Flags().DurationVar(&every, "every", relayer.DefaultRefreshInterval, "intervalo entre descargas")
	return cmd
}
