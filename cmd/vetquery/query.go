package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/davicafu/vetquery/internal/catalog"
	queryDomain "github.com/davicafu/vetquery/internal/query/domain"
	sharedDomain "github.com/davicafu/vetquery/internal/shared/domain"
	sharedQuery "github.com/davicafu/vetquery/internal/shared/infra/platform/query"
)

func entitiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "entities",
		Short: "lista las entidades consultables y sus campos filtrables",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			for _, name := range catalog.Names() {
				e, _ := catalog.Lookup(name)
				fields := make([]string, 0, len(e.Fields))
				for f, kind := range e.Fields {
					fields = append(fields, fmt.Sprintf("%s(%s)", f, kind))
				}
				sort.Strings(fields)
				fmt.Fprintf(out, "%-10s id=%-12s snapshot=%-9s %s\n", e.Name, e.IdentityField, e.SnapshotName, strings.Join(fields, " "))
			}
		},
	}
}

func queryCmd(overrides *flagOverrides) *cobra.Command {
	var (
		where    []string
		size     int
		page     int
		timeline bool
	)
	cmd := &cobra.Command{
		Use:   "query <entity>",
		Short: "consulta una página filtrada; sin conexión usa la instantánea local",
		Example: `  vetquery query pacientes --where especie=canino --where edad=2..8 --size 5 --page 2
  vetquery query ventas --where facturada=false --where total=..50`,
		Args: cobra.ExactArgs(1),
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

			client := a.queryClient(entity)
			defer client.Close()
			if timeline {
				transitions := client.Subscribe(8)
				go func() {
					for tr := range transitions {
						fmt.Fprintf(cmd.ErrOrStderr(), "%s → %s\n", tr.From, tr.To)
					}
				}()
			}

			outcome := client.Query(cmd.Context(), sharedDomain.PageRequest{
				Filter:     filter,
				PageSize:   size,
				PageNumber: page,
			})
			if err := writeOutcome(cmd.OutOrStdout(), outcome); err != nil {
				return err
			}
			return outcomeError(outcome)
		},
	}
	cmd.Flags().StringArrayVarP(&where, "where", "w", nil, "filtro campo=valor (rango: min..max); repetible")
	cmd.Flags().IntVar(&size, "size", 20, "tamaño de página")
	cmd.Flags().IntVar(&page, "page", 1, "número de página")
	cmd.Flags().BoolVar(&timeline, "timeline", false, "muestra las transiciones de estado en stderr")
	return cmd
}

type outcomeView struct {
	State      queryDomain.State      `json:"state"`
	TotalItems *int                   `json:"total_items,omitempty"`
	PageNumber int                    `json:"page_number,omitempty"`
	PageSize   int                    `json:"page_size,omitempty"`
	TotalPages int                    `json:"total_pages,omitempty"`
	StaleSince *time.Time             `json:"stale_since,omitempty"`
	Cause      string                 `json:"cause,omitempty"`
	Reason     *queryDomain.Rejection `json:"reason,omitempty"`
	Items      []sharedDomain.Record  `json:"items,omitempty"`
}

func newOutcomeView(o queryDomain.Outcome) outcomeView {
	v := outcomeView{State: o.State, Reason: o.Reason}
	if o.Page != nil {
		total := o.Page.TotalItems
		v.TotalItems = &total
		v.PageNumber = o.Page.PageNumber
		v.PageSize = o.Page.PageSize
		v.TotalPages = sharedQuery.TotalPages(o.Page.TotalItems, o.Page.PageSize)
		v.Items = o.Page.Items
	}
	if !o.StaleSince.IsZero() {
		stale := o.StaleSince
		v.StaleSince = &stale
	}
	if o.Cause != nil {
		v.Cause = o.Cause.Error()
	}
	return v
}

func writeOutcome(w io.Writer, o queryDomain.Outcome) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(newOutcomeView(o))
}

// outcomeError convierte los Outcome sin página en el error de salida del comando.
func outcomeError(o queryDomain.Outcome) error {
	switch o.State {
	case queryDomain.StateExpired:
		return errors.New("session expired: sign in again and pass the new --token")
	case queryDomain.StateRejected:
		return o.Err()
	}
	return nil
}
