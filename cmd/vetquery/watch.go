package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/segmentio/kafka-go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	queryDomain "github.com/davicafu/vetquery/internal/query/domain"
	"github.com/davicafu/vetquery/internal/shared/infra/events"
	"github.com/davicafu/vetquery/internal/shared/infra/utils"
)

func watchCmd(overrides *flagOverrides) *cobra.Command {
	var group string
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "sigue en Kafka las transiciones publicadas por otros clientes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context(), *overrides)
			if err != nil {
				return err
			}
			defer a.Close()
			if !a.cfg.UseKafka() {
				return errors.New("KAFKA_BROKERS is not set")
			}

			reader := kafka.NewReader(kafka.ReaderConfig{
				Brokers:  a.cfg.KafkaBrokers,
				Topic:    a.cfg.KafkaTopic,
				GroupID:  group,
				MinBytes: 1,
				MaxBytes: 10e6, // 10MB
			})
			defer reader.Close()

			printer := &transitionPrinter{out: cmd.OutOrStdout(), log: a.log}
			events.NewConsumerAdapter(reader, printer, a.log).Run(cmd.Context())
			return nil
		},
	}
	cmd.Flags().StringVar(&group, "group", "vetquery-watch", "grupo de consumidores de Kafka")
	return cmd
}

// transitionPrinter imprime una línea por transición recibida.
type transitionPrinter struct {
	out io.Writer
	log *zap.Logger
}

func (p *transitionPrinter) HandleMessage(ctx context.Context, key string, payload []byte) {
	var envelope events.IntegrationEvent
	if err := json.Unmarshal(payload, &envelope); err != nil {
		p.log.Warn("Mensaje de Kafka ilegible", zap.String("key", key), zap.Error(err))
		return
	}
	if envelope.Type != queryDomain.TransitionEvent {
		p.log.Debug("Evento ignorado", zap.String("type", envelope.Type))
		return
	}

	utils.UnmarshalAndHandle(p.log, envelope.Data, func(tr queryDomain.Transition) {
		line := fmt.Sprintf("%s %-10s #%d %s → %s", tr.At.Local().Format("15:04:05.000"), tr.Entity, tr.Token, tr.From, tr.To)
		if tr.TotalItems != nil {
			line += fmt.Sprintf(" total=%d", *tr.TotalItems)
		}
		if tr.StaleSince != nil {
			line += " stale_since=" + tr.StaleSince.Local().Format("2006-01-02 15:04")
		}
		if tr.Reason != nil {
			line += " reason=" + tr.Reason.Error()
		}
		if tr.NavigationRequired() {
			line += " (re-authentication required)"
		}
		fmt.Fprintln(p.out, line)
	})
}

var _ events.MessageHandler = (*transitionPrinter)(nil)
