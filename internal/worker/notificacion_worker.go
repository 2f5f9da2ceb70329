package worker

// notificacion_worker.go
// Processes jobs from QueueNotificaciones: tells the shop about new sales
// (with the PDF receipt, also sent to the customer when they left an email)
// and new appointments.

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nicoxroll/tecno-car-sub000/internal/infra"
	"github.com/nicoxroll/tecno-car-sub000/internal/repository"

	"github.com/rs/zerolog/log"
)

// NotificacionWorker renders and sends notification emails.
type NotificacionWorker struct {
	ventaRepo   repository.VentaRepository
	turnoRepo   repository.TurnoRepository
	mailer      Sender
	shopName    string
	notifyEmail string
}

func NewNotificacionWorker(
	ventaRepo repository.VentaRepository,
	turnoRepo repository.TurnoRepository,
	mailer Sender,
	shopName string,
	notifyEmail string,
) *NotificacionWorker {
	return &NotificacionWorker{
		ventaRepo:   ventaRepo,
		turnoRepo:   turnoRepo,
		mailer:      mailer,
		shopName:    shopName,
		notifyEmail: notifyEmail,
	}
}

// ProcessVenta emails the receipt of a newly created sale.
func (w *NotificacionWorker) ProcessVenta(ctx context.Context, raw json.RawMessage) error {
	var ref RefPayload
	if err := json.Unmarshal(raw, &ref); err != nil {
		return fmt.Errorf("notificacion_worker: invalid payload: %w", err)
	}
	venta, err := w.ventaRepo.FindByID(ctx, ref.ID)
	if err != nil {
		return fmt.Errorf("notificacion_worker: venta %d: %w", ref.ID, err)
	}

	pdf, err := infra.GenerateVentaPDF(venta, w.shopName)
	if err != nil {
		return err
	}
	adjunto := infra.Attachment{
		Name:        "pedido_" + venta.Codigo + ".pdf",
		ContentType: "application/pdf",
		Data:        pdf,
	}

	var body strings.Builder
	fmt.Fprintf(&body, "Nuevo pedido %s\n\n", venta.Codigo)
	fmt.Fprintf(&body, "Cliente: %s\n", venta.Cliente)
	if venta.Telefono != nil {
		fmt.Fprintf(&body, "Teléfono: %s\n", *venta.Telefono)
	}
	fmt.Fprintf(&body, "Fecha: %s\nEstado: %s\n\n", venta.Fecha, venta.Estado)
	for _, linea := range venta.Resumen {
		fmt.Fprintf(&body, "- %s\n", linea)
	}
	fmt.Fprintf(&body, "\nTotal: %s\n", infra.FormatPesos(venta.Total))

	sent := 0
	if w.notifyEmail != "" {
		if err := w.mailer.Send(w.notifyEmail, "Nuevo pedido "+venta.Codigo, body.String(), adjunto); err != nil {
			return fmt.Errorf("notificacion_worker: notify shop: %w", err)
		}
		sent++
	}
	if venta.Email != nil && *venta.Email != "" {
		msg := fmt.Sprintf("Hola %s,\n\nAdjuntamos el comprobante de tu pedido %s en %s.\n\n¡Gracias por tu compra!",
			venta.Cliente, venta.Codigo, w.shopName)
		if err := w.mailer.Send(*venta.Email, "Tu pedido "+venta.Codigo, msg, adjunto); err != nil {
			return fmt.Errorf("notificacion_worker: customer email: %w", err)
		}
		sent++
	}
	log.Info().Int64("venta_id", venta.ID).Int("emails", sent).Msg("notificacion_worker: venta notified")
	return nil
}

// ProcessTurno emails the shop about a newly booked appointment.
func (w *NotificacionWorker) ProcessTurno(ctx context.Context, raw json.RawMessage) error {
	var ref RefPayload
	if err := json.Unmarshal(raw, &ref); err != nil {
		return fmt.Errorf("notificacion_worker: invalid payload: %w", err)
	}
	if w.notifyEmail == "" {
		log.Warn().Int64("turno_id", ref.ID).Msg("notificacion_worker: NOTIFY_EMAIL not set, skipping")
		return nil
	}
	turno, err := w.turnoRepo.FindByID(ctx, ref.ID)
	if err != nil {
		return fmt.Errorf("notificacion_worker: turno %d: %w", ref.ID, err)
	}

	var body strings.Builder
	fmt.Fprintf(&body, "Nuevo turno para %s\n\n", turno.NombreServicio)
	fmt.Fprintf(&body, "Cliente: %s\nTeléfono: %s\n", turno.NombreCliente, turno.Telefono)
	if turno.Email != nil {
		fmt.Fprintf(&body, "Email: %s\n", *turno.Email)
	}
	fmt.Fprintf(&body, "Fecha: %s\n", turno.Fecha.Format("02/01/2006 15:04"))
	if turno.Descripcion != nil && *turno.Descripcion != "" {
		fmt.Fprintf(&body, "\n%s\n", *turno.Descripcion)
	}

	subject := fmt.Sprintf("Nuevo turno: %s - %s", turno.NombreServicio, turno.NombreCliente)
	if err := w.mailer.Send(w.notifyEmail, subject, body.String()); err != nil {
		return fmt.Errorf("notificacion_worker: notify shop: %w", err)
	}
	log.Info().Int64("turno_id", turno.ID).Msg("notificacion_worker: turno notified")
	return nil
}
