package service

import (
	"context"
	"fmt"
	"net/url"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cast"

	"github.com/lshigami/acebrainiac/internal/core"
	"github.com/lshigami/acebrainiac/internal/dto"
	"github.com/lshigami/acebrainiac/internal/form"
	"github.com/lshigami/acebrainiac/internal/model"
	"github.com/lshigami/acebrainiac/internal/transport"
)

const ticketsPath = "/admin/support-tickets"

type TicketService interface {
	// Reply posts a staff answer and optionally moves the ticket to status.
	Reply(ctx context.Context, id, message, status string) (*model.SupportTicket, error)
}

type ticketService struct {
	client *transport.Client
}

func NewTicketService(client *transport.Client) TicketService {
	return &ticketService{client: client}
}

func (s *ticketService) Reply(ctx context.Context, id, message, status string) (*model.SupportTicket, error) {
	if id == "" {
		return nil, core.NewValidationError(errors.New("id is required"))
	}
	input := map[string]string{"message": message}
	if status != "" {
		input["status"] = status
	}
	bound, err := form.TicketReply.Bind(input, false)
	if err != nil {
		return nil, err
	}
	req := dto.TicketReplyRequest{
		Message: cast.ToString(bound.Values["message"]),
		Status:  cast.ToString(bound.Values["status"]),
	}

	p := fmt.Sprintf("%s/%s/replies", ticketsPath, url.PathEscape(id))
	body, err := s.client.PostJSON(ctx, p, req)
	if err != nil {
		log.Error().Err(err).Str("ticket_id", id).Msg("Failed to reply to ticket")
		return nil, core.NewNoticeError(core.Notice(err, "Failed to send reply"), err)
	}
	var ticket model.SupportTicket
	if len(body) > 0 {
		if err := transport.DecodeData(body, &ticket); err != nil {
			return nil, err
		}
	}
	if ticket.ID == "" {
		ticket.ID = id
	}
	log.Info().Str("ticket_id", id).Str("status", req.Status).Msg("Ticket reply sent")
	return &ticket, nil
}
