package alert

import (
	"context"
	"fmt"
	"time"
	
	"github.com/bwmarrin/discordgo"
	"github.com/katatrina/storefront-BE/internal/util"
)

const maxReasonLength = 200

// Incident is a payment event that needs a human to look at it.
type Incident struct {
	TxnRef     string
	Reason     string
	Source     string
	OccurredAt time.Time
}

// DiscordAlerter posts incidents to a Discord channel.
type DiscordAlerter struct {
	session   *discordgo.Session
	channelID string
}

func NewDiscordAlerter(botToken, channelID string) (*DiscordAlerter, error) {
	session, err := discordgo.New("Bot " + botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}
	
	return &DiscordAlerter{
		session:   session,
		channelID: channelID,
	}, nil
}

func (a *DiscordAlerter) ReportIncident(ctx context.Context, incident Incident) error {
	_, err := a.session.ChannelMessageSend(a.channelID, FormatIncident(incident), discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to send incident to Discord: %w", err)
	}
	
	return nil
}

// FormatIncident renders the message body posted for an incident.
func FormatIncident(incident Incident) string {
	return fmt.Sprintf("⚠️ VNPay %s | Đơn hàng: %s | Lý do: %s | Lúc %s",
		incident.Source,
		incident.TxnRef,
		util.TruncateContent(incident.Reason, maxReasonLength),
		// Format time in HH:MM:SS dd/mm/yyyy
		incident.OccurredAt.Format("15:04:05 02/01/2006"),
	)
}
