package mailer

import (
	"context"
	"fmt"
	"time"
	
	"github.com/katatrina/storefront-BE/internal/util"
	"github.com/wneessen/go-mail"
)

const (
	smtpGmailHost = "smtp.gmail.com"
	smtpGmailPort = 587
	
	senderEmailName = "Storefront"
)

// PaymentReceipt is the content of the e-mail sent after a successful payment.
type PaymentReceipt struct {
	To            string
	OrderCode     string
	Amount        int64
	TransactionNo string
	PaidAt        time.Time
}

type GmailSender struct {
	client      *mail.Client
	fromAddress string
}

func NewGmailSender(username, password string) (*GmailSender, error) {
	client, err := mail.NewClient(smtpGmailHost, mail.WithPort(smtpGmailPort), mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(username), mail.WithPassword(password))
	if err != nil {
		return nil, err
	}
	
	return &GmailSender{
		client:      client,
		fromAddress: username,
	}, nil
}

func (sender *GmailSender) SendPaymentReceipt(ctx context.Context, receipt PaymentReceipt) error {
	// Initialize a new email message
	msg := mail.NewMsg()
	
	err := msg.FromFormat(senderEmailName, sender.fromAddress)
	if err != nil {
		return fmt.Errorf("failed to set From address: %w", err)
	}
	
	msg.Subject(fmt.Sprintf("Xác nhận thanh toán đơn hàng %s", receipt.OrderCode))
	
	if err = msg.To(receipt.To); err != nil {
		return fmt.Errorf("failed to set To address: %w", err)
	}
	
	msg.SetBodyString(mail.TypeTextHTML, RenderPaymentReceipt(receipt))
	
	// Send email
	if err = sender.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	
	return nil
}

// RenderPaymentReceipt returns the HTML body of the receipt.
func RenderPaymentReceipt(receipt PaymentReceipt) string {
	return fmt.Sprintf(
		"<p>Đơn hàng <b>%s</b> đã được thanh toán thành công.</p>"+
			"<p>Số tiền: %s</p>"+
			"<p>Mã giao dịch VNPay: %s</p>"+
			"<p>Thời gian: %s</p>",
		receipt.OrderCode,
		util.FormatVND(receipt.Amount),
		receipt.TransactionNo,
		receipt.PaidAt.Format("15:04:05 02/01/2006"),
	)
}
