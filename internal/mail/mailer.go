// Package mail sends order confirmation messages over SMTP.
package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"

	"github.com/dmarchuk/storefront/internal/models"
)

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type SMTPMailer struct {
	cfg  Config
	tmpl *template.Template
}

func New(cfg Config) *SMTPMailer {
	return &SMTPMailer{
		cfg:  cfg,
		tmpl: template.Must(template.New("order").Parse(orderTemplate)),
	}
}

type orderTemplateData struct {
	CustomerName string
	Order        *models.Order
}

func (m *SMTPMailer) SendOrderConfirmation(ctx context.Context, to string, user *models.User, order *models.Order) error {
	var body bytes.Buffer
	if err := m.tmpl.Execute(&body, orderTemplateData{
		CustomerName: user.Name,
		Order:        order,
	}); err != nil {
		return fmt.Errorf("mail: render: %w", err)
	}

	var msg strings.Builder
	msg.WriteString("From: " + m.cfg.From + "\r\n")
	msg.WriteString("To: " + to + "\r\n")
	msg.WriteString("Subject: New Order " + order.ID.String() + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.Write(body.Bytes())

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("mail: send to %s: %w", to, err)
	}
	return nil
}

const orderTemplate = `<div>
  <div>Customer: <b>{{.CustomerName}}</b></div>
  <div>Order Id: <b>{{.Order.ID}}</b></div>
  <h2>Order Items</h2>
  <table style="width:100%">
    <thead>
      <tr><th align="left">Item</th><th align="left">Quantity</th><th align="left">Price</th></tr>
    </thead>
    <tbody>
      {{range .Order.Items}}
      <tr><td>{{.Name}}</td><td align="center">{{.Quantity}}</td><td align="right">{{.UnitPrice}}</td></tr>
      {{end}}
    </tbody>
  </table>
  <div>Items Price: <b>{{.Order.ItemsPrice}}</b></div>
  <div>Shipping Price: <b>{{.Order.ShippingPrice}}</b></div>
  <div>Tax Price: <b>{{.Order.TaxPrice}}</b></div>
  <div>Shipping Address: <b>{{.Order.ShippingAddress.Address}} {{.Order.ShippingAddress.City}} {{.Order.ShippingAddress.PostalCode}} {{.Order.ShippingAddress.Country}}</b></div>
  <h2>Total Price: <b>{{.Order.TotalPrice}}</b></h2>
</div>`
