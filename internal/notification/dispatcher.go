package notification

import (
	"context"
	"fmt"
	"sync"
	"time"

	"venuebook/pkg/logger"
	"venuebook/pkg/model"
)

type AdminResult struct {
	Email   string `json:"email"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// AdminReport is the per-recipient outcome of one admin notification.
type AdminReport struct {
	Results    []AdminResult `json:"results"`
	Successful int           `json:"successful"`
	Failed     int           `json:"failed"`
}

type Dispatcher interface {
	SendConfirmationEmail(ctx context.Context, to string, booking *model.Booking) error
	SendAdminNotification(ctx context.Context, booking *model.Booking) (*AdminReport, error)
	SendVerificationCodeEmail(ctx context.Context, to, code string, ttl time.Duration) error
}

type dispatcher struct {
	sender Sender
	admins AdminDirectory
	loc    *time.Location
	log    *logger.Logger
}

func NewDispatcher(sender Sender, admins AdminDirectory, loc *time.Location, log *logger.Logger) Dispatcher {
	if loc == nil {
		loc = time.UTC
	}
	return &dispatcher{sender: sender, admins: admins, loc: loc, log: log}
}

type bookingView struct {
	Booking    *model.Booking
	Venue      string
	Title      string
	Date       string
	TimeRange  string
	Activities string
	Layout     string
	Equipment  string
}

func (d *dispatcher) view(b *model.Booking) bookingView {
	return bookingView{
		Booking:    b,
		Venue:      b.VenueType.Label(),
		Title:      b.DisplayTitle(),
		Date:       FormatEventDate(b.Date, d.loc),
		TimeRange:  FormatTimeRange(b.StartTime, b.EndTime),
		Activities: joinOrNone(ActivityList(b.TypeOfActivity)),
		Layout:     joinOrNone(RoomLayoutList(b.RoomLayoutPreference)),
		Equipment:  joinOrNone(EquipmentList(b.EquipmentNeeded)),
	}
}

// SendConfirmationEmail tells the client their booking was confirmed.
func (d *dispatcher) SendConfirmationEmail(ctx context.Context, to string, b *model.Booking) error {
	if to == "" {
		return ErrNoAddress
	}
	v := d.view(b)
	html, text, err := render("confirmation", v)
	if err != nil {
		return err
	}
	return d.sender.Send(ctx, &Email{
		To:      to,
		Subject: fmt.Sprintf("Booking Confirmed - %s - %s", v.Title, v.Date),
		HTML:    html,
		Text:    text,
	})
}

// SendAdminNotification mails every admin concurrently. A failure for one
// recipient is recorded in the report and does not stop the others.
func (d *dispatcher) SendAdminNotification(ctx context.Context, b *model.Booking) (*AdminReport, error) {
	emails, err := d.admins.AdminEmails(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve admin emails: %w", err)
	}
	if len(emails) == 0 {
		return nil, ErrNoRecipients
	}

	v := d.view(b)
	html, text, err := render("admin", v)
	if err != nil {
		return nil, err
	}
	subject := fmt.Sprintf("New Booking Request - %s - %s", v.Title, v.Date)

	results := make([]AdminResult, len(emails))
	var wg sync.WaitGroup
	for i, to := range emails {
		wg.Add(1)
		go func(i int, to string) {
			defer wg.Done()
			results[i] = AdminResult{Email: to, Success: true}
			if err := d.sender.Send(ctx, &Email{To: to, Subject: subject, HTML: html, Text: text}); err != nil {
				results[i].Success = false
				results[i].Error = err.Error()
			}
		}(i, to)
	}
	wg.Wait()

	report := &AdminReport{Results: results}
	for _, r := range results {
		if r.Success {
			report.Successful++
		} else {
			report.Failed++
			d.log.Warn("Admin notification failed", "email", r.Email, "error", r.Error)
		}
	}
	d.log.Info("Admin notification sent",
		"booking_id", b.ID,
		"successful", report.Successful,
		"failed", report.Failed,
	)
	return report, nil
}

func (d *dispatcher) SendVerificationCodeEmail(ctx context.Context, to, code string, ttl time.Duration) error {
	data := struct {
		Code    string
		Minutes int
	}{Code: code, Minutes: int(ttl / time.Minute)}

	html, text, err := render("verification", data)
	if err != nil {
		return err
	}
	return d.sender.Send(ctx, &Email{
		To:      to,
		Subject: "Your Verification Code - Booking System",
		HTML:    html,
		Text:    text,
	})
}
