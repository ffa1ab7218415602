package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// FCMService pushes booking alerts to registered back-office devices.
type FCMService struct {
	client *messaging.Client
}

// NewFCMService creates a new FCM service instance from a credentials file.
func NewFCMService(credentialsFile string) (*FCMService, error) {
	ctx := context.Background()

	opt := option.WithCredentialsFile(credentialsFile)
	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting messaging client: %w", err)
	}

	return &FCMService{client: client}, nil
}

// NewFCMServiceFromBase64 creates a new FCM service instance from
// base64-encoded credentials. Useful for cloud deployments where uploading a
// credentials file is awkward.
func NewFCMServiceFromBase64(credentialsBase64 string) (*FCMService, error) {
	ctx := context.Background()

	credentialsJSON, err := base64.StdEncoding.DecodeString(credentialsBase64)
	if err != nil {
		return nil, fmt.Errorf("error decoding base64 credentials: %w", err)
	}

	opt := option.WithCredentialsJSON(credentialsJSON)
	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting messaging client: %w", err)
	}

	return &FCMService{client: client}, nil
}

// SendNewBookingNotification alerts admin devices that a booking was created.
func (s *FCMService) SendNewBookingNotification(tokens []string, bookingID, customerName, vehicleName string) error {
	return s.sendMulticast(tokens,
		"New Booking!",
		fmt.Sprintf("%s booked %s.", customerName, vehicleName),
		map[string]string{
			"type":       "new_booking",
			"booking_id": bookingID,
		})
}

// SendPaymentNotification alerts admin devices that an advance was captured.
func (s *FCMService) SendPaymentNotification(tokens []string, bookingID, vehicleName, amount string) error {
	return s.sendMulticast(tokens,
		"Booking Confirmed",
		fmt.Sprintf("Advance of %s received for %s.", amount, vehicleName),
		map[string]string{
			"type":       "booking_payment",
			"booking_id": bookingID,
		})
}

func (s *FCMService) sendMulticast(tokens []string, title, body string, data map[string]string) error {
	if len(tokens) == 0 {
		return nil
	}

	ctx := context.Background()
	message := &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					ContentAvailable: true,
					Sound:            "default",
				},
			},
		},
	}

	response, err := s.client.SendEachForMulticast(ctx, message)
	if err != nil {
		return fmt.Errorf("error sending multicast message: %w", err)
	}

	log.Printf("✅ Multicast sent: %d success, %d failures", response.SuccessCount, response.FailureCount)
	return nil
}
