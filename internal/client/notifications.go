package client

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// NotificationParams filters GetNotifications. Zero fields are not sent.
type NotificationParams struct {
	DateFrom time.Time
	DateTo   time.Time
	Type     string
	Language string
	Status   string
	PageNo   int
	PageSize int
}

func (p NotificationParams) values() url.Values {
	q := url.Values{}
	setTime(q, "dateFrom", p.DateFrom)
	setTime(q, "dateTo", p.DateTo)
	setString(q, "type", p.Type)
	setString(q, "language", p.Language)
	setString(q, "status", p.Status)
	setInt(q, "pageNo", p.PageNo)
	setInt(q, "pageSize", p.PageSize)
	return q
}

// DeliveryAttempt records one attempt to deliver a notification
type DeliveryAttempt struct {
	AttemptDateTime time.Time `json:"attemptDateTime"`
	Status          string    `json:"status"`
	StatusDetails   string    `json:"statusDetails,omitempty"`
}

// Notification is a message the platform sent the taxpayer
type Notification struct {
	NotificationID         string            `json:"notificationId"`
	ReceiverName           string            `json:"receiverName"`
	NotificationDeliveryID string            `json:"notificationDeliveryId"`
	CreationDateTime       time.Time         `json:"creationDateTime"`
	ReceivedDateTime       time.Time         `json:"receivedDateTime"`
	NotificationSubject    string            `json:"notificationSubject"`
	DeliveredDateTime      *time.Time        `json:"deliveredDateTime,omitempty"`
	TypeID                 string            `json:"typeId"`
	TypeName               string            `json:"typeName"`
	FinalMessage           string            `json:"finalMessage"`
	Address                string            `json:"address"`
	Language               string            `json:"language"`
	Status                 string            `json:"status"`
	DeliveryAttempts       []DeliveryAttempt `json:"deliveryAttempts,omitempty"`
}

// NotificationList is a page of notifications
type NotificationList struct {
	Result   []Notification `json:"result"`
	Metadata Metadata       `json:"metadata"`
}

// GetNotifications lists notifications addressed to the taxpayer
func (c *Client) GetNotifications(ctx context.Context, params NotificationParams) (*NotificationList, error) {
	var out NotificationList
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/api/v1.0/notifications/taxpayer",
		query:  params.values(),
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
