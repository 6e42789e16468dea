package entity

import "time"

// NotificationType categoría de la notificación in-app.
type NotificationType string

const (
	NotificationTransferRequest   NotificationType = "TRANSFER_REQUEST"
	NotificationTransferApproval  NotificationType = "TRANSFER_APPROVAL"
	NotificationTransferRejection NotificationType = "TRANSFER_REJECTION"
	NotificationTransferDispatch  NotificationType = "TRANSFER_DISPATCH"
	NotificationTransferReceived  NotificationType = "TRANSFER_RECEIVED"
	NotificationStockAlert        NotificationType = "STOCK_ALERT"
	NotificationSystem            NotificationType = "SYSTEM"
)

// Notification mensaje in-app. Pertenece al destinatario; solo IsRead/IsArchived cambian.
type Notification struct {
	ID              string
	RecipientID     string
	SenderID        *string
	Type            NotificationType
	Title           string
	Message         string
	IsRead          bool
	IsArchived      bool
	RelatedBranchID *string
	RelatedObjectID *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
