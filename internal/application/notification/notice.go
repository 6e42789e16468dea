package notification

import "github.com/jhoicas/Farmacia-api/internal/domain/entity"

// Recipients a quién va un aviso. El Dispatcher resuelve sedes y roles a usuarios concretos.
type Recipients struct {
	Users        []string // IDs de usuario directos
	SiteAdminsOf []string // IDs de sede; se resuelven con el Directory
	CEOs         bool
}

// Notice aviso a crear como efecto de una transición.
type Notice struct {
	Type            entity.NotificationType
	Title           string
	Message         string
	SenderID        string
	RelatedBranchID string
	RelatedObjectID string
	To              Recipients
}
