package service

import (
	"fmt"

	"github.com/okian/touchline/internal/domain/model"
)

const (
	msgStarted     = "Game Started!"
	msgPaused      = "Game Paused"
	msgDeleted     = "Entry deleted"
	msgTimeEdited  = "Event time updated successfully!"
	msgReset       = "Match reset"
	msgPersistFail = "Could not save the match; changes are kept in memory"
)

func goalMessage(scorer string, side model.Side) (string, model.Severity) {
	if side == model.Away {
		return fmt.Sprintf("Goal scored by %s!", scorer), model.Danger
	}
	return fmt.Sprintf("Goal scored by %s!", scorer), model.Success
}

func incidentMessage(kind model.IncidentKind) (string, model.Severity) {
	switch kind {
	case model.HalfTime:
		return "Half Time - Game Paused", model.Info
	case model.FullTime:
		return "Full Time - Game Finished", model.Info
	case model.Foul, model.Penalty:
		return fmt.Sprintf("%s recorded", kind), model.Warning
	default:
		return fmt.Sprintf("%s recorded", kind), model.Info
	}
}

func renameMessage(name string) string {
	return fmt.Sprintf("Team name updated to %s", name)
}
