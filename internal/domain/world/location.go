package world

import "sort"

type LocationKind string

const (
	LocInRoom LocationKind = "in_room"
	LocHeldBy LocationKind = "held_by"
	LocInside LocationKind = "inside"
	LocOnTop  LocationKind = "on_top"
)

// Location is the single source of truth for where an object is. Holders
// carries more than one agent only for a joint cooperative hold.
type Location struct {
	Kind    LocationKind `json:"kind"`
	Ref     string       `json:"ref,omitempty"`
	Holders []string     `json:"holders,omitempty"`
}

func RoomLocation(roomID string) Location {
	return Location{Kind: LocInRoom, Ref: roomID}
}

func HeldLocation(agentIDs ...string) Location {
	holders := append([]string(nil), agentIDs...)
	sort.Strings(holders)
	return Location{Kind: LocHeldBy, Holders: holders}
}

func InsideLocation(objectID string) Location {
	return Location{Kind: LocInside, Ref: objectID}
}

func OnTopLocation(objectID string) Location {
	return Location{Kind: LocOnTop, Ref: objectID}
}

func (l Location) IsHeld() bool {
	return l.Kind == LocHeldBy
}

func (l Location) IsHeldBy(agentID string) bool {
	if l.Kind != LocHeldBy {
		return false
	}
	for _, h := range l.Holders {
		if h == agentID {
			return true
		}
	}
	return false
}
