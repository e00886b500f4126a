package telegram

import (
	"fmt"
	"strconv"
	"strings"
)

// ActionKind discriminates callback-button actions.
type ActionKind int

const (
	ActionUnknown ActionKind = iota
	ActionMenu
	ActionAdd
	ActionList
	ActionDeleteMenu
	ActionDelete
	ActionTaken
	ActionHelp
)

// Action is the decoded form of a callback button payload. Payloads are
// decoded exactly once, at the update boundary; handlers only ever see typed
// fields, never raw callback strings.
type Action struct {
	Kind         ActionKind
	MedicationID int64 // ActionDelete, ActionTaken
	FiredAt      int64 // ActionTaken: emission unix timestamp
}

// Wire tokens. Telegram caps callback data at 64 bytes, so the taken payload
// carries the medication id, not its name: a 50-char Cyrillic name alone is
// 100 bytes of UTF-8. The name is resolved from the store at ack time.
const (
	cbMenu       = "menu"
	cbAdd        = "add"
	cbList       = "list"
	cbDeleteMenu = "delmenu"
	cbHelp       = "help"
	cbDeletePfx  = "del:"
	cbTakenPfx   = "taken:"
)

// Encode renders the action as callback data.
func (a Action) Encode() string {
	switch a.Kind {
	case ActionMenu:
		return cbMenu
	case ActionAdd:
		return cbAdd
	case ActionList:
		return cbList
	case ActionDeleteMenu:
		return cbDeleteMenu
	case ActionHelp:
		return cbHelp
	case ActionDelete:
		return cbDeletePfx + strconv.FormatInt(a.MedicationID, 10)
	case ActionTaken:
		return fmt.Sprintf("%s%d:%d", cbTakenPfx, a.FiredAt, a.MedicationID)
	}
	return ""
}

// decodeAction parses callback data into an Action. Anything unparseable
// comes back as ActionUnknown and is ignored by the router.
func decodeAction(data string) Action {
	switch data {
	case cbMenu:
		return Action{Kind: ActionMenu}
	case cbAdd:
		return Action{Kind: ActionAdd}
	case cbList:
		return Action{Kind: ActionList}
	case cbDeleteMenu:
		return Action{Kind: ActionDeleteMenu}
	case cbHelp:
		return Action{Kind: ActionHelp}
	}

	if rest, ok := strings.CutPrefix(data, cbDeletePfx); ok {
		id, err := strconv.ParseInt(rest, 10, 64)
		if err != nil || id <= 0 {
			return Action{}
		}
		return Action{Kind: ActionDelete, MedicationID: id}
	}

	if rest, ok := strings.CutPrefix(data, cbTakenPfx); ok {
		tsStr, idStr, ok := strings.Cut(rest, ":")
		if !ok {
			return Action{}
		}
		ts, err := strconv.ParseInt(tsStr, 10, 64)
		if err != nil || ts < 0 {
			return Action{}
		}
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil || id <= 0 {
			return Action{}
		}
		return Action{Kind: ActionTaken, MedicationID: id, FiredAt: ts}
	}

	return Action{}
}
