package models

import (
	"strings"

	"github.com/dmitrijs2005/gophreach/internal/common"
)

// State is the outreach state of a contact.
type State string

const (
	StateNew             State = "NUEVO"
	StateMessageSent     State = "WHATSAPP_ENVIADO"
	StateCalled          State = "LLAMADO"
	StateConfirmed       State = "CONFIRMADO"
	StateNoAnswer        State = "NO_RESPONDE"
	StateRejected        State = "RECHAZA"
	StateInvalidNumber   State = "NUMERO_INVALIDO"
	StateDuplicate       State = "DUPLICADO"
	StatePendingFollowUp State = "PENDIENTE_SEGUIMIENTO"
)

// States lists the vocabulary in catalog order.
var States = []State{
	StateNew,
	StateMessageSent,
	StateCalled,
	StateConfirmed,
	StateNoAnswer,
	StateRejected,
	StateInvalidNumber,
	StateDuplicate,
	StatePendingFollowUp,
}

// ParseState validates s against the closed vocabulary. Surrounding space
// and case are ignored.
func ParseState(s string) (State, error) {
	v := State(strings.ToUpper(strings.TrimSpace(s)))
	for _, st := range States {
		if st == v {
			return st, nil
		}
	}
	return "", common.Validationf("unknown state %q", s)
}

// ParseOutcome validates a reported channel outcome. Empty input means the
// channel was not reported. NUEVO is never a valid outcome.
func ParseOutcome(s string) (State, error) {
	if strings.TrimSpace(s) == "" {
		return "", nil
	}
	st, err := ParseState(s)
	if err != nil {
		return "", err
	}
	if st == StateNew {
		return "", common.Validationf("%s is not a reportable outcome", StateNew)
	}
	return st, nil
}

// StateOrNew decodes a stored cell; empty cells read as NUEVO.
func StateOrNew(s string) State {
	if s == "" {
		return StateNew
	}
	return State(s)
}

// Terminal reports whether reporting treats s as final. Transitions out of
// terminal states are still permitted.
func (s State) Terminal() bool {
	return s == StateConfirmed || s == StateRejected
}

// Managed reports whether s counts as worked on in the team report.
func (s State) Managed() bool {
	switch s {
	case StateCalled, StateMessageSent, StatePendingFollowUp, StateConfirmed, StateRejected:
		return true
	}
	return false
}

// ResolveComposite derives the single resulting state from independently
// reported call and messaging outcomes. Precedence, highest first:
// call CONFIRMADO, call RECHAZA, messaging WHATSAPP_ENVIADO, any other call
// outcome, any other messaging outcome, current.
func ResolveComposite(current, call, messaging State) State {
	switch {
	case call == StateConfirmed:
		return StateConfirmed
	case call == StateRejected:
		return StateRejected
	case messaging == StateMessageSent:
		return StateMessageSent
	case call != "":
		return call
	case messaging != "":
		return messaging
	default:
		return current
	}
}

// Role of an authenticated user.
type Role string

const (
	RoleAdmin        Role = "ADMIN"
	RoleCollaborator Role = "COLABORADOR"
)

func ParseRole(s string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleCollaborator:
		return RoleCollaborator, nil
	}
	return "", common.Validationf("unknown role %q", s)
}

// Origin records how a contact entered the Contacts table.
type Origin string

const (
	OriginPublicForm Origin = "PUBLIC_FORM"
	OriginBaseTotal  Origin = "BASE_TOTAL"
)

// ActivityKind classifies ledger entries.
type ActivityKind string

const (
	KindCreation     ActivityKind = "CREATION"
	KindNote         ActivityKind = "NOTE"
	KindStateChange  ActivityKind = "STATE_CHANGE"
	KindMessageSent  ActivityKind = "MESSAGE_SENT"
	KindCall         ActivityKind = "CALL"
	KindReassignment ActivityKind = "REASSIGNMENT"
	KindLogin        ActivityKind = "LOGIN"
)

var ActivityKinds = []ActivityKind{
	KindCreation, KindNote, KindStateChange, KindMessageSent, KindCall, KindReassignment, KindLogin,
}
