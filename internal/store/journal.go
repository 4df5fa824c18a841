package store

import "context"

// Journal writes action outcomes into one session.
type Journal struct {
	events    *EventRepository
	sessionID string
}

// Journal returns a Journal bound to sessionID.
func (s *Store) Journal(sessionID string) *Journal {
	return &Journal{events: s.Events(), sessionID: sessionID}
}

// SessionID returns the session the journal writes into.
func (j *Journal) SessionID() string {
	return j.sessionID
}

// RecordAction stores one fired action. actionErr, if any, is kept as text.
func (j *Journal) RecordAction(ctx context.Context, kind string, x, y int, actionErr error) error {
	e := &Event{SessionID: j.sessionID, Kind: kind, X: x, Y: y}
	if actionErr != nil {
		e.Error = actionErr.Error()
	}
	return j.events.Record(ctx, e)
}
