package model

import (
	"glint/config"
	"glint/storage"
)

// Bubbletea messages produced by the commands in this package. The ui package
// aliases these so key handling stays in one place.
//
// Turn messages carry the generation of the turn that produced them. After a
// cancel-and-restart, messages from the replaced turn are still in flight;
// consumers compare Gen against Model.TurnGen and drop stale ones instead of
// re-arming a listener onto the new turn's channel.

// TurnUpdatedMsg signals that the transcript changed mid-turn (status
// messages appearing or being pruned).
type TurnUpdatedMsg struct {
	Gen int
}

// TurnTokenMsg carries one streamed content fragment.
type TurnTokenMsg struct {
	Gen   int
	Token string
}

// TurnDoneMsg carries the settled assistant message for a finished turn.
type TurnDoneMsg struct {
	Gen     int
	Message Message
}

// TurnFailedMsg reports a turn that ended in an error banner.
type TurnFailedMsg struct {
	Gen int
	Err error
}

// TurnCancelledMsg reports a turn stopped by the user.
type TurnCancelledMsg struct {
	Gen int
}

// TurnClosedMsg is emitted when the turn's event channel drains.
type TurnClosedMsg struct {
	Gen int
}

// ConversationsListedMsg carries the sidebar listing.
type ConversationsListedMsg struct {
	Items []storage.ConversationMetadata
}

// ConversationLoadedMsg carries a conversation switched to or created.
type ConversationLoadedMsg struct {
	Conversation *storage.Conversation
}

// ConversationDeletedMsg reports a deletion. Active is non-nil when the
// current conversation changed as a result.
type ConversationDeletedMsg struct {
	DeletedID int64
	Active    *storage.Conversation
}

// TitleUpdatedMsg reports a rename, automatic or user-driven.
type TitleUpdatedMsg struct {
	ID    int64
	Title string
}

// SettingsSavedMsg reports a settings write.
type SettingsSavedMsg struct {
	Settings config.Settings
}

// UploadResolvedMsg carries a resolved file attachment, or the reason it was
// rejected.
type UploadResolvedMsg struct {
	Upload *Upload
	Err    error
}

// ErrMsg is the generic failure report for background commands.
type ErrMsg struct {
	Err error
}
