package ui

import (
	"glint/model"
)

type Message = model.Message

// Aliases for the model package's bubbletea messages so the update loop
// stays readable.
type turnUpdatedMsg = model.TurnUpdatedMsg
type turnTokenMsg = model.TurnTokenMsg
type turnDoneMsg = model.TurnDoneMsg
type turnFailedMsg = model.TurnFailedMsg
type turnCancelledMsg = model.TurnCancelledMsg
type turnClosedMsg = model.TurnClosedMsg
type conversationsListedMsg = model.ConversationsListedMsg
type conversationLoadedMsg = model.ConversationLoadedMsg
type conversationDeletedMsg = model.ConversationDeletedMsg
type titleUpdatedMsg = model.TitleUpdatedMsg
type settingsSavedMsg = model.SettingsSavedMsg
type uploadResolvedMsg = model.UploadResolvedMsg
type errMsg = model.ErrMsg
