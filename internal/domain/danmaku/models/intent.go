package models

import (
	"fmt"
	"strings"
)

// Intent is the classified purpose of a danmaku. It is decided once per
// message and drives which reply generator runs.
type Intent string

const (
	IntentConversation   Intent = "conversation"
	IntentSingingRequest Intent = "singing_request"
	IntentDrawingRequest Intent = "drawing_request"
	IntentOtherCommand   Intent = "other_command"
)

var intentAliases = map[string]Intent{
	"conversation":    IntentConversation,
	"chat":            IntentConversation,
	"singing_request": IntentSingingRequest,
	"singing":         IntentSingingRequest,
	"sing":            IntentSingingRequest,
	"drawing_request": IntentDrawingRequest,
	"drawing":         IntentDrawingRequest,
	"draw":            IntentDrawingRequest,
	"other_command":   IntentOtherCommand,
	"other":           IntentOtherCommand,
	"command":         IntentOtherCommand,
}

// ParseIntent maps a classifier label onto an Intent. Labels are matched
// case-insensitively, and spaces, dashes and surrounding quotes are tolerated.
func ParseIntent(label string) (Intent, error) {
	normalised := strings.ToLower(strings.Trim(strings.TrimSpace(label), `"'.`))
	normalised = strings.NewReplacer(" ", "_", "-", "_").Replace(normalised)

	if intent, ok := intentAliases[normalised]; ok {
		return intent, nil
	}
	return "", fmt.Errorf("unknown intent label %q", label)
}

func (i Intent) Valid() bool {
	switch i {
	case IntentConversation, IntentSingingRequest, IntentDrawingRequest, IntentOtherCommand:
		return true
	}
	return false
}

func (i Intent) String() string {
	return string(i)
}
