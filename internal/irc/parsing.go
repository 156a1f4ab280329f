package irc

import "strings"

// CheckAddressed returns true if message starts with botNick followed by a separator or end of string.
func CheckAddressed(message, botNick string) bool {
	if botNick == "" {
		return true
	}
	if !strings.HasPrefix(message, botNick) {
		return false
	}
	if len(message) == len(botNick) {
		return true
	}
	next := message[len(botNick)]
	return next == ' ' || next == ':' || next == ','
}

// StripAddress removes a leading "nick:" or "nick," from message and trims
// the remainder. Messages not addressed to botNick are only trimmed.
func StripAddress(message, botNick string) string {
	if botNick == "" || !CheckAddressed(message, botNick) {
		return strings.TrimSpace(message)
	}
	rest := message[len(botNick):]
	rest = strings.TrimLeft(rest, ":,")
	return strings.TrimSpace(rest)
}

// CheckAdmin returns true if hostmask matches any admin in the list.
// An empty list makes everyone an admin.
func CheckAdmin(hostmask string, adminList []string) bool {
	if len(adminList) == 0 {
		return true
	}
	for _, admin := range adminList {
		if admin == hostmask {
			return true
		}
	}
	return false
}

// CheckValid determines if a message should become a drafting turn:
// the bot was addressed, addressed mode is off, or the message is private,
// and there is some text left to act on.
func CheckValid(isAddressed, addressedMode, isPrivate bool, text string) bool {
	return (isAddressed || !addressedMode || isPrivate) && text != ""
}

// CheckPrivate returns true if target is not a channel (doesn't start with #).
func CheckPrivate(target string) bool {
	return !strings.HasPrefix(target, "#")
}
