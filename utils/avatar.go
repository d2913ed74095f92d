package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"net/url"
	"strings"
)

// avatarColors are the background colors assigned to generated avatars.
var avatarColors = []string{
	"FF6B6B", "4ECDC4", "45B7D1", "96CEB4", "FFEAA7",
	"DDA0DD", "98D8C8", "F7DC6F", "BB8FCE", "85C1E9",
	"F8C471", "82E0AA", "F1948A", "D7BDE2", "A9DFBF",
}

// DefaultAvatarURL builds an initials avatar for a new account that did not
// supply its own picture.
func DefaultAvatarURL(username string) string {
	colorIndex, _ := rand.Int(rand.Reader, big.NewInt(int64(len(avatarColors))))
	color := avatarColors[colorIndex.Int64()]

	return fmt.Sprintf(
		"https://api.dicebear.com/7.x/initials/svg?seed=%s&backgroundColor=%s",
		url.QueryEscape(Initials(username)), color,
	)
}

// Initials extracts up to two initials from a display name.
func Initials(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "U"
	}

	parts := strings.Fields(name)
	initials := string([]rune(parts[0])[0])
	if len(parts) > 1 {
		initials += string([]rune(parts[1])[0])
	} else {
		initials += initials
	}
	return strings.ToUpper(initials)
}
