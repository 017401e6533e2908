package domain

import (
	"crypto/rand"
	"time"
)

// Team groups users behind a shared invite code.
type Team struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	AdminID     string    `json:"adminId"`
	Members     []string  `json:"members"`
	InviteCode  string    `json:"inviteCode"`
	CreatedAt   time.Time `json:"createdAt"`
}

const inviteCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
const inviteCodeLength = 6

// NewInviteCode returns a short uppercase alphanumeric join token. Codes are
// not guaranteed globally unique; the invite flow is low volume enough that
// collisions are acceptable.
func NewInviteCode() string {
	buf := make([]byte, inviteCodeLength)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand is documented to never fail on supported platforms.
		panic(err)
	}
	for i, b := range buf {
		buf[i] = inviteCodeAlphabet[int(b)%len(inviteCodeAlphabet)]
	}
	return string(buf)
}

func cloneTeam(t Team) Team {
	out := t
	if t.Members != nil {
		out.Members = append([]string(nil), t.Members...)
	}
	return out
}
