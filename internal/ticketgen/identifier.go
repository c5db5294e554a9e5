package ticketgen

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	identifierPrefix = "TKT"

	// 10 hex characters = 40 bits of randomness, the only collision guard
	// for identifiers generated within the same second. The store still
	// rejects duplicates as a backstop.
	randomLen = 10
)

// NewTicketIdentifier returns a globally unique, human-legible ticket
// code, e.g. TKT-20250614193042-9F3A61C08B. The identifier doubles as
// the QR payload and never changes once a ticket is issued.
func NewTicketIdentifier() string {
	timestamp := time.Now().UTC().Format("20060102150405")
	random := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:randomLen]
	return fmt.Sprintf("%s-%s-%s", identifierPrefix, timestamp, random)
}
