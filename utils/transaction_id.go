package utils

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// GenerateTransactionID produces a ledger identifier like "PAY-6f1c2a...".
// The UUID keeps it unique across processes without coordination.
func GenerateTransactionID(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, strings.ReplaceAll(uuid.NewString(), "-", ""))
}
