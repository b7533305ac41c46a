package staging

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/google/uuid"
)

// Staging keys are namespaced by flow so a token from one flow can never
// address another flow's entry. Registration keys embed a random token;
// update/delete keys derive from the authenticated identity, so repeated
// inits for the same user overwrite the same entry.
func registerKey(token string) string {
	return "pending:register:" + token
}

func updateKey(userID uuid.UUID) string {
	return "pending:update:" + userID.String()
}

func deleteKey(userID uuid.UUID) string {
	return "pending:delete:" + userID.String()
}

func newStagingToken() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return base64.URLEncoding.EncodeToString(raw), nil
}
