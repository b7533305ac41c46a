package access

import (
	"testing"

	"github.com/google/uuid"
	"github.com/posthubapp/posthub-backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestCanView(t *testing.T) {
	owner := uuid.New()
	stranger := uuid.New()

	tests := []struct {
		name      string
		status    string
		requester uuid.UUID
		want      bool
	}{
		{"published post, anonymous", models.PostStatusPublished, uuid.Nil, true},
		{"published post, stranger", models.PostStatusPublished, stranger, true},
		{"published post, owner", models.PostStatusPublished, owner, true},
		{"draft, anonymous", models.PostStatusDraft, uuid.Nil, false},
		{"draft, stranger", models.PostStatusDraft, stranger, false},
		{"draft, owner", models.PostStatusDraft, owner, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			post := &models.Post{UserID: owner, Status: tt.status}
			assert.Equal(t, tt.want, CanView(post, tt.requester))
		})
	}
}
