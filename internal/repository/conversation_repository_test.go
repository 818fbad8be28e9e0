package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isazadesabuhi/studxus-backend/internal/model"
)

func TestGetOrCreateReusesPairBothDirections(t *testing.T) {
	db := openTestDB(t)
	alice := seedUser(t, db, "alice@example.com", model.RoleStudent)
	bob := seedUser(t, db, "bob@example.com", model.RoleInstructor)

	repo := NewConversationRepo(db)
	ctx := context.Background()

	c1, err := repo.GetOrCreate(ctx, alice, bob)
	require.NoError(t, err)
	c2, err := repo.GetOrCreate(ctx, bob, alice)
	require.NoError(t, err)

	assert.Equal(t, c1.ID, c2.ID)
	assert.Equal(t, c1.UserAID, c2.UserAID)
	assert.Less(t, c1.UserAID, c1.UserBID)
}

func TestGetOrCreateDistinctPairs(t *testing.T) {
	db := openTestDB(t)
	alice := seedUser(t, db, "alice@example.com", model.RoleStudent)
	bob := seedUser(t, db, "bob@example.com", model.RoleStudent)
	carol := seedUser(t, db, "carol@example.com", model.RoleStudent)

	repo := NewConversationRepo(db)
	ctx := context.Background()

	ab, err := repo.GetOrCreate(ctx, alice, bob)
	require.NoError(t, err)
	ac, err := repo.GetOrCreate(ctx, alice, carol)
	require.NoError(t, err)

	assert.NotEqual(t, ab.ID, ac.ID)
}

func TestConversationMessagesAndUnreadCounts(t *testing.T) {
	db := openTestDB(t)
	alice := seedUser(t, db, "alice@example.com", model.RoleStudent)
	bob := seedUser(t, db, "bob@example.com", model.RoleInstructor)

	convs := NewConversationRepo(db)
	msgs := NewMessageRepo(db)
	ctx := context.Background()

	conv, err := convs.GetOrCreate(ctx, alice, bob)
	require.NoError(t, err)

	for _, text := range []string{"Bonjour", "Le cours est-il disponible?"} {
		m := model.Message{
			ConversationID: conv.ID,
			SenderID:       alice,
			RecipientID:    bob,
			Message:        text,
		}
		require.NoError(t, msgs.Create(ctx, &m))
	}
	require.NoError(t, convs.TouchLastMessage(ctx, conv.ID, time.Now().UTC()))

	list, err := msgs.ListByConversation(ctx, conv.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Bonjour", list[0].Message)
	assert.False(t, list[0].IsRead)

	inbox, err := convs.ListForUser(ctx, bob)
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Equal(t, alice, inbox[0].PeerID)
	assert.Equal(t, int64(2), inbox[0].UnreadCount)
	require.NotNil(t, inbox[0].LastMessage)
	assert.Equal(t, "Le cours est-il disponible?", *inbox[0].LastMessage)

	// the sender has nothing unread
	senderInbox, err := convs.ListForUser(ctx, alice)
	require.NoError(t, err)
	require.Len(t, senderInbox, 1)
	assert.Equal(t, int64(0), senderInbox[0].UnreadCount)

	n, err := msgs.MarkReadForRecipient(ctx, conv.ID, bob)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = msgs.MarkReadForRecipient(ctx, conv.ID, bob)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestNormalizePair(t *testing.T) {
	a, b := model.NormalizePair(9, 3)
	assert.Equal(t, uint64(3), a)
	assert.Equal(t, uint64(9), b)

	a, b = model.NormalizePair(3, 9)
	assert.Equal(t, uint64(3), a)
	assert.Equal(t, uint64(9), b)
}
