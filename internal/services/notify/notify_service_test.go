package notify_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Windi-Fikriyansyah/freelancehub_be/internal/models"
	"github.com/Windi-Fikriyansyah/freelancehub_be/internal/services/notify"
	"github.com/Windi-Fikriyansyah/freelancehub_be/internal/testutil"
)

type fakePusher struct {
	userIDs  []uuid.UUID
	payloads []interface{}
}

func (f *fakePusher) SendToUser(userID uuid.UUID, data interface{}) {
	f.userIDs = append(f.userIDs, userID)
	f.payloads = append(f.payloads, data)
}

func TestEmitPersistsAndPushes(t *testing.T) {
	db := testutil.NewDB(t)
	hub := &fakePusher{}
	svc := notify.New(db, hub, nil)

	user := testutil.NewUser(t, db, models.RoleClient)
	related := uuid.New()

	svc.Emit(notify.Notice{
		UserID:    user.ID,
		Title:     "New Proposal Received",
		Message:   "Jane Doe submitted a proposal for \"Build a landing page\"",
		Type:      models.NotifProposalReceived,
		RelatedID: &related,
		ActionURL: "/project/" + related.String(),
	})

	var recs []models.Notification
	require.NoError(t, db.Where("user_id = ?", user.ID).Find(&recs).Error)
	require.Len(t, recs, 1)
	assert.Equal(t, "New Proposal Received", recs[0].Title)
	assert.Equal(t, models.NotifProposalReceived, recs[0].Type)
	assert.False(t, recs[0].IsRead)
	require.NotNil(t, recs[0].RelatedID)
	assert.Equal(t, related, *recs[0].RelatedID)

	require.Len(t, hub.userIDs, 1)
	assert.Equal(t, user.ID, hub.userIDs[0])
}

func TestEmitWithoutHub(t *testing.T) {
	db := testutil.NewDB(t)
	svc := notify.New(db, nil, nil)
	user := testutil.NewUser(t, db, models.RoleFreelancer)

	// hub dan redis nil: tetap tersimpan, tidak panic
	svc.Emit(notify.Notice{
		UserID:  user.ID,
		Title:   "Proposal Accepted!",
		Message: "Your proposal has been accepted.",
		Type:    models.NotifProposalAccepted,
	})

	var count int64
	require.NoError(t, db.Model(&models.Notification{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestEmitFailureIsSwallowed(t *testing.T) {
	db := testutil.NewDB(t)
	require.NoError(t, db.Migrator().DropTable(&models.Notification{}))

	hub := &fakePusher{}
	svc := notify.New(db, hub, nil)

	// insert gagal: tidak boleh panic, dan tidak ada push ke hub
	svc.Emit(notify.Notice{
		UserID:  uuid.New(),
		Title:   "x",
		Message: "y",
		Type:    models.NotifAdminNotice,
	})
	assert.Empty(t, hub.userIDs)
}
