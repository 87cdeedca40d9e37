package service

import (
	"bytes"
	"context"
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tr33-app/tr33-backend/internal/entity"
	identityDto "github.com/tr33-app/tr33-backend/internal/modules/identity/dto"
	identityService "github.com/tr33-app/tr33-backend/internal/modules/identity/service"
	leaderboardRepo "github.com/tr33-app/tr33-backend/internal/modules/leaderboard/repository"
	leaderboardService "github.com/tr33-app/tr33-backend/internal/modules/leaderboard/service"
	"github.com/tr33-app/tr33-backend/internal/plantnet"
	"github.com/tr33-app/tr33-backend/pkg/apperror"
)

type fakeUserRepo struct {
	users map[string]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*entity.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	if _, exists := r.users[user.Nickname]; exists {
		return apperror.ErrConflict
	}
	if err := user.BeforeCreate(nil); err != nil {
		return err
	}
	r.users[user.Nickname] = user
	return nil
}

func (r *fakeUserRepo) FindByNickname(ctx context.Context, nickname string) (*entity.User, error) {
	user, ok := r.users[nickname]
	if !ok {
		return nil, apperror.ErrNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id string) (*entity.User, error) {
	for _, user := range r.users {
		if user.ID.String() == id {
			return user, nil
		}
	}
	return nil, apperror.ErrNotFound
}

// ledgerBackedLeaderboardRepo aggregates the fake ledger the way the
// SQL aggregation does: sum per identity, descending.
type ledgerBackedLeaderboardRepo struct {
	scans     *fakeScanRepo
	nicknames map[uuid.UUID]string
}

func (r *ledgerBackedLeaderboardRepo) GetTotals(ctx context.Context) ([]leaderboardRepo.Total, error) {
	sums := make(map[uuid.UUID]int)
	for _, scan := range r.scans.scans {
		sums[scan.UserID] += scan.CarbonScore
	}

	var totals []leaderboardRepo.Total
	for userID, points := range sums {
		totals = append(totals, leaderboardRepo.Total{
			Nickname:    r.nicknames[userID],
			TotalPoints: points,
		})
	}
	sort.Slice(totals, func(i, j int) bool {
		return totals[i].TotalPoints > totals[j].TotalPoints
	})
	return totals, nil
}

func TestScanToLeaderboardScenario(t *testing.T) {
	users := newFakeUserRepo()
	identitySvc := identityService.NewIdentityService(users, "test-secret")

	session, err := identitySvc.Register(context.Background(), identityDto.NicknameInput{Nickname: "Ana"})
	require.NoError(t, err)
	anaID := session.User.ID

	ledger := &fakeScanRepo{}
	pending := newFakePendingStore()
	identifier := &fakeIdentifier{match: &plantnet.Match{
		CommonName:     "Holm Oak",
		ScientificName: "Quercus ilex",
		Score:          0.92,
	}}
	scanSvc := newService(ledger, pending, identifier)

	result, err := scanSvc.Identify(context.Background(), anaID, bytes.NewReader([]byte("jpeg")), "tree.jpg")
	require.NoError(t, err)

	commit, err := scanSvc.Commit(context.Background(), anaID, "Ana", result.ScanID)
	require.NoError(t, err)
	assert.Equal(t, 92, commit.CarbonScore)

	require.Len(t, ledger.scans, 1)
	assert.Equal(t, anaID, ledger.scans[0].UserID)
	assert.Equal(t, 92, ledger.scans[0].CarbonScore)

	boardSvc := leaderboardService.NewLeaderboardService(&ledgerBackedLeaderboardRepo{
		scans:     ledger,
		nicknames: map[uuid.UUID]string{anaID: "Ana"},
	})

	entries, err := boardSvc.GetLeaderboard(context.Background(), "Ana")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 1, entries[0].Position)
	assert.Equal(t, "Ana", entries[0].Nickname)
	assert.True(t, entries[0].IsCurrentUser)
	assert.GreaterOrEqual(t, entries[0].TotalPoints, 92)
}
